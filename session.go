package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Project-Sylos/Mend/sdk"
)

// session drives one workflow from a terminal
type session struct {
	in  io.Reader
	out io.Writer

	// settled receives the snapshot that ends each confirm round: a conflict
	// or a terminal state. The send never blocks the workflow.
	settled chan sdk.Snapshot
}

func newSession(in io.Reader, out io.Writer) *session {
	return &session{
		in:      in,
		out:     out,
		settled: make(chan sdk.Snapshot, 4),
	}
}

func (s *session) handlers() sdk.Handlers {
	return sdk.Handlers{
		OnStateChanged: func(snap sdk.Snapshot) {
			if snap.State != sdk.StateConflictFound && !snap.State.Terminal() {
				return
			}
			select {
			case s.settled <- snap:
			default:
			}
		},
	}
}

func (s *session) intro(w *sdk.Workflow) {
	fmt.Fprintln(s.out, w.Description())
	if e := w.Explanation(); e != "" {
		fmt.Fprintln(s.out, e)
	}
}

// once tries a single name and gives up on any rejection
func (s *session) once(ctx context.Context, w *sdk.Workflow, name string) (sdk.Outcome, error) {
	s.intro(w)

	v, err := w.Edit(name)
	if err != nil {
		return sdk.Outcome{}, err
	}
	if !v.Valid {
		_ = w.Cancel()
		return sdk.Outcome{}, errors.New(v.Reason)
	}
	if err := w.Confirm(); err != nil {
		return sdk.Outcome{}, err
	}

	select {
	case snap := <-s.settled:
		if snap.State == sdk.StateConflictFound {
			_ = w.Cancel()
			return sdk.Outcome{}, errors.New(snap.Message)
		}
	case <-w.Done():
	}
	return w.Wait(context.WithoutCancel(ctx))
}

// interactive prompts for names until one is accepted or input ends
func (s *session) interactive(ctx context.Context, w *sdk.Workflow) (sdk.Outcome, error) {
	s.intro(w)
	done := make(chan struct{})
	defer close(done)
	lines := readLines(done, s.in)
	final := context.WithoutCancel(ctx)

	for {
		fmt.Fprint(s.out, "New name: ")

		var line string
		select {
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				_ = w.Cancel()
				return w.Wait(final)
			}
			line = l
		case <-w.Done():
			fmt.Fprintln(s.out)
			return w.Wait(final)
		}

		v, err := w.Edit(line)
		if errors.Is(err, sdk.ErrWorkflowClosed) {
			return w.Wait(final)
		}
		if err != nil {
			return sdk.Outcome{}, err
		}
		if !v.Valid {
			fmt.Fprintln(s.out, v.Reason)
			continue
		}

		err = w.Confirm()
		if errors.Is(err, sdk.ErrConfirmDisabled) {
			fmt.Fprintln(s.out, "Please pick another name.")
			continue
		}
		if errors.Is(err, sdk.ErrWorkflowClosed) {
			return w.Wait(final)
		}
		if err != nil {
			return sdk.Outcome{}, err
		}

		select {
		case snap := <-s.settled:
			if snap.State == sdk.StateConflictFound {
				fmt.Fprintln(s.out, snap.Message)
				continue
			}
		case <-w.Done():
		}
		return w.Wait(final)
	}
}

// readLines feeds r line by line until EOF or until done is closed. A read
// already blocked on r finishes only when r yields.
func readLines(done <-chan struct{}, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
