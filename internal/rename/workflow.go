// Package rename resolves a file whose name the remote rejects: the user edits
// a candidate name, the workflow checks the remote for a clash and moves the
// file once the name is free.
package rename

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Project-Sylos/Mend/internal/logging"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrWorkflowClosed is returned by every call made after the workflow ended
	ErrWorkflowClosed = errors.New("rename workflow closed")
	// ErrConfirmDisabled is returned by Confirm when confirmation is not allowed
	ErrConfirmDisabled = errors.New("confirm is disabled")
	// ErrBusy is returned by Edit while a remote call is in flight
	ErrBusy = errors.New("rename workflow busy")
)

// Handlers receive workflow notifications. They run on the workflow's own
// goroutine in transition order and must not call back into the workflow
// synchronously. Nil handlers are skipped.
type Handlers struct {
	OnValidationChanged func(ValidationResult)
	OnStateChanged      func(Snapshot)
	OnOutcome           func(Outcome)
}

type options struct {
	logger      *zap.Logger
	handlers    Handlers
	explanation string
}

// Option configures a workflow
type Option func(*options)

// WithLogger sets the logger; workflows are silent by default
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHandlers sets the notification callbacks
func WithHandlers(h Handlers) Option {
	return func(o *options) { o.handlers = h }
}

// WithExplanation sets an extra line shown alongside the description
func WithExplanation(msg string) Option {
	return func(o *options) { o.explanation = msg }
}

// Workflow is one rename session for one file. All state lives on a single
// goroutine; the exported methods post to it and wait for the reply.
type Workflow struct {
	id       string
	account  *types.Account
	probe    *ExistenceProbe
	executor *RenameExecutor
	logger   *zap.Logger
	handlers Handlers
	explain  string

	ctx    context.Context
	events chan func()
	done   chan struct{}

	// owned by the loop goroutine
	request    Request
	candidate  string
	validation ValidationResult
	state      State
	confirm    bool
	message    string
	dest       string
	outcome    Outcome
	seq        uint64
	pending    uint64
	cancelOp   context.CancelFunc
}

// Start opens a rename workflow for the file at originalRelativePath inside
// folder. The candidate starts as the original name, which is never valid, so
// confirm is disabled until the user edits it. Cancelling ctx cancels the
// workflow.
func Start(ctx context.Context, r Remote, account *types.Account, folder Folder, originalRelativePath string, opts ...Option) (*Workflow, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil remote", ErrInvalidRequest)
	}
	req, err := NewRequest(folder, originalRelativePath)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	w := &Workflow{
		id:       id,
		account:  account,
		probe:    NewExistenceProbe(r),
		executor: NewRenameExecutor(r),
		logger: logging.OrNop(o.logger).Named("rename").With(
			zap.String("workflow", id),
			zap.String("source", req.SourcePath()),
		),
		handlers:   o.handlers,
		explain:    o.explanation,
		ctx:        ctx,
		events:     make(chan func()),
		done:       make(chan struct{}),
		request:    req,
		candidate:  req.OriginalName(),
		validation: Validate(req.OriginalName(), req.OriginalName()),
		state:      StateEditing,
	}
	w.message = w.validation.Reason

	w.logger.Debug("rename workflow started")
	go w.run()
	return w, nil
}

// ID identifies the workflow in logs
func (w *Workflow) ID() string {
	return w.id
}

// Description is the user-facing explanation of why the file needs a new name
func (w *Workflow) Description() string {
	return fmt.Sprintf(descriptionFormat, w.request.OriginalRelativePath)
}

// Explanation is the optional extra line set with WithExplanation
func (w *Workflow) Explanation() string {
	return w.explain
}

// OriginalName is the file name being replaced
func (w *Workflow) OriginalName() string {
	return w.request.OriginalName()
}

func (w *Workflow) run() {
	defer close(w.done)
	w.notifyValidation()
	w.notifyState()

	for !w.state.Terminal() {
		select {
		case fn := <-w.events:
			fn()
		case <-w.ctx.Done():
			w.logger.Debug("context done, cancelling", zap.Error(w.ctx.Err()))
			w.cancel()
		}
	}
}

// post hands fn to the loop. It fails once the loop has exited.
func (w *Workflow) post(fn func()) error {
	select {
	case w.events <- fn:
		return nil
	case <-w.done:
		return ErrWorkflowClosed
	}
}

// call runs fn on the loop and waits for its result
func (w *Workflow) call(fn func() error) error {
	errc := make(chan error, 1)
	if err := w.post(func() { errc <- fn() }); err != nil {
		return err
	}
	return <-errc
}

// Edit replaces the candidate name and re-validates it. Surrounding whitespace
// is trimmed. Re-submitting the current candidate changes nothing.
//
// The result only judges the name itself. Whether Confirm is allowed is
// Snapshot.ConfirmEnabled: after a conflict the same name stays valid but
// cannot be confirmed again.
func (w *Workflow) Edit(candidate string) (ValidationResult, error) {
	var result ValidationResult
	err := w.call(func() error {
		if w.state.busy() {
			return ErrBusy
		}
		trimmed := strings.TrimSpace(candidate)
		if trimmed == w.candidate {
			result = w.validation
			return nil
		}

		w.candidate = trimmed
		w.validation = Validate(trimmed, w.request.OriginalName())
		w.state = StateEditing
		w.confirm = w.validation.Valid
		w.message = w.validation.Reason
		w.dest = ""
		result = w.validation

		w.notifyValidation()
		w.notifyState()
		return nil
	})
	return result, err
}

// Confirm accepts the current candidate and starts the existence probe
func (w *Workflow) Confirm() error {
	return w.call(func() error {
		if w.state != StateEditing || !w.confirm {
			return ErrConfirmDisabled
		}

		w.request.ProposedName = w.candidate
		w.dest = w.request.DestinationPath()
		w.confirm = false
		w.message = ""
		w.transition(StateConfirming)

		w.startProbe()
		return nil
	})
}

// Cancel abandons the workflow. Any in-flight call is cancelled and its
// result discarded; the remote may still complete an already-sent move.
func (w *Workflow) Cancel() error {
	return w.call(func() error {
		w.cancel()
		return nil
	})
}

// Snapshot returns the current visible state
func (w *Workflow) Snapshot() (Snapshot, error) {
	select {
	case <-w.done:
		return w.snapshot(), nil
	default:
	}

	var s Snapshot
	err := w.call(func() error {
		s = w.snapshot()
		return nil
	})
	if errors.Is(err, ErrWorkflowClosed) {
		return w.snapshot(), nil
	}
	return s, err
}

// Done is closed once the workflow reached a terminal state
func (w *Workflow) Done() <-chan struct{} {
	return w.done
}

// Outcome returns the terminal outcome, or false while the workflow is live
func (w *Workflow) Outcome() (Outcome, bool) {
	select {
	case <-w.done:
		return w.outcome, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the workflow ends or ctx is done
func (w *Workflow) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-w.done:
		return w.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (w *Workflow) snapshot() Snapshot {
	return Snapshot{
		State:          w.state,
		Candidate:      w.candidate,
		Validation:     w.validation,
		ConfirmEnabled: w.confirm,
		Message:        w.message,
		Destination:    w.dest,
	}
}

func (w *Workflow) transition(s State) {
	w.logger.Debug("state changed", zap.Stringer("from", w.state), zap.Stringer("to", s))
	w.state = s
	w.notifyState()
}

// begin registers a new in-flight call and returns its token and context
func (w *Workflow) begin() (uint64, context.Context) {
	w.seq++
	w.pending = w.seq
	ctx, cancel := context.WithCancel(w.ctx)
	w.cancelOp = cancel
	return w.pending, ctx
}

// settle reports whether token is the live call, and clears it if so
func (w *Workflow) settle(token uint64, what string) bool {
	if w.state.Terminal() || token != w.pending {
		w.logger.Debug("discarding stale result", zap.String("call", what), zap.Uint64("token", token))
		return false
	}
	w.release()
	return true
}

func (w *Workflow) release() {
	w.pending = 0
	if w.cancelOp != nil {
		w.cancelOp()
		w.cancelOp = nil
	}
}

func (w *Workflow) startProbe() {
	token, ctx := w.begin()
	dest := w.dest
	w.transition(StateProbingExistence)

	go func() {
		res := w.probe.Probe(ctx, w.account, dest)
		_ = w.post(func() { w.probeDone(token, res) })
	}()
}

func (w *Workflow) probeDone(token uint64, res ProbeResult) {
	if !w.settle(token, "probe") {
		return
	}

	switch res.Kind {
	case ProbeExists:
		w.logger.Info("destination already exists", zap.String("destination", w.dest))
		w.message = MessageConflict
		w.confirm = false
		w.transition(StateConflictFound)
	case ProbeNotFound:
		w.startRename()
	default:
		w.logger.Warn("existence probe failed", zap.String("destination", w.dest), zap.Error(res.Err))
		w.finish(StateFailed, failed(ReasonConnectivity))
	}
}

func (w *Workflow) startRename() {
	token, ctx := w.begin()
	source, dest := w.request.SourcePath(), w.dest
	w.transition(StateRenaming)

	go func() {
		res := w.executor.Rename(ctx, w.account, source, dest)
		_ = w.post(func() { w.renameDone(token, res) })
	}()
}

func (w *Workflow) renameDone(token uint64, res RenameResult) {
	if !w.settle(token, "rename") {
		return
	}

	if !res.Succeeded() {
		w.logger.Warn("rename failed", zap.String("destination", w.dest), zap.Error(res.Err))
		w.finish(StateFailed, failed(ReasonRenameFailed))
		return
	}
	w.logger.Info("file renamed", zap.String("destination", w.dest))
	w.finish(StateCompleted, completed(w.dest))
}

func (w *Workflow) cancel() {
	if w.state.Terminal() {
		return
	}
	if w.pending != 0 {
		w.logger.Debug("cancelling in-flight call", zap.Stringer("state", w.state))
	}
	w.release()
	w.finish(StateCancelled, cancelled())
}

func (w *Workflow) finish(s State, outcome Outcome) {
	w.release()
	w.outcome = outcome
	w.confirm = false
	if outcome.Kind == OutcomeFailed {
		w.message = outcome.Message
	}
	w.transition(s)
	if w.handlers.OnOutcome != nil {
		w.handlers.OnOutcome(outcome)
	}
}

func (w *Workflow) notifyValidation() {
	if w.handlers.OnValidationChanged != nil {
		w.handlers.OnValidationChanged(w.validation)
	}
}

func (w *Workflow) notifyState() {
	if w.handlers.OnStateChanged != nil {
		w.handlers.OnStateChanged(w.snapshot())
	}
}
