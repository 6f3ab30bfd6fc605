// Command mend renames a synced file whose name the server rejects.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Project-Sylos/Mend/sdk"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

type flags struct {
	config      string
	remoteRoot  string
	localRoot   string
	explanation string
}

func main() {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "mend <path> [new-name]",
		Short: "Rename a file the server cannot accept",
		Long: `mend resolves a synced file whose name contains characters the server
does not allow. It checks that the new name is legal and free on the
server, then renames the file remotely.

Without a new name mend asks for one interactively. Press Ctrl+D to
give up on the file.`,
		Example: `mend docs/fi:le.txt file.txt
mend --local-root ~/Sync --remote-root /Sync ~/Sync/notes\<1\>.md`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "configuration file (defaults are used when empty)")
	cmd.Flags().StringVar(&f.remoteRoot, "remote-root", "/", "remote path the synced folder is mirrored at")
	cmd.Flags().StringVar(&f.localRoot, "local-root", "", "local synced folder; enables absolute local paths")
	cmd.Flags().StringVar(&f.explanation, "explain", "", "extra line shown under the description")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(
		ctx,
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	m, err := open(f.config)
	if err != nil {
		return err
	}
	defer m.Close()

	folder := sdk.Folder{LocalRoot: f.localRoot, RemoteRoot: f.remoteRoot}
	ctx := cmd.Context()

	var opts []sdk.Option
	if f.explanation != "" {
		opts = append(opts, sdk.WithExplanation(f.explanation))
	}

	session := newSession(cmd.InOrStdin(), cmd.OutOrStdout())
	opts = append(opts, sdk.WithHandlers(session.handlers()))

	var w *sdk.Workflow
	if f.localRoot != "" && filepath.IsAbs(args[0]) {
		w, err = m.StartRenameLocal(ctx, folder, args[0], opts...)
	} else {
		w, err = m.StartRename(ctx, folder, args[0], opts...)
	}
	if err != nil {
		return fmt.Errorf("cannot rename %s: %w", args[0], err)
	}

	var outcome sdk.Outcome
	if len(args) == 2 {
		outcome, err = session.once(ctx, w, args[1])
	} else {
		outcome, err = session.interactive(ctx, w)
	}
	if err != nil {
		return err
	}
	return report(cmd, outcome)
}

func open(configPath string) (*sdk.Mend, error) {
	if configPath == "" {
		return sdk.NewWithDefaults()
	}
	return sdk.New(configPath)
}

var errCancelled = errors.New("rename cancelled")

func report(cmd *cobra.Command, o sdk.Outcome) error {
	switch o.Kind {
	case sdk.OutcomeCompleted:
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", o.Path)
		return nil
	case sdk.OutcomeFailed:
		return fmt.Errorf("%s (%s)", o.Message, o.Reason)
	default:
		return errCancelled
	}
}
