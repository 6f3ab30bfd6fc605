package rename

import (
	"context"

	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/Project-Sylos/Mend/internal/utils"
)

// RenameResult is the outcome of a move. A nil Err means success.
type RenameResult struct {
	Err error
}

// Succeeded reports whether the move went through
func (r RenameResult) Succeeded() bool {
	return r.Err == nil
}

// RenameExecutor issues remote moves. A move is not idempotent and is never
// retried here; callers re-probe before trying again.
type RenameExecutor struct {
	remote Remote
}

// NewRenameExecutor creates an executor over r
func NewRenameExecutor(r Remote) *RenameExecutor {
	return &RenameExecutor{remote: r}
}

// Rename moves source to destination. On error the destination is assumed
// unchanged.
func (e *RenameExecutor) Rename(ctx context.Context, account *types.Account, source, destination string) RenameResult {
	err := e.remote.Move(ctx, account, utils.CleanPath(source), utils.CleanPath(destination))
	return RenameResult{Err: err}
}
