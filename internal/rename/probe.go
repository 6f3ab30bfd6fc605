package rename

import (
	"context"

	"github.com/Project-Sylos/Mend/internal/remote"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/Project-Sylos/Mend/internal/utils"
)

// Remote is the pair of network calls the workflow consumes. Implemented by
// *remote.Client.
type Remote interface {
	Stat(ctx context.Context, account *types.Account, remotePath string) (*types.Node, error)
	Move(ctx context.Context, account *types.Account, source, destination string) error
}

// ProbeKind tags a probe result
type ProbeKind int

const (
	ProbeExists ProbeKind = iota + 1
	ProbeNotFound
	ProbeTransportError
)

func (k ProbeKind) String() string {
	switch k {
	case ProbeExists:
		return "exists"
	case ProbeNotFound:
		return "not found"
	case ProbeTransportError:
		return "transport error"
	default:
		return "unknown"
	}
}

// ProbeResult is the outcome of an existence check. Node is set for
// ProbeExists, Err for ProbeTransportError.
type ProbeResult struct {
	Kind ProbeKind
	Node *types.Node
	Err  error
}

// ExistenceProbe asks the remote whether a path exists
type ExistenceProbe struct {
	remote Remote
}

// NewExistenceProbe creates a probe over r
func NewExistenceProbe(r Remote) *ExistenceProbe {
	return &ExistenceProbe{remote: r}
}

// Probe checks remotePath. Only a "not found"-class error means NotFound;
// every other error, including cancellation, is a transport error.
func (p *ExistenceProbe) Probe(ctx context.Context, account *types.Account, remotePath string) ProbeResult {
	node, err := p.remote.Stat(ctx, account, utils.CleanPath(remotePath))
	switch {
	case err == nil:
		return ProbeResult{Kind: ProbeExists, Node: node}
	case remote.IsNotFound(err):
		return ProbeResult{Kind: ProbeNotFound}
	default:
		return ProbeResult{Kind: ProbeTransportError, Err: err}
	}
}
