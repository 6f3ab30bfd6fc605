package rename

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Project-Sylos/Mend/internal/remote"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRemote answers with fixed results and records what it was asked
type stubRemote struct {
	node    *types.Node
	statErr error
	moveErr error

	statPaths []string
	moves     [][2]string
}

func (s *stubRemote) Stat(_ context.Context, _ *types.Account, remotePath string) (*types.Node, error) {
	s.statPaths = append(s.statPaths, remotePath)
	if s.statErr != nil {
		return nil, s.statErr
	}
	return s.node, nil
}

func (s *stubRemote) Move(_ context.Context, _ *types.Account, source, destination string) error {
	s.moves = append(s.moves, [2]string{source, destination})
	return s.moveErr
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name     string
		remote   *stubRemote
		wantKind ProbeKind
	}{
		{
			name:     "exists",
			remote:   &stubRemote{node: &types.Node{Path: "/docs/file.txt", Type: types.NodeTypeFile}},
			wantKind: ProbeExists,
		},
		{
			name:     "not found sentinel",
			remote:   &stubRemote{statErr: remote.ErrNotFound},
			wantKind: ProbeNotFound,
		},
		{
			name:     "not found status",
			remote:   &stubRemote{statErr: &remote.StatusError{Method: http.MethodGet, Path: "/x", StatusCode: http.StatusNotFound}},
			wantKind: ProbeNotFound,
		},
		{
			name:     "unauthorized",
			remote:   &stubRemote{statErr: &remote.StatusError{Method: http.MethodGet, Path: "/x", StatusCode: http.StatusUnauthorized}},
			wantKind: ProbeTransportError,
		},
		{
			name:     "server error",
			remote:   &stubRemote{statErr: &remote.StatusError{Method: http.MethodGet, Path: "/x", StatusCode: http.StatusInternalServerError}},
			wantKind: ProbeTransportError,
		},
		{
			name:     "network error",
			remote:   &stubRemote{statErr: errors.New("dial tcp: connection refused")},
			wantKind: ProbeTransportError,
		},
		{
			name:     "cancelled",
			remote:   &stubRemote{statErr: context.Canceled},
			wantKind: ProbeTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewExistenceProbe(tt.remote).Probe(context.Background(), nil, "/docs//file.txt")
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, []string{"/docs/file.txt"}, tt.remote.statPaths)

			switch res.Kind {
			case ProbeExists:
				require.NotNil(t, res.Node)
				assert.NoError(t, res.Err)
			case ProbeTransportError:
				assert.Error(t, res.Err)
			case ProbeNotFound:
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestRenameExecutor(t *testing.T) {
	ok := &stubRemote{}
	res := NewRenameExecutor(ok).Rename(context.Background(), nil, "docs/fi:le.txt", "/docs/./file.txt")
	assert.True(t, res.Succeeded())
	assert.Equal(t, [][2]string{{"/docs/fi:le.txt", "/docs/file.txt"}}, ok.moves)

	bad := &stubRemote{moveErr: errors.New("connection reset")}
	res = NewRenameExecutor(bad).Rename(context.Background(), nil, "/a", "/b")
	assert.False(t, res.Succeeded())
	assert.Error(t, res.Err)
	assert.Len(t, bad.moves, 1, "a failed move is not retried")
}
