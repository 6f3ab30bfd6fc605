package sdk

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Project-Sylos/Mend/internal/api"
	"github.com/Project-Sylos/Mend/internal/config"
	"github.com/Project-Sylos/Mend/internal/remote"
	"github.com/Project-Sylos/Mend/internal/storage"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestNew tests the New function with various config files
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		missing     bool
		expectError bool
	}{
		{
			name: "valid config",
			content: `{
				"remote": {"base_url": "http://localhost:9000", "token": "t", "retry_count": 1},
				"log": {"level": "debug", "format": "json"}
			}`,
		},
		{
			name:    "empty object uses defaults",
			content: `{}`,
		},
		{
			name:        "invalid JSON",
			content:     `{"remote": `,
			expectError: true,
		},
		{
			name:        "invalid log level",
			content:     `{"log": {"level": "loud"}}`,
			expectError: true,
		},
		{
			name:        "missing file",
			missing:     true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			m, err := New(path)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			defer m.Close()
			assert.NotNil(t, m.GetConfig())
		})
	}
}

func TestNewWithDefaults(t *testing.T) {
	m, err := NewWithDefaults()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8086", m.GetConfig().Remote.BaseURL)
	assert.NoError(t, m.Close())
}

func TestNewWithConfigRejectsInvalid(t *testing.T) {
	_, err := NewWithConfig(nil, nil)
	assert.Error(t, err)

	cfg := config.DefaultConfig()
	cfg.API.Port = 0
	_, err = NewWithConfig(&cfg, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	m, err := NewWithDefaults()
	require.NoError(t, err)

	assert.True(t, m.Validate("file.txt", "fi:le.txt").Valid)
	assert.False(t, m.Validate("fi:le.txt", "fi:le.txt").Valid)
	assert.False(t, m.Validate("file.", "fi:le.txt").Valid)
}

func newServedMend(t *testing.T) (*Mend, *storage.Service) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.DBPath = filepath.Join(t.TempDir(), "sdk.db")

	store, err := storage.New(&cfg)
	require.NoError(t, err)
	_, err = store.CreateFolder("/", "Sync")
	require.NoError(t, err)
	_, err = store.UploadFile("/Sync", "notes<1>.md", []byte("# notes"))
	require.NoError(t, err)

	ts := httptest.NewServer(api.NewServer(store, &cfg.API, zaptest.NewLogger(t)).GetRouter())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})

	cfg.Remote.BaseURL = ts.URL
	cfg.Remote.RetryCount = 0
	m, err := NewWithConfig(&cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return m, store
}

func TestExists(t *testing.T) {
	m, _ := newServedMend(t)
	ctx := context.Background()

	ok, err := m.Exists(ctx, "/Sync/notes<1>.md")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Exists(ctx, "/Sync/missing.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExistsUnreachable(t *testing.T) {
	ts := httptest.NewServer(nil)
	ts.Close()

	cfg := config.DefaultConfig()
	cfg.Remote.BaseURL = ts.URL
	cfg.Remote.RetryCount = 0
	m, err := NewWithConfig(&cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ok, err := m.Exists(context.Background(), "/Sync/notes<1>.md")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStartRenameLocal(t *testing.T) {
	m, store := newServedMend(t)
	localRoot := filepath.Join(t.TempDir(), "Sync")
	folder := Folder{LocalRoot: localRoot, RemoteRoot: "/Sync"}

	var outcomes []Outcome
	w, err := m.StartRenameLocal(context.Background(), folder, filepath.Join(localRoot, "notes<1>.md"),
		WithHandlers(Handlers{OnOutcome: func(o Outcome) { outcomes = append(outcomes, o) }}))
	require.NoError(t, err)

	_, err = w.Edit("notes 1.md")
	require.NoError(t, err)
	require.NoError(t, w.Confirm())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o, err := w.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o.Kind)
	assert.Equal(t, "/Sync/notes 1.md", o.Path)
	assert.Len(t, outcomes, 1)

	_, err = store.Stat("/Sync/notes 1.md")
	assert.NoError(t, err)

	_, err = m.StartRenameLocal(context.Background(), folder, "/elsewhere/file.txt")
	assert.Error(t, err)
}

// freeRemote reports every path as missing and accepts every move
type freeRemote struct {
	moved [][2]string
}

func (f *freeRemote) Stat(context.Context, *Account, string) (*types.Node, error) {
	return nil, remote.ErrNotFound
}

func (f *freeRemote) Move(_ context.Context, _ *Account, source, destination string) error {
	f.moved = append(f.moved, [2]string{source, destination})
	return nil
}

func TestStartRenameWorkflow(t *testing.T) {
	r := &freeRemote{}
	w, err := StartRenameWorkflow(context.Background(), r, &Account{}, Folder{RemoteRoot: "/Sync"}, "a/b?.txt")
	require.NoError(t, err)

	_, err = w.Edit("b.txt")
	require.NoError(t, err)
	require.NoError(t, w.Confirm())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o, err := w.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, o.Kind)
	assert.Equal(t, [][2]string{{"/Sync/a/b?.txt", "/Sync/a/b.txt"}}, r.moved)
}
