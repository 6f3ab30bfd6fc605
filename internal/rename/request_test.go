package rename

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	folder := Folder{LocalRoot: "/home/alice/Sync", RemoteRoot: "/remote/"}

	tests := []struct {
		name        string
		rel         string
		wantErr     bool
		wantName    string
		wantDir     string
		wantSource  string
		wantDefault string
	}{
		{
			name:        "nested file",
			rel:         "docs/fi:le.txt",
			wantName:    "fi:le.txt",
			wantDir:     "docs",
			wantSource:  "/remote/docs/fi:le.txt",
			wantDefault: "/remote/docs/fi:le.txt",
		},
		{
			name:        "file at root",
			rel:         "bad|name",
			wantName:    "bad|name",
			wantDir:     "",
			wantSource:  "/remote/bad|name",
			wantDefault: "/remote/bad|name",
		},
		{
			name:        "unclean path",
			rel:         "docs//./sub/x?.md",
			wantName:    "x?.md",
			wantDir:     "docs/sub",
			wantSource:  "/remote/docs/sub/x?.md",
			wantDefault: "/remote/docs/sub/x?.md",
		},
		{name: "empty", rel: "", wantErr: true},
		{name: "absolute", rel: "/docs/a.txt", wantErr: true},
		{name: "escapes root", rel: "../a.txt", wantErr: true},
		{name: "dot", rel: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(folder, tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, req.OriginalName())
			assert.Equal(t, tt.wantName, req.ProposedName)
			assert.Equal(t, tt.wantDir, req.RelativeDir())
			assert.Equal(t, tt.wantSource, req.SourcePath())
			assert.Equal(t, tt.wantDefault, req.DestinationPath())
		})
	}
}

func TestDestinationPath(t *testing.T) {
	req, err := NewRequest(Folder{RemoteRoot: "/remote"}, "docs/fi:le.txt")
	require.NoError(t, err)

	req.ProposedName = "file.txt"
	assert.Equal(t, "/remote/docs/file.txt", req.DestinationPath())
	assert.Equal(t, "/remote/docs/fi:le.txt", req.SourcePath(), "source does not follow the proposal")

	rootReq, err := NewRequest(Folder{RemoteRoot: "/"}, "a*b")
	require.NoError(t, err)
	rootReq.ProposedName = "ab"
	assert.Equal(t, "/ab", rootReq.DestinationPath())
}

func TestFolderRelative(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Sync")
	folder := Folder{LocalRoot: root, RemoteRoot: "/remote"}

	rel, err := folder.Relative(filepath.Join(root, "docs", "fi:le.txt"))
	require.NoError(t, err)
	assert.Equal(t, "docs/fi:le.txt", rel)

	_, err = folder.Relative(root)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = folder.Relative(filepath.Join(filepath.Dir(root), "other", "x.txt"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
