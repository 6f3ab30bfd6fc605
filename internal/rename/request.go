package rename

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Mend/internal/utils"
)

// ErrInvalidRequest is returned when a workflow cannot be started for a path
var ErrInvalidRequest = errors.New("invalid rename request")

// Folder is a synced folder: a local directory mirrored at a remote root
type Folder struct {
	LocalRoot  string
	RemoteRoot string
}

// Relative turns an absolute local file path into a path relative to the
// folder root, using forward slashes.
func (f Folder) Relative(localFilePath string) (string, error) {
	rel, err := filepath.Rel(f.LocalRoot, localFilePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidRequest, localFilePath, f.LocalRoot)
	}
	return rel, nil
}

// Request describes one rename: the file as it exists remotely and the name
// proposed for it.
type Request struct {
	OriginalRelativePath string
	ProposedName         string
	FolderRemoteRoot     string
}

// NewRequest validates originalRelativePath and builds a request whose
// proposed name starts out as the original name.
func NewRequest(folder Folder, originalRelativePath string) (Request, error) {
	if originalRelativePath == "" {
		return Request{}, fmt.Errorf("%w: empty path", ErrInvalidRequest)
	}
	if strings.HasPrefix(originalRelativePath, "/") || filepath.IsAbs(originalRelativePath) {
		return Request{}, fmt.Errorf("%w: %s is absolute", ErrInvalidRequest, originalRelativePath)
	}

	rel := path.Clean(originalRelativePath)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return Request{}, fmt.Errorf("%w: %s leaves the folder root", ErrInvalidRequest, originalRelativePath)
	}

	r := Request{
		OriginalRelativePath: rel,
		FolderRemoteRoot:     utils.CleanPath(folder.RemoteRoot),
	}
	r.ProposedName = r.OriginalName()
	return r, nil
}

// OriginalName is the last segment of the original path
func (r Request) OriginalName() string {
	return path.Base(r.OriginalRelativePath)
}

// RelativeDir is the directory part of the original path, "" at the folder root
func (r Request) RelativeDir() string {
	dir := path.Dir(r.OriginalRelativePath)
	if dir == "." {
		return ""
	}
	return dir
}

// SourcePath is the cleaned remote path of the original file
func (r Request) SourcePath() string {
	return utils.CleanPath(r.FolderRemoteRoot, r.OriginalRelativePath)
}

// DestinationPath is the cleaned remote path the proposed name resolves to
func (r Request) DestinationPath() string {
	return utils.CleanPath(r.FolderRemoteRoot, r.RelativeDir(), r.ProposedName)
}
