// Package storage implements the remote storage service served by the API:
// a path-addressed node tree persisted in DuckDB.
package storage

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/Project-Sylos/Mend/internal/config"
	"github.com/Project-Sylos/Mend/internal/db"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/Project-Sylos/Mend/internal/utils"
)

// ErrInvalidName is returned when a new node name is not a single path segment
var ErrInvalidName = errors.New("invalid node name")

// Service is the remote storage backend
type Service struct {
	db  *db.DB
	cfg *types.Config
}

// NewFromFile creates a Service from a JSON config file
func NewFromFile(configPath string) (*Service, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New creates a Service backed by the database configured in cfg
func New(cfg *types.Config) (*Service, error) {
	database, err := db.New(cfg.Store.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Service{
		db:  database,
		cfg: cfg,
	}, nil
}

// Stat returns the node stored at path
func (s *Service) Stat(path string) (*types.Node, error) {
	return s.db.GetNodeByPath(path)
}

// Get returns the node with the given ID
func (s *Service) Get(id string) (*types.Node, error) {
	return s.db.GetNodeByID(id)
}

// Exists reports whether a node is stored at path
func (s *Service) Exists(path string) (bool, error) {
	return s.db.Exists(path)
}

// Tree returns every stored path in lexical order
func (s *Service) Tree() ([]string, error) {
	return s.db.ListPaths()
}

// ListChildren returns the children of the folder at path
func (s *Service) ListChildren(path string) ([]*types.Node, error) {
	parent, err := s.db.GetNodeByPath(path)
	if err != nil {
		return nil, err
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("%s: %w", path, db.ErrNotFolder)
	}
	return s.db.GetChildrenByParentID(parent.ID)
}

// CreateFolder creates a folder named name inside the folder at parentPath
func (s *Service) CreateFolder(parentPath, name string) (*types.Node, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.db.CreateNode(parentPath, name, types.NodeTypeFolder, 0, "")
}

// UploadFile stores file metadata inside the folder at parentPath.
// Only size and checksum of data are kept.
func (s *Service) UploadFile(parentPath, name string, data []byte) (*types.Node, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.db.CreateNode(parentPath, name, types.NodeTypeFile, int64(len(data)), ComputeChecksum(data))
}

// Move renames or moves the node at source to destination atomically.
// The destination must not exist.
func (s *Service) Move(source, destination string) (*types.Node, error) {
	_, name := utils.SplitPath(destination)
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.db.MoveNode(source, destination)
}

// Delete removes the node at path and its subtree
func (s *Service) Delete(path string) error {
	return s.db.DeleteNode(path)
}

// Reset clears all nodes and recreates the root
func (s *Service) Reset() error {
	return s.db.Reset()
}

// NodeCount returns the number of stored nodes, root included
func (s *Service) NodeCount() (int, error) {
	return s.db.GetNodeCount()
}

// GetConfig returns the current configuration
func (s *Service) GetConfig() *types.Config {
	return s.cfg
}

// Close closes the database connection
func (s *Service) Close() error {
	return s.db.Close()
}

// ComputeChecksum computes a SHA256 checksum for the given data
func ComputeChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// checkName only guards the tree structure; the server itself accepts names
// that sync clients consider illegal, which is what the rename workflow repairs.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}
