package types

import (
	"time"
)

// Config represents the complete configuration for Mend
type Config struct {
	Remote RemoteConfig `json:"remote"`
	API    APIConfig    `json:"api"`
	Store  StoreConfig  `json:"store"`
	Log    LogConfig    `json:"log"`
}

// RemoteConfig describes the remote storage endpoint the rename workflow talks to
type RemoteConfig struct {
	BaseURL        string `json:"base_url" validate:"omitempty,url"`
	Token          string `json:"token,omitempty"`
	User           string `json:"user,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds" validate:"gte=0,lte=600"`
	RetryCount     int    `json:"retry_count" validate:"gte=0,lte=10"`
}

// APIConfig represents the storage server HTTP configuration
type APIConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port" validate:"gte=1,lte=65535"`
	Token string `json:"token,omitempty"`
}

// StoreConfig represents the storage server database configuration
type StoreConfig struct {
	DBPath string `json:"db_path"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" validate:"omitempty,oneof=console json"`
}

// Account is the opaque remote account context passed through to network calls.
// The rename core never inspects it.
type Account struct {
	BaseURL string
	Token   string
	User    string
}

// AccountFromConfig builds an Account from the remote section of the config
func AccountFromConfig(cfg RemoteConfig) *Account {
	return &Account{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		User:    cfg.User,
	}
}

// Node represents a remote filesystem node (file or folder)
type Node struct {
	ID          string    `json:"id" db:"id"`               // UUID-based: n-{uuid}, root is "root"
	ParentID    string    `json:"parent_id" db:"parent_id"` // empty for root
	Name        string    `json:"name" db:"name"`
	Path        string    `json:"path" db:"path"` // absolute, cleaned, "/" for root
	Type        string    `json:"type" db:"type"` // "folder" or "file"
	DepthLevel  int       `json:"depth_level" db:"depth_level"`
	Size        int64     `json:"size" db:"size"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
	Checksum    string    `json:"checksum,omitempty" db:"checksum"`
}

// IsFolder reports whether the node is a folder
func (n *Node) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

// APIResponse represents a generic API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NodeType constants
const (
	NodeTypeFolder = "folder"
	NodeTypeFile   = "file"
)

// Node ID constants
const (
	RootID     = "root"
	NodePrefix = "n-"
)
