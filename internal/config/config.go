package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/go-playground/validator/v10"
)

const (
	defaultHost           = "localhost"
	defaultPort           = 8086
	defaultDBPath         = "./mend.db"
	defaultTimeoutSeconds = 30
	defaultRetryCount     = 3
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"

	// MemoryDBPath keeps the storage server database in memory
	MemoryDBPath = ":memory:"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns a default configuration
func DefaultConfig() types.Config {
	return types.Config{
		Remote: types.RemoteConfig{
			BaseURL:        fmt.Sprintf("http://%s:%d", defaultHost, defaultPort),
			TimeoutSeconds: defaultTimeoutSeconds,
			RetryCount:     defaultRetryCount,
		},
		API: types.APIConfig{
			Host: defaultHost,
			Port: defaultPort,
		},
		Store: types.StoreConfig{
			DBPath: defaultDBPath,
		},
		Log: types.LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(configPath string) (*types.Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Ensure DB path is absolute
	if cfg.Store.DBPath != MemoryDBPath && !filepath.IsAbs(cfg.Store.DBPath) {
		absPath, err := filepath.Abs(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		cfg.Store.DBPath = absPath
	}

	return &cfg, nil
}

// applyDefaults fills every zero-valued field that has a default
func applyDefaults(cfg *types.Config) {
	def := DefaultConfig()

	if cfg.API.Host == "" {
		cfg.API.Host = def.API.Host
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = def.API.Port
	}
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = fmt.Sprintf("http://%s:%d", cfg.API.Host, cfg.API.Port)
	}
	if cfg.Remote.TimeoutSeconds == 0 {
		cfg.Remote.TimeoutSeconds = def.Remote.TimeoutSeconds
	}
	if cfg.Store.DBPath == "" {
		cfg.Store.DBPath = def.Store.DBPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	return nil
}

// SaveToFile saves configuration to a JSON file
func SaveToFile(cfg *types.Config, configPath string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
