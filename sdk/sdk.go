package sdk

import (
	"context"
	"fmt"

	"github.com/Project-Sylos/Mend/internal/config"
	"github.com/Project-Sylos/Mend/internal/logging"
	"github.com/Project-Sylos/Mend/internal/remote"
	"github.com/Project-Sylos/Mend/internal/rename"
	"github.com/Project-Sylos/Mend/internal/types"
	"go.uber.org/zap"
)

// Re-exported workflow types, so callers outside this module can drive a
// rename without reaching into internal packages.
type (
	Workflow         = rename.Workflow
	Folder           = rename.Folder
	Handlers         = rename.Handlers
	Snapshot         = rename.Snapshot
	State            = rename.State
	Outcome          = rename.Outcome
	OutcomeKind      = rename.OutcomeKind
	ValidationResult = rename.ValidationResult
	Option           = rename.Option
	Remote           = rename.Remote
	Account          = types.Account
	Config           = types.Config
)

const (
	StateEditing          = rename.StateEditing
	StateConfirming       = rename.StateConfirming
	StateProbingExistence = rename.StateProbingExistence
	StateConflictFound    = rename.StateConflictFound
	StateRenaming         = rename.StateRenaming
	StateCompleted        = rename.StateCompleted
	StateFailed           = rename.StateFailed
	StateCancelled        = rename.StateCancelled

	OutcomeCompleted = rename.OutcomeCompleted
	OutcomeCancelled = rename.OutcomeCancelled
	OutcomeFailed    = rename.OutcomeFailed
)

var (
	WithHandlers    = rename.WithHandlers
	WithExplanation = rename.WithExplanation

	ErrWorkflowClosed  = rename.ErrWorkflowClosed
	ErrConfirmDisabled = rename.ErrConfirmDisabled
	ErrBusy            = rename.ErrBusy
)

// StartRenameWorkflow opens a workflow over any Remote implementation
func StartRenameWorkflow(ctx context.Context, r Remote, account *Account, folder Folder, relativePath string, opts ...Option) (*Workflow, error) {
	return rename.Start(ctx, r, account, folder, relativePath, opts...)
}

// Mend is the public entry point: it holds the remote client and account and
// opens rename workflows against them.
type Mend struct {
	cfg     *types.Config
	client  *remote.Client
	account *types.Account
	logger  *zap.Logger
}

// New loads the config file at configPath and builds a logger from it
func New(configPath string) (*Mend, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return NewWithConfig(cfg, logger)
}

// NewWithDefaults uses the built-in defaults and no logging
func NewWithDefaults() (*Mend, error) {
	cfg := config.DefaultConfig()
	return NewWithConfig(&cfg, nil)
}

// NewWithConfig uses an already loaded config. A nil logger disables logging.
func NewWithConfig(cfg *types.Config, logger *zap.Logger) (*Mend, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger = logging.OrNop(logger)
	return &Mend{
		cfg:     cfg,
		client:  remote.NewClient(cfg.Remote, logger),
		account: types.AccountFromConfig(cfg.Remote),
		logger:  logger,
	}, nil
}

// StartRename opens a workflow for the file at relativePath inside folder.
// Log output goes to the Mend logger unless an option overrides it.
func (m *Mend) StartRename(ctx context.Context, folder Folder, relativePath string, opts ...Option) (*Workflow, error) {
	opts = append([]Option{rename.WithLogger(m.logger)}, opts...)
	return StartRenameWorkflow(ctx, m.client, m.account, folder, relativePath, opts...)
}

// StartRenameLocal is StartRename for an absolute local file path
func (m *Mend) StartRenameLocal(ctx context.Context, folder Folder, localFilePath string, opts ...Option) (*Workflow, error) {
	rel, err := folder.Relative(localFilePath)
	if err != nil {
		return nil, err
	}
	return m.StartRename(ctx, folder, rel, opts...)
}

// Validate checks a candidate name without opening a workflow
func (m *Mend) Validate(candidate, original string) ValidationResult {
	return rename.Validate(candidate, original)
}

// Exists reports whether remotePath exists on the server
func (m *Mend) Exists(ctx context.Context, remotePath string) (bool, error) {
	res := rename.NewExistenceProbe(m.client).Probe(ctx, m.account, remotePath)
	if res.Kind == rename.ProbeTransportError {
		return false, res.Err
	}
	return res.Kind == rename.ProbeExists, nil
}

// GetConfig returns the current configuration
func (m *Mend) GetConfig() *types.Config {
	return m.cfg
}

// Close flushes buffered log output
func (m *Mend) Close() error {
	_ = m.logger.Sync()
	return nil
}
