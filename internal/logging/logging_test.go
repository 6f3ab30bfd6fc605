package logging

import (
	"testing"

	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         types.LogConfig
		expectError bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{name: "defaults", cfg: types.LogConfig{}, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "debug console", cfg: types.LogConfig{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "warn json", cfg: types.LogConfig{Level: "warn", Format: "json"}, enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "bad level", cfg: types.LogConfig{Level: "loud"}, expectError: true},
		{name: "bad format", cfg: types.LogConfig{Format: "xml"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
