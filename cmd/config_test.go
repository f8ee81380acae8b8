package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Storage.Backend)
	assert.Equal(t, "users.txt", cfg.Storage.UsersPath())
	assert.Equal(t, "tasks.txt", cfg.Storage.TasksPath())
	assert.True(t, cfg.Storage.Lock)
	assert.False(t, cfg.Policy.EnforceOwnership)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Log.Timestamps)
}

func TestLoadConfig_Env(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("TASKTRACK_STORAGE_BACKEND", "json")
	t.Setenv("TASKTRACK_STORAGE_DIR", "/srv/tasks")
	t.Setenv("TASKTRACK_POLICY_ENFORCEOWNERSHIP", "true")
	t.Setenv("TASKTRACK_LOG_TIMESTAMPS", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, "/srv/tasks/users.txt", cfg.Storage.UsersPath())
	assert.True(t, cfg.Policy.EnforceOwnership)
	assert.True(t, cfg.Log.Timestamps)
}

func TestLoadConfig_Validation(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("TASKTRACK_STORAGE_BACKEND", "xml")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "validation")
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:         "normal mode without error",
			userMsg:      "User friendly message",
			technicalErr: nil,
			verbose:      false,
			expectedOut:  "User friendly message\n",
		},
		{
			name:         "verbose mode with error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			verbose:      true,
			expectedOut:  "Error: technical details\n",
		},
		{
			name:         "normal mode with technical error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			verbose:      false,
			expectedOut:  "User friendly message\n",
		},
		{
			name:         "verbose mode without error",
			userMsg:      "User friendly message",
			technicalErr: nil,
			verbose:      true,
			expectedOut:  "User friendly message\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			var buf bytes.Buffer
			PrintError(&buf, tt.userMsg, tt.technicalErr)
			assert.Equal(t, tt.expectedOut, buf.String())
		})
	}
}
