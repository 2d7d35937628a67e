package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Backend:  BackendBadger,
			DataPath: "/some/path",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_StorageBackends(t *testing.T) {
	tests := []struct {
		backend string
		valid   bool
	}{
		{BackendBadger, true},
		{BackendSQLite, true},
		{"postgres", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage.Backend = tt.backend

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "/some/path/badger", cfg.DatabasePath())

	cfg.Storage.Backend = BackendSQLite
	assert.Equal(t, "/some/path/notedown.db", cfg.DatabasePath())
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default")
	assert.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("/abs/path", "/default")
	assert.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("NOTEDOWN_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "NOTEDOWN_TEST_KEY", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "NOTEDOWN_TEST_KEY", "default"))
	// Default when neither is set.
	assert.Equal(t, "default", getConfigValue("", "NOTEDOWN_TEST_KEY_UNSET", "default"))
}
