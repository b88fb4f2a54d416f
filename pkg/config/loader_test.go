package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/config"
)

type nestedConfig struct {
	URL string `env:"URL" envDefault:"redis://localhost:6379/0"`
}

type testConfig struct {
	Name    string        `env:"NAME" envDefault:"gatekeeper"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
	Size    int           `env:"SIZE"`
	Tags    []string      `env:"TAGS" envSeparator:","`
	Redis   nestedConfig  `envPrefix:"REDIS_"`
}

type requiredConfig struct {
	Secret string `env:"SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, "gatekeeper", cfg.Name)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	})

	t.Run("prefix and nested prefix", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := config.Load(&cfg,
			config.WithPrefix("AUTHZ_"),
			config.WithEnvironment(map[string]string{
				"AUTHZ_NAME":      "edge",
				"AUTHZ_TIMEOUT":   "150ms",
				"AUTHZ_SIZE":      "42",
				"AUTHZ_TAGS":      "a,b",
				"AUTHZ_REDIS_URL": "redis://cache:6379/1",
				"NAME":            "ignored",
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, "edge", cfg.Name)
		assert.Equal(t, 150*time.Millisecond, cfg.Timeout)
		assert.Equal(t, 42, cfg.Size)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
		assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"SIZE": "many"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("required missing", func(t *testing.T) {
		t.Parallel()
		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilPointer)
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GK_TEST_SECRET=\"from file\"\n"), 0o600))

	type fileConfig struct {
		Secret string `env:"GK_TEST_SECRET,required"`
	}

	t.Cleanup(func() { os.Unsetenv("GK_TEST_SECRET") })

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
	assert.Equal(t, "from file", cfg.Secret)

	err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GK_TEST_MODE=file\n"), 0o600))
	t.Setenv("GK_TEST_MODE", "process")

	type modeConfig struct {
		Mode string `env:"GK_TEST_MODE"`
	}

	var cfg modeConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
	assert.Equal(t, "process", cfg.Mode)
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
	assert.NotPanics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{"SECRET": "x"}))
	})
}
