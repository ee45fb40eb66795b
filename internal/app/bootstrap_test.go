package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlp-gateway/pkg/config"
	apperrors "nlp-gateway/pkg/errors"
	"nlp-gateway/pkg/secrets"
)

func TestLoadConfig_FileAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BOOTSTRAP_TEST_KEY=sk-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BOOTSTRAP_TEST_KEY") })

	path := filepath.Join(dir, "nlp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openrouter\n  api_key: ${BOOTSTRAP_TEST_KEY}\n"), 0o600))

	cfg, err := LoadConfig(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "sk-dotenv", cfg.LLM.APIKey)
	assert.Equal(t, 8080, cfg.API.Port)
}

func TestLoadConfig_MissingEnvFileIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nlp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	cfg, err := LoadConfig(path, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = LoadConfig(filepath.Join(dir, "absent.yaml"), "")
	assert.Error(t, err)
}

func TestNewBootstrap_ResolvesSecrets(t *testing.T) {
	t.Setenv("BOOTSTRAP_TEST_OPENROUTER", "sk-or")
	cfg := &config.Config{
		Log:     config.LogConfig{Level: "error"},
		Secrets: secrets.Config{Provider: "env"},
		LLM:     config.LLMConfig{Provider: "openrouter", APIKey: "secret:BOOTSTRAP_TEST_OPENROUTER", Model: "gpt-4o-mini"},
	}

	b, err := NewBootstrap(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "sk-or", b.Config.LLM.APIKey)
	require.NotNil(t, b.Models.LLM)
	assert.Nil(t, b.Models.Embedder)

	require.NoError(t, b.InitTracer())
	assert.NoError(t, b.Shutdown(context.Background()))
}

func TestBootstrap_ShutdownClosesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlp.log")
	b, err := NewBootstrap(context.Background(), &config.Config{Log: config.LogConfig{Level: "info", File: path}})
	require.NoError(t, err)
	b.Logger.Info("started")

	require.NoError(t, b.Shutdown(context.Background()))
	require.NoError(t, b.Shutdown(context.Background()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
}

func TestNewBootstrap_Errors(t *testing.T) {
	_, err := NewBootstrap(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArg)

	_, err = NewBootstrap(context.Background(), &config.Config{LLM: config.LLMConfig{APIKey: "secret:x"}})
	assert.Error(t, err)

	_, err = NewBootstrap(context.Background(), &config.Config{Log: config.LogConfig{Level: "verbose"}})
	assert.Error(t, err)

	_, err = NewBootstrap(context.Background(), &config.Config{HTTP: config.HTTPConfig{Timeout: "soon"}})
	assert.Error(t, err)
}
