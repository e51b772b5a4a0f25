package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HACKFUSION_AI_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.DirExists(t, filepath.Join(dir, "reports"))
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4", cfg.AI.Model)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, []string{"md", "json"}, cfg.Output.Formats)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.History.Path)
	assert.True(t, cfg.Notify.Enabled)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  provider: Ollama
  model: llama3
  base_url: http://127.0.0.1:11434
notify:
  enabled: false
output:
  dir: /tmp/reports
  formats: [md]
`), 0600))

	t.Setenv("HACKFUSION_AI_MODEL", "mistral")
	t.Setenv("HACKFUSION_AI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.AI.Provider)
	assert.Equal(t, "mistral", cfg.AI.Model)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.AI.BaseURL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, []string{"md"}, cfg.Output.Formats)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"provider", "ai:\n  provider: anthropic\n"},
		{"format", "output:\n  formats: [pdf]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: custom\n"), 0600))

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ai:\n  model: custom\n", string(data))
}
