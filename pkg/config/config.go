package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when the configured provider needs an API
// key and none was found in config.yaml or the environment
var ErrMissingCredential = errors.New("no API key configured for the reasoning service (set OPENAI_API_KEY)")

// Config represents the configuration structure
type Config struct {
	AI      AIConfig      `yaml:"ai" mapstructure:"ai"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// AIConfig selects and authenticates the reasoning service
type AIConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	RefineSteps bool    `yaml:"refine_steps" mapstructure:"refine_steps"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// HistoryConfig locates the report archive
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// NotifyConfig toggles desktop notifications
type NotifyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig controls the diagnostic log
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DefaultConfig returns the configuration written on first run
func DefaultConfig(configDir string) *Config {
	return &Config{
		AI: AIConfig{
			Provider:    ProviderOpenAI,
			Model:       "gpt-4",
			Temperature: 0.2,
		},
		Output: OutputConfig{
			Dir:     filepath.Join(configDir, "reports"),
			Formats: []string{"md", "json"},
		},
		History: HistoryConfig{
			Path: filepath.Join(configDir, "history.db"),
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(configDir, "hackfusion.log"),
		},
	}
}

// GetConfigDir returns the configuration directory path (Linux only)
func GetConfigDir() (string, error) {
	// Linux: ~/.config/hackfusion
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %v", err)
	}

	return filepath.Join(home, ".config", "hackfusion"), nil
}

// EnsureConfigDir creates the config directory structure if it doesn't exist
func EnsureConfigDir(configDir string) error {
	dirs := []string{
		configDir,
		filepath.Join(configDir, "reports"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetConfigPath returns the path to config.yaml
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// WriteDefault creates config.yaml at path with the defaults for its
// directory. An existing file is left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := EnsureConfigDir(dir); err != nil {
		return err
	}

	data, err := yaml.Marshal(DefaultConfig(dir))
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	header := []byte("# HackFusion configuration. Environment variables HACKFUSION_<SECTION>_<KEY> override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to create config.yaml: %w", err)
	}
	return nil
}
