package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from path, creating it with defaults when it does
// not exist. An empty path means ~/.config/hackfusion/config.yaml.
// Precedence is defaults < config.yaml < environment.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := WriteDefault(path); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	v := newViper(filepath.Dir(path))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newViper builds an isolated viper instance carrying every default, so that
// AutomaticEnv can see each key during Unmarshal
func newViper(configDir string) *viper.Viper {
	v := viper.New()

	d := DefaultConfig(configDir)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.refine_steps", d.AI.RefineSteps)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.formats", d.Output.Formats)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("notify.enabled", d.Notify.Enabled)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetEnvPrefix("HACKFUSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The first variable set wins
	_ = v.BindEnv("ai.api_key", "HACKFUSION_AI_API_KEY", "OPENAI_API_KEY")

	return v
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported ai.provider %q (want %s or %s)", c.AI.Provider, ProviderOpenAI, ProviderOllama)
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "md", "json", "csv":
		default:
			return fmt.Errorf("unsupported output format %q (want md, json or csv)", f)
		}
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	return nil
}
