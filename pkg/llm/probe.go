package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/who0xac/hackfusion/pkg/config"
)

// Prober checks whether the reasoning service can be reached before any
// request is made. It never sends a prompt.
type Prober struct {
	cfg        config.AIConfig
	HTTPClient *http.Client
}

// NewProber creates a prober for the configured provider
func NewProber(cfg config.AIConfig) *Prober {
	return &Prober{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsAvailable checks if the service answers at all
func (p *Prober) IsAvailable(ctx context.Context) bool {
	resp, err := p.get(ctx, p.modelsURL())
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// CheckModel verifies if the configured model is offered by the service
func (p *Prober) CheckModel(ctx context.Context) (bool, error) {
	if p.cfg.Provider != config.ProviderOllama && p.cfg.APIKey == "" {
		return false, config.ErrMissingCredential
	}

	resp, err := p.get(ctx, p.modelsURL())
	if err != nil {
		return false, fmt.Errorf("failed to connect to %s: %v", p.provider(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%s returned status %d", p.provider(), resp.StatusCode)
	}

	// Ollama lists {"models":[{"name":..}]}, OpenAI lists {"data":[{"id":..}]}
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode response: %v", err)
	}

	model := p.cfg.Model
	for _, m := range result.Models {
		if m.Name == model || m.Name == model+":latest" {
			return true, nil
		}
	}
	for _, m := range result.Data {
		if m.ID == model {
			return true, nil
		}
	}
	return false, nil
}

func (p *Prober) provider() string {
	if p.cfg.Provider == "" {
		return config.ProviderOpenAI
	}
	return p.cfg.Provider
}

func (p *Prober) modelsURL() string {
	base := strings.TrimRight(ServerURL(p.cfg), "/")
	if p.cfg.Provider == config.ProviderOllama {
		return base + "/api/tags"
	}
	return base + "/models"
}

func (p *Prober) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}
	return p.HTTPClient.Do(req)
}
