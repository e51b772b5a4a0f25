package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/who0xac/hackfusion/pkg/config"
)

func TestNewMissingCredential(t *testing.T) {
	_, err := New(config.AIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4"})
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestNewProviders(t *testing.T) {
	m, err := New(config.AIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, m)

	m, err = New(config.AIConfig{Provider: config.ProviderOllama, Model: "llama3"})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = New(config.AIConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestProberOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"mistral"}]}`))
	}))
	defer srv.Close()

	p := NewProber(config.AIConfig{Provider: config.ProviderOllama, Model: "llama3", BaseURL: srv.URL})
	assert.True(t, p.IsAvailable(context.Background()))

	ok, err := p.CheckModel(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	p = NewProber(config.AIConfig{Provider: config.ProviderOllama, Model: "phi3", BaseURL: srv.URL})
	ok, err = p.CheckModel(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProberOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4"}]}`))
	}))
	defer srv.Close()

	p := NewProber(config.AIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4", APIKey: "sk-test", BaseURL: srv.URL})
	ok, err := p.CheckModel(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	p = NewProber(config.AIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4", APIKey: "sk-bad", BaseURL: srv.URL})
	_, err = p.CheckModel(context.Background())
	assert.ErrorContains(t, err, "status 401")

	p = NewProber(config.AIConfig{Provider: config.ProviderOpenAI, Model: "gpt-4", BaseURL: srv.URL})
	_, err = p.CheckModel(context.Background())
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}
