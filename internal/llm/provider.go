package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanmaizon/gt-translator/internal/domain"
)

const (
	ProviderGemini     = "gemini"
	ProviderGeminiREST = "gemini-rest"
	ProviderMock       = "mock"

	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

var ErrEmptyResponse = errors.New("model returned no text")

type GenerateRequest struct {
	Model      string
	Credential string
	Payload    domain.GenerationPayload
}

// Provider is a generative endpoint. The credential travels with every call
// because it belongs to the caller, not to the server.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	ListModels(ctx context.Context, credential string) ([]domain.RawModel, error)
}

// ProviderError is an error response returned by a provider endpoint.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

type Options struct {
	Provider string
	BaseURL  string
	Timeout  time.Duration
}

// NewProvider builds the configured provider. Unknown names fall back to the
// mock provider, mirroring how the server degrades when misconfigured.
func NewProvider(opts Options) Provider {
	policy := newRuntimePolicy(opts.Timeout)
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case ProviderGemini:
		return NewGeminiProvider(baseURL, policy)
	case ProviderGeminiREST:
		if baseURL == "" {
			baseURL = DefaultGeminiBaseURL
		}
		return NewGeminiRESTProvider(baseURL, policy)
	default:
		return NewMockProvider()
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.StatusCode
	}
	return 0
}

// ErrorMessage returns the provider's own message when err carries one.
func ErrorMessage(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && strings.TrimSpace(providerErr.Message) != "" {
		return providerErr.Message
	}
	return err.Error()
}
