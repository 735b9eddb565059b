package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/prompt"
)

// MockProvider answers without calling any model. It is the default so the
// server runs without a network connection.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return ProviderMock
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return observeProviderOperation(ctx, m.Name(), "generate", func() (string, error) {
		body := "No input provided."
		for _, part := range req.Payload.Parts {
			if part.InlineData != nil {
				body = fmt.Sprintf("image %s (%d bytes)", part.InlineData.MIMEType, len(part.InlineData.Data))
				break
			}
			if req.Payload.SystemInstruction != "" && strings.TrimSpace(part.Text) != "" {
				body = strings.TrimSpace(part.Text)
			}
		}

		return fmt.Sprintf(
			"[mock translation:%s] %s\n%s\n1. Generated by the mock provider; no model was called.",
			req.Model,
			body,
			prompt.TipsSentinel,
		), nil
	})
}

func (m *MockProvider) ListModels(ctx context.Context, _ string) ([]domain.RawModel, error) {
	return observeProviderOperation(ctx, m.Name(), "list_models", func() ([]domain.RawModel, error) {
		return []domain.RawModel{
			{Name: "models/gemini-2.5-flash", SupportedMethods: []string{"generateContent"}},
			{Name: "models/gemini-2.5-pro", SupportedMethods: []string{"generateContent"}},
		}, nil
	})
}
