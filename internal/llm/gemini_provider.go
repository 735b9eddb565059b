package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API through the official SDK. A client
// is built per call because each request carries its own API key.
type GeminiProvider struct {
	baseURL string
	policy  runtimePolicy
}

func NewGeminiProvider(baseURL string, policy runtimePolicy) *GeminiProvider {
	return &GeminiProvider{
		baseURL: baseURL,
		policy:  policy,
	}
}

func (g *GeminiProvider) Name() string {
	return ProviderGemini
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return observeProviderOperation(ctx, g.Name(), "generate", func() (string, error) {
		callCtx, cancel := g.policy.withTimeout(ctx)
		defer cancel()

		client, err := g.newClient(callCtx, req.Credential)
		if err != nil {
			return "", err
		}

		contents, config := toGenaiRequest(req.Payload)
		result, err := client.Models.GenerateContent(callCtx, req.Model, contents, config)
		if err != nil {
			return "", fromGenaiError(err)
		}
		return firstCandidateText(result)
	})
}

func (g *GeminiProvider) ListModels(ctx context.Context, credential string) ([]domain.RawModel, error) {
	return observeProviderOperation(ctx, g.Name(), "list_models", func() ([]domain.RawModel, error) {
		callCtx, cancel := g.policy.withTimeout(ctx)
		defer cancel()

		client, err := g.newClient(callCtx, credential)
		if err != nil {
			return nil, err
		}

		var out []domain.RawModel
		for model, err := range client.Models.All(callCtx) {
			if err != nil {
				return nil, fromGenaiError(err)
			}
			out = append(out, fromGenaiModel(model))
		}
		return out, nil
	})
}

func (g *GeminiProvider) newClient(ctx context.Context, credential string) (*genai.Client, error) {
	config := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(credential),
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return client, nil
}

func toGenaiRequest(payload domain.GenerationPayload) ([]*genai.Content, *genai.GenerateContentConfig) {
	parts := make([]*genai.Part, 0, len(payload.Parts))
	for _, part := range payload.Parts {
		if part.InlineData != nil {
			parts = append(parts, genai.NewPartFromBytes(part.InlineData.Data, part.InlineData.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(part.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	if payload.SystemInstruction == "" {
		return contents, nil
	}
	return contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(payload.SystemInstruction, genai.RoleUser),
	}
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	content := result.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", ErrEmptyResponse
	}
	text := content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func fromGenaiModel(model *genai.Model) domain.RawModel {
	if model == nil {
		return domain.RawModel{}
	}
	return domain.RawModel{
		Name:             model.Name,
		DisplayName:      model.DisplayName,
		SupportedMethods: model.SupportedActions,
	}
}

func fromGenaiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ProviderError{Provider: ProviderGemini, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return err
}
