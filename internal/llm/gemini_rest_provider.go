package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	apiKeyHeader      = "x-goog-api-key"
	modelListPageSize = "1000"
	maxModelListPages = 10
)

// GeminiRESTProvider calls the Gemini v1beta REST endpoints directly.
type GeminiRESTProvider struct {
	baseURL string
	policy  runtimePolicy
	http    *resty.Client
}

type restInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restGenerateRequest struct {
	Contents          []restContent `json:"contents"`
	SystemInstruction *restContent  `json:"systemInstruction,omitempty"`
}

type restGenerateResponse struct {
	Candidates []struct {
		Content restContent `json:"content"`
	} `json:"candidates"`
}

type restModelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

type restErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGeminiRESTProvider(baseURL string, policy runtimePolicy) *GeminiRESTProvider {
	return &GeminiRESTProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  policy,
		http:    resty.New().SetTimeout(policy.timeout),
	}
}

func (p *GeminiRESTProvider) Name() string {
	return ProviderGeminiREST
}

func (p *GeminiRESTProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return observeProviderOperation(ctx, p.Name(), "generate", func() (string, error) {
		callCtx, cancel := p.policy.withTimeout(ctx)
		defer cancel()

		endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, url.PathEscape(req.Model))

		var result restGenerateResponse
		var apiErr restErrorEnvelope
		res, err := p.http.R().SetContext(callCtx).
			SetHeader(apiKeyHeader, req.Credential).
			SetHeader("Content-Type", "application/json").
			SetBody(toRESTRequest(req.Payload)).
			SetResult(&result).
			SetError(&apiErr).
			Post(endpoint)
		if err != nil {
			return "", err
		}
		if res.IsError() {
			return "", p.responseError(res.StatusCode(), apiErr, res.String())
		}

		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return "", ErrEmptyResponse
		}
		text := result.Candidates[0].Content.Parts[0].Text
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}

func (p *GeminiRESTProvider) ListModels(ctx context.Context, credential string) ([]domain.RawModel, error) {
	return observeProviderOperation(ctx, p.Name(), "list_models", func() ([]domain.RawModel, error) {
		callCtx, cancel := p.policy.withTimeout(ctx)
		defer cancel()

		var out []domain.RawModel
		pageToken := ""
		for page := 0; page < maxModelListPages; page++ {
			var list restModelList
			var apiErr restErrorEnvelope
			request := p.http.R().SetContext(callCtx).
				SetHeader(apiKeyHeader, credential).
				SetQueryParam("pageSize", modelListPageSize).
				SetResult(&list).
				SetError(&apiErr)
			if pageToken != "" {
				request.SetQueryParam("pageToken", pageToken)
			}

			res, err := request.Get(p.baseURL + "/v1beta/models")
			if err != nil {
				return nil, err
			}
			if res.IsError() {
				return nil, p.responseError(res.StatusCode(), apiErr, res.String())
			}

			for _, model := range list.Models {
				out = append(out, domain.RawModel{
					Name:             model.Name,
					DisplayName:      model.DisplayName,
					SupportedMethods: model.SupportedGenerationMethods,
				})
			}
			if list.NextPageToken == "" {
				break
			}
			pageToken = list.NextPageToken
		}
		return out, nil
	})
}

func (p *GeminiRESTProvider) responseError(status int, envelope restErrorEnvelope, body string) error {
	message := strings.TrimSpace(envelope.Error.Message)
	if message == "" {
		message = strings.TrimSpace(body)
	}
	return &ProviderError{Provider: p.Name(), StatusCode: status, Message: message}
}

func toRESTRequest(payload domain.GenerationPayload) restGenerateRequest {
	parts := make([]restPart, 0, len(payload.Parts))
	for _, part := range payload.Parts {
		if part.InlineData != nil {
			parts = append(parts, restPart{InlineData: &restInlineData{
				MIMEType: part.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
			}})
			continue
		}
		parts = append(parts, restPart{Text: part.Text})
	}

	request := restGenerateRequest{
		Contents: []restContent{{Role: "user", Parts: parts}},
	}
	if payload.SystemInstruction != "" {
		request.SystemInstruction = &restContent{Parts: []restPart{{Text: payload.SystemInstruction}}}
	}
	return request
}
