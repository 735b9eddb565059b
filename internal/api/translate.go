package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/middleware"
	"github.com/alanmaizon/gt-translator/internal/prompt"
	"github.com/alanmaizon/gt-translator/internal/translator"
	"github.com/gin-gonic/gin"
)

const maxTranslateBodyBytes = 20 << 20

var errInvalidModality = errors.New("modality must be text or image")

type translateResponse struct {
	translator.Outcome
	Rendered    *domain.RenderedResult `json:"rendered,omitempty"`
	FallbackURL string                 `json:"fallbackUrl,omitempty"`
	RequestID   string                 `json:"requestId,omitempty"`
	Error       *domain.APIError       `json:"error,omitempty"`
}

func handleTranslate(c *gin.Context, deps Dependencies) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTranslateBodyBytes)

	var req domain.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_payload", "invalid translate payload")
		return
	}

	stored, ok := loadSettings(c, deps.Settings)
	if !ok {
		return
	}

	request, err := translationRequest(req)
	if err != nil {
		code := "invalid_image"
		if errors.Is(err, errInvalidModality) {
			code = "invalid_modality"
		}
		writeError(c, http.StatusBadRequest, code, err.Error())
		return
	}

	config := stored.PromptConfig()
	if req.TargetLanguage != nil {
		config.TargetLanguage = *req.TargetLanguage
	}
	if req.Rules != nil {
		config.Rules = *req.Rules
	}
	if req.Context != nil {
		config.Context = *req.Context
	}

	outcome, err := deps.Translator.Submit(c.Request.Context(), translator.Submission{
		Request:    request,
		Config:     config,
		ModelID:    firstNonEmpty(req.ModelID, stored.ModelID),
		Credential: firstNonEmpty(c.GetHeader(credentialHeader), req.APIKey, stored.Credential),
	})
	if errors.Is(err, translator.ErrRequestInFlight) {
		writeError(c, http.StatusConflict, "request_in_flight", err.Error())
		return
	}

	body := newTranslateResponse(outcome, c, deps.FallbackURL)
	if outcome.Failure != nil {
		body.Error = &domain.APIError{
			Code:      string(outcome.Failure.Kind),
			Message:   outcome.Failure.Message,
			RequestID: body.RequestID,
		}
		c.JSON(statusForKind(outcome.Failure.Kind), body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func newTranslateResponse(outcome translator.Outcome, c *gin.Context, fallbackURL string) translateResponse {
	body := translateResponse{
		Outcome:   outcome,
		RequestID: middleware.GetRequestID(c),
	}

	if outcome.Result != nil {
		rendered := &domain.RenderedResult{Primary: renderBlocks(outcome.Result.PrimaryText)}
		if outcome.Result.NotesText != nil {
			notes := renderBlocks(*outcome.Result.NotesText)
			rendered.Notes = &notes
		}
		body.Rendered = rendered
	}

	failure := outcome.Failure
	if failure != nil && failure.FallbackAvailable && outcome.Modality == domain.ModalityText && fallbackURL != "" {
		body.FallbackURL = fallbackURL
	}
	return body
}

func translationRequest(req domain.TranslateRequest) (domain.TranslationRequest, error) {
	modality := domain.Modality(strings.ToLower(strings.TrimSpace(string(req.Modality))))
	hasImage := strings.TrimSpace(req.Image) != "" || strings.TrimSpace(req.ImageBase64) != ""

	switch modality {
	case "":
		modality = domain.ModalityText
		if hasImage {
			modality = domain.ModalityImage
		}
	case domain.ModalityText, domain.ModalityImage:
	default:
		return domain.TranslationRequest{}, errInvalidModality
	}

	if modality == domain.ModalityText {
		return domain.TranslationRequest{Modality: modality, Text: req.Text}, nil
	}

	out := domain.TranslationRequest{Modality: modality}
	switch {
	case strings.TrimSpace(req.Image) != "":
		mimeType, data, err := prompt.DecodeDataURL(req.Image)
		if err != nil {
			return domain.TranslationRequest{}, err
		}
		out.MIMEType = mimeType
		out.Image = data
	case strings.TrimSpace(req.ImageBase64) != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.ImageBase64))
		if err != nil {
			return domain.TranslationRequest{}, errors.New("imageBase64 is not valid base64")
		}
		out.MIMEType = strings.TrimSpace(req.MIMEType)
		out.Image = data
	}
	return out, nil
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorMissingCredential, domain.ErrorInvalidCredential, domain.ErrorCredentialRevoked:
		return http.StatusUnauthorized
	case domain.ErrorEmptyInput:
		return http.StatusBadRequest
	case domain.ErrorQuotaExceeded:
		return http.StatusTooManyRequests
	case domain.ErrorModelNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
