// Package response interprets raw model output and classifies failures.
package response

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/prompt"
)

const revokedCredentialMessage = "This API key was reported as leaked and has been blocked. Generate a new key in Google AI Studio and save it again."

// ratePattern matches "rate" as a word or a rate-limit reason code, but not
// the tail of words like "generate".
var ratePattern = regexp.MustCompile(`(?i)\brate\b|\brate[_ -]?limit`)

var quotaTokens = []string{
	"quota",
	"resource_exhausted",
	"resource exhausted",
	"429",
}

// Interpret splits raw output on the first tips sentinel. NotesText is nil
// when the sentinel is absent and points to "" when it is present with
// nothing after it.
func Interpret(raw string) domain.TranslationResult {
	primary, notes, found := strings.Cut(raw, prompt.TipsSentinel)
	result := domain.TranslationResult{PrimaryText: strings.TrimSpace(primary)}
	if found {
		trimmed := strings.TrimSpace(notes)
		result.NotesText = &trimmed
	}
	return result
}

// Classify maps a provider error message and optional HTTP status (0 when
// unknown) to an error kind. Checks run in priority order.
func Classify(message string, httpStatus int) domain.ErrorKind {
	lower := strings.ToLower(message)

	if ratePattern.MatchString(message) {
		return domain.ErrorQuotaExceeded
	}
	for _, token := range quotaTokens {
		if strings.Contains(lower, token) {
			return domain.ErrorQuotaExceeded
		}
	}
	if strings.Contains(lower, "leaked") {
		return domain.ErrorCredentialRevoked
	}
	if strings.Contains(lower, "api key") {
		return domain.ErrorInvalidCredential
	}
	if httpStatus == http.StatusNotFound {
		return domain.ErrorModelNotFound
	}
	return domain.ErrorUnknown
}

// NewFailure attaches the caller-facing side signals to an error kind.
func NewFailure(kind domain.ErrorKind, message string) domain.Failure {
	failure := domain.Failure{Kind: kind, Message: message}

	switch kind {
	case domain.ErrorMissingCredential, domain.ErrorInvalidCredential:
		failure.ReopenCredential = true
	case domain.ErrorCredentialRevoked:
		failure.ReopenCredential = true
		failure.Message = revokedCredentialMessage
	case domain.ErrorQuotaExceeded:
		failure.FallbackAvailable = true
	}

	if strings.TrimSpace(failure.Message) == "" {
		failure.Message = defaultMessage(kind)
	}
	return failure
}

func defaultMessage(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrorMissingCredential:
		return "No API key configured. Open the API key settings and save your Gemini key first."
	case domain.ErrorEmptyInput:
		return "Nothing to translate."
	case domain.ErrorInvalidCredential:
		return "The API key was rejected. Check that it was copied correctly."
	case domain.ErrorQuotaExceeded:
		return "The model quota is exhausted. Try again later or use the fallback translator."
	case domain.ErrorModelNotFound:
		return "The selected model is not available. Pick another model."
	default:
		return "The translation request failed. Please try again."
	}
}
