package domain

type Modality string
type RequestState string
type ErrorKind string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"

	StateIdle      RequestState = "idle"
	StateInFlight  RequestState = "in_flight"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"

	ErrorMissingCredential ErrorKind = "missing_credential"
	ErrorEmptyInput        ErrorKind = "empty_input"
	ErrorInvalidCredential ErrorKind = "invalid_credential"
	ErrorCredentialRevoked ErrorKind = "credential_revoked"
	ErrorQuotaExceeded     ErrorKind = "quota_exceeded"
	ErrorModelNotFound     ErrorKind = "model_not_found"
	ErrorUnknown           ErrorKind = "unknown"
)

type TranslationRequest struct {
	Modality Modality
	Text     string
	Image    []byte
	MIMEType string
}

type PromptConfig struct {
	TargetLanguage string `json:"targetLanguage"`
	Rules          string `json:"rules"`
	Context        string `json:"context"`
}

// Settings is the full persisted record. Credential is the caller-supplied
// Gemini API key and is never echoed back by the API.
type Settings struct {
	Credential     string `json:"-"`
	TargetLanguage string `json:"targetLanguage"`
	Rules          string `json:"rules"`
	Context        string `json:"context"`
	ModelID        string `json:"modelId"`
	Theme          string `json:"theme"`
}

func (s Settings) PromptConfig() PromptConfig {
	return PromptConfig{
		TargetLanguage: s.TargetLanguage,
		Rules:          s.Rules,
		Context:        s.Context,
	}
}

type InlineData struct {
	MIMEType string
	Data     []byte
}

type Part struct {
	Text       string
	InlineData *InlineData
}

// GenerationPayload is the provider-neutral request body. SystemInstruction
// is empty when the instruction travels as a content part.
type GenerationPayload struct {
	SystemInstruction string
	Parts             []Part
}

type RawModel struct {
	Name             string
	DisplayName      string
	SupportedMethods []string
}

type ModelDescriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type TranslationResult struct {
	PrimaryText string  `json:"primaryText"`
	NotesText   *string `json:"notesText,omitempty"`
}

func (r TranslationResult) HasNotes() bool {
	return r.NotesText != nil
}

type Failure struct {
	Kind              ErrorKind `json:"kind"`
	Message           string    `json:"message"`
	ReopenCredential  bool      `json:"reopenCredential"`
	FallbackAvailable bool      `json:"fallbackAvailable"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

type APIErrorResponse struct {
	Error APIError `json:"error"`
}
