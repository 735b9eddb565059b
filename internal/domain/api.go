package domain

type RuntimeCapabilities struct {
	RequestedProvider string `json:"requestedProvider"`
	ActiveProvider    string `json:"activeProvider"`
	ProviderFallback  bool   `json:"providerFallback"`
	StoreBackend      string `json:"storeBackend"`
}

type FeatureFlags struct {
	TextTranslation  bool `json:"textTranslation"`
	ImageTranslation bool `json:"imageTranslation"`
	ModelDirectory   bool `json:"modelDirectory"`
	QuotaFallback    bool `json:"quotaFallback"`
}

type CapabilitiesResponse struct {
	Runtime  RuntimeCapabilities `json:"runtime"`
	Features FeatureFlags        `json:"features"`
}

// TranslateRequest is the HTTP body for a translation. Unset prompt fields,
// model and credential are taken from the stored settings.
type TranslateRequest struct {
	Modality       Modality `json:"modality,omitempty"`
	Text           string   `json:"text,omitempty"`
	Image          string   `json:"image,omitempty"`
	ImageBase64    string   `json:"imageBase64,omitempty"`
	MIMEType       string   `json:"mimeType,omitempty"`
	APIKey         string   `json:"apiKey,omitempty"`
	TargetLanguage *string  `json:"targetLanguage,omitempty"`
	Rules          *string  `json:"rules,omitempty"`
	Context        *string  `json:"context,omitempty"`
	ModelID        string   `json:"modelId,omitempty"`
}

// RenderedResult mirrors TranslationResult: Notes is nil when the output had
// no tips section and points to an empty slice when the section was empty.
type RenderedResult struct {
	Primary []RenderBlock  `json:"primary"`
	Notes   *[]RenderBlock `json:"notes,omitempty"`
}

type RenderRequest struct {
	Content string `json:"content"`
}

type RenderResponse struct {
	Blocks []RenderBlock `json:"blocks"`
}

// SettingsResponse never carries the credential itself.
type SettingsResponse struct {
	TargetLanguage string `json:"targetLanguage"`
	Rules          string `json:"rules"`
	Context        string `json:"context"`
	ModelID        string `json:"modelId"`
	Theme          string `json:"theme"`
	HasCredential  bool   `json:"hasCredential"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
