package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alanmaizon/gt-translator/internal/prompt"
	"github.com/go-resty/resty/v2"
)

const credentialHeader = "X-Gemini-Api-Key"

type apiClient struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
}

type apiError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

func Run(args []string, stdout io.Writer, stderr io.Writer) int {
	root := flag.NewFlagSet("gt", flag.ContinueOnError)
	root.SetOutput(stderr)

	baseURL := root.String("base-url", envOrDefault("GT_BASE_URL", "http://localhost:8080"), "gt-translator API base URL")
	apiKey := root.String("api-key", strings.TrimSpace(os.Getenv("GT_API_KEY")), "Gemini API key sent as X-Gemini-Api-Key")
	timeout := root.Duration("timeout", 90*time.Second, "HTTP timeout, e.g. 90s")

	if err := root.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	remaining := root.Args()
	if len(remaining) == 0 {
		writeCLIError(stdout, "missing_command", usageText(), 0)
		return 2
	}

	client := &apiClient{
		baseURL: strings.TrimRight(strings.TrimSpace(*baseURL), "/"),
		apiKey:  strings.TrimSpace(*apiKey),
		httpClient: resty.New().
			SetTimeout(*timeout).
			SetHeader("Accept", "application/json"),
	}

	ctx := context.Background()
	command := remaining[0]
	commandArgs := remaining[1:]

	switch command {
	case "health":
		return runRequest(ctx, client, stdout, http.MethodGet, "/api/health", nil)
	case "capabilities":
		return runRequest(ctx, client, stdout, http.MethodGet, "/api/capabilities", nil)
	case "models":
		return runModels(ctx, client, stdout, stderr, commandArgs)
	case "translate":
		return runTranslate(ctx, client, stdout, stderr, commandArgs)
	case "render":
		return runRender(ctx, client, stdout, stderr, commandArgs)
	case "settings":
		return runSettings(ctx, client, stdout, stderr, commandArgs)
	case "reset":
		return runRequest(ctx, client, stdout, http.MethodPost, "/api/settings/reset", nil)
	case "theme":
		return runRequest(ctx, client, stdout, http.MethodPost, "/api/settings/theme", nil)
	case "state":
		return runState(ctx, client, stdout, stderr, commandArgs)
	default:
		writeCLIError(stdout, "unknown_command", fmt.Sprintf("unknown command %q\n%s", command, usageText()), 0)
		return 2
	}
}

func runModels(ctx context.Context, client *apiClient, stdout io.Writer, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	fs.SetOutput(stderr)

	selected := fs.String("selected", "", "Model id that must appear in the list")
	if err := fs.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	path := "/api/models"
	if id := strings.TrimSpace(*selected); id != "" {
		path += "?selected=" + url.QueryEscape(id)
	}
	return runRequest(ctx, client, stdout, http.MethodGet, path, nil)
}

func runTranslate(ctx context.Context, client *apiClient, stdout io.Writer, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	text := fs.String("text", "", "Text to translate")
	imagePath := fs.String("image", "", "Path to a screenshot to translate")
	targetLanguage := fs.String("target", "", "Target language (defaults to the stored setting)")
	rules := fs.String("rules", "", "Translation rules (defaults to the stored setting)")
	contextText := fs.String("context", "", "Translation context (defaults to the stored setting)")
	model := fs.String("model", "", "Model id (defaults to the stored setting)")

	if err := fs.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	hasText := strings.TrimSpace(*text) != ""
	hasImage := strings.TrimSpace(*imagePath) != ""
	if hasText == hasImage {
		writeCLIError(stdout, "invalid_input", "translate requires exactly one of -text or -image", 0)
		return 2
	}

	payload := map[string]any{}
	if hasText {
		payload["modality"] = "text"
		payload["text"] = *text
	} else {
		dataURL, err := imageDataURL(*imagePath)
		if err != nil {
			writeCLIError(stdout, "invalid_image", err.Error(), 0)
			return 2
		}
		payload["modality"] = "image"
		payload["image"] = dataURL
	}

	optional := map[string]string{
		"targetLanguage": *targetLanguage,
		"rules":          *rules,
		"context":        *contextText,
		"modelId":        *model,
	}
	for key, value := range optional {
		if strings.TrimSpace(value) != "" {
			payload[key] = value
		}
	}

	return runRequest(ctx, client, stdout, http.MethodPost, "/api/translate", payload)
}

func runRender(ctx context.Context, client *apiClient, stdout io.Writer, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	content := fs.String("content", "", "Markdown content to render")
	file := fs.String("file", "", "Read Markdown content from a file")
	if err := fs.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	body := *content
	if strings.TrimSpace(*file) != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			writeCLIError(stdout, "invalid_file", err.Error(), 0)
			return 2
		}
		body = string(data)
	}
	if strings.TrimSpace(body) == "" {
		writeCLIError(stdout, "missing_content", "render requires -content or -file", 0)
		return 2
	}

	return runRequest(ctx, client, stdout, http.MethodPost, "/api/render", map[string]string{"content": body})
}

func runSettings(ctx context.Context, client *apiClient, stdout io.Writer, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(stderr)

	updates := map[string]*string{
		"apiKey":         fs.String("set-api-key", "", "Store a Gemini API key"),
		"targetLanguage": fs.String("target", "", "Store the target language"),
		"rules":          fs.String("rules", "", "Store the translation rules"),
		"context":        fs.String("context", "", "Store the translation context"),
		"modelId":        fs.String("model", "", "Store the model id"),
		"theme":          fs.String("theme", "", "Store the theme (light or dark)"),
	}
	if err := fs.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	patch := map[string]string{}
	for key, value := range updates {
		if strings.TrimSpace(*value) != "" {
			patch[key] = *value
		}
	}
	if len(patch) == 0 {
		return runRequest(ctx, client, stdout, http.MethodGet, "/api/settings", nil)
	}
	return runRequest(ctx, client, stdout, http.MethodPut, "/api/settings", patch)
}

func runState(ctx context.Context, client *apiClient, stdout io.Writer, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(stderr)

	clearState := fs.Bool("clear", false, "Clear the last result or error")
	if err := fs.Parse(args); err != nil {
		writeCLIError(stdout, "invalid_arguments", err.Error(), 0)
		return 2
	}

	if *clearState {
		return runRequest(ctx, client, stdout, http.MethodDelete, "/api/translate/state", nil)
	}
	return runRequest(ctx, client, stdout, http.MethodGet, "/api/translate/state", nil)
}

func imageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("image file is empty")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported image type %s", mimeType)
	}
	return prompt.EncodeDataURL(mimeType, data), nil
}

func runRequest(ctx context.Context, client *apiClient, stdout io.Writer, method string, path string, payload any) int {
	responseBody, err := client.request(ctx, method, path, payload)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			writeCLIError(stdout, apiErr.Code, apiErr.Message, apiErr.Status)
			return 1
		}
		writeCLIError(stdout, "request_failed", err.Error(), 0)
		return 1
	}

	if err := writeStructuredJSON(stdout, responseBody); err != nil {
		writeCLIError(stdout, "invalid_response", err.Error(), 0)
		return 1
	}
	return 0
}

func (c *apiClient) request(ctx context.Context, method string, path string, payload any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, errors.New("base URL is required")
	}

	req := c.httpClient.R().SetContext(ctx)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	if c.apiKey != "" {
		req.SetHeader(credentialHeader, c.apiKey)
	}

	res, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return nil, err
	}

	responseBody := res.Body()
	if res.StatusCode() >= 400 {
		apiErr := &apiError{
			Status:  res.StatusCode(),
			Code:    "http_error",
			Message: strings.TrimSpace(string(responseBody)),
		}

		var envelope struct {
			Error struct {
				Code      string `json:"code"`
				Message   string `json:"message"`
				RequestID string `json:"requestId"`
			} `json:"error"`
		}
		if err := json.Unmarshal(responseBody, &envelope); err == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.RequestID = envelope.Error.RequestID
		}
		return nil, apiErr
	}

	return responseBody, nil
}

func writeStructuredJSON(output io.Writer, body []byte) error {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return err
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeCLIError(output io.Writer, code string, message string, status int) {
	payload := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
	if status > 0 {
		payload["error"].(map[string]any)["status"] = status
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(payload)
}

func usageText() string {
	return strings.Join([]string{
		"usage: gt [global flags] <command> [command flags]",
		"commands: health, capabilities, models, translate, render, settings, reset, theme, state",
		"global flags: -base-url -api-key -timeout",
	}, "\n")
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
