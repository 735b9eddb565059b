package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/llm"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/prompt"
)

type stubProvider struct {
	mu       sync.Mutex
	raw      string
	err      error
	requests []llm.GenerateRequest
	release  chan struct{}
	started  chan struct{}
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.raw, s.err
}

func (s *stubProvider) ListModels(context.Context, string) ([]domain.RawModel, error) {
	return nil, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type recordingSaver struct {
	saved []domain.Settings
	err   error
}

func (r *recordingSaver) Save(_ context.Context, settings domain.Settings) error {
	r.saved = append(r.saved, settings)
	return r.err
}

func textSubmission(text string) Submission {
	return Submission{
		Request:    domain.TranslationRequest{Modality: domain.ModalityText, Text: text},
		Config:     prompt.DefaultConfig(),
		ModelID:    "gemini-2.5-pro",
		Credential: "key",
	}
}

func TestSubmitSucceeds(t *testing.T) {
	provider := &stubProvider{raw: "你好\n---TIPS---\n1. greeting"}
	saver := &recordingSaver{}
	orchestrator := NewOrchestrator(provider, saver)

	outcome, err := orchestrator.Submit(context.Background(), textSubmission("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != domain.StateSucceeded {
		t.Fatalf("expected succeeded, got %s", outcome.State)
	}
	if outcome.Result == nil || outcome.Result.PrimaryText != "你好" {
		t.Fatalf("unexpected result %+v", outcome.Result)
	}
	if !outcome.Result.HasNotes() || *outcome.Result.NotesText != "1. greeting" {
		t.Fatalf("expected notes, got %+v", outcome.Result)
	}
	if outcome.Metadata == nil || outcome.Metadata.Provider != "stub" || outcome.Metadata.ModelID != "gemini-2.5-pro" {
		t.Fatalf("unexpected metadata %+v", outcome.Metadata)
	}

	req := provider.requests[0]
	if req.Model != "gemini-2.5-pro" || req.Credential != "key" {
		t.Fatalf("unexpected generate request %+v", req)
	}
	if len(req.Payload.Parts) != 1 || req.Payload.Parts[0].Text != "hello" {
		t.Fatalf("expected literal input as the only part, got %+v", req.Payload.Parts)
	}
	if !strings.Contains(req.Payload.SystemInstruction, prompt.TipsSentinel) {
		t.Fatalf("expected composed prompt as system instruction")
	}

	if len(saver.saved) != 1 {
		t.Fatalf("expected settings to be persisted once, got %d", len(saver.saved))
	}
	if saver.saved[0].ModelID != "gemini-2.5-pro" || saver.saved[0].Credential != "key" {
		t.Fatalf("unexpected persisted settings %+v", saver.saved[0])
	}

	if snapshot := orchestrator.Snapshot(); snapshot.State != domain.StateSucceeded || snapshot.Result == nil {
		t.Fatalf("expected snapshot to keep the result, got %+v", snapshot)
	}
}

func TestSubmitDefaultsModel(t *testing.T) {
	provider := &stubProvider{raw: "ok"}
	sub := textSubmission("hello")
	sub.ModelID = "  "

	if _, err := NewOrchestrator(provider, nil).Submit(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.requests[0].Model != models.DefaultModelID {
		t.Fatalf("expected default model, got %q", provider.requests[0].Model)
	}
}

func TestSubmitEmptyTextLeavesStateIdle(t *testing.T) {
	provider := &stubProvider{raw: "unused"}
	orchestrator := NewOrchestrator(provider, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		outcome, err := orchestrator.Submit(context.Background(), textSubmission(text))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome.Failure == nil || outcome.Failure.Kind != domain.ErrorEmptyInput {
			t.Fatalf("expected empty_input, got %+v", outcome.Failure)
		}
		if outcome.State != domain.StateIdle {
			t.Fatalf("expected idle, got %s", outcome.State)
		}
	}
	if provider.calls() != 0 {
		t.Fatalf("expected no transport calls, got %d", provider.calls())
	}
	if snapshot := orchestrator.Snapshot(); snapshot.State != domain.StateIdle || snapshot.Failure != nil {
		t.Fatalf("expected untouched state, got %+v", snapshot)
	}
}

func TestSubmitMissingCredential(t *testing.T) {
	provider := &stubProvider{raw: "unused"}
	sub := textSubmission("hello")
	sub.Credential = " "

	outcome, err := NewOrchestrator(provider, nil).Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Failure == nil || outcome.Failure.Kind != domain.ErrorMissingCredential {
		t.Fatalf("expected missing_credential, got %+v", outcome.Failure)
	}
	if !outcome.Failure.ReopenCredential {
		t.Fatalf("expected reopen credential signal")
	}
	if provider.calls() != 0 {
		t.Fatalf("expected no transport calls")
	}
}

func TestSubmitImageWithoutPayload(t *testing.T) {
	sub := textSubmission("")
	sub.Request = domain.TranslationRequest{Modality: domain.ModalityImage}

	outcome, err := NewOrchestrator(&stubProvider{}, nil).Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Failure == nil || outcome.Failure.Kind != domain.ErrorEmptyInput {
		t.Fatalf("expected empty_input, got %+v", outcome.Failure)
	}
}

func TestSubmitImageDetectsMIMEType(t *testing.T) {
	provider := &stubProvider{raw: "ok"}
	png := []byte("\x89PNG\r\n\x1a\n0000")
	sub := textSubmission("")
	sub.Request = domain.TranslationRequest{Modality: domain.ModalityImage, Image: png}

	if _, err := NewOrchestrator(provider, nil).Submit(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := provider.requests[0].Payload.Parts
	if len(parts) != 2 || parts[1].InlineData == nil {
		t.Fatalf("expected prompt and inline image, got %+v", parts)
	}
	if parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("expected detected image/png, got %q", parts[1].InlineData.MIMEType)
	}
	if provider.requests[0].Payload.SystemInstruction != "" {
		t.Fatalf("expected no system instruction for image requests")
	}
}

func TestSubmitClassifiesProviderErrors(t *testing.T) {
	tests := []struct {
		err      error
		kind     domain.ErrorKind
		fallback bool
		reopen   bool
	}{
		{&llm.ProviderError{Provider: "stub", StatusCode: 429, Message: "Quota exceeded"}, domain.ErrorQuotaExceeded, true, false},
		{&llm.ProviderError{Provider: "stub", StatusCode: 400, Message: "API key not valid"}, domain.ErrorInvalidCredential, false, true},
		{&llm.ProviderError{Provider: "stub", StatusCode: 403, Message: "Your API key was reported as leaked"}, domain.ErrorCredentialRevoked, false, true},
		{&llm.ProviderError{Provider: "stub", StatusCode: 404, Message: "models/x is not found"}, domain.ErrorModelNotFound, false, false},
		{errors.New("connection reset"), domain.ErrorUnknown, false, false},
		{llm.ErrEmptyResponse, domain.ErrorUnknown, false, false},
	}

	for _, tc := range tests {
		saver := &recordingSaver{}
		orchestrator := NewOrchestrator(&stubProvider{err: tc.err}, saver)

		outcome, err := orchestrator.Submit(context.Background(), textSubmission("hello"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome.State != domain.StateFailed {
			t.Fatalf("%v: expected failed, got %s", tc.err, outcome.State)
		}
		if outcome.Failure.Kind != tc.kind {
			t.Fatalf("%v: expected %s, got %s", tc.err, tc.kind, outcome.Failure.Kind)
		}
		if outcome.Failure.FallbackAvailable != tc.fallback || outcome.Failure.ReopenCredential != tc.reopen {
			t.Fatalf("%v: unexpected side signals %+v", tc.err, outcome.Failure)
		}
		if len(saver.saved) != 0 {
			t.Fatalf("%v: expected no persistence on failure", tc.err)
		}
	}
}

func TestSubmitUnknownKeepsRawMessage(t *testing.T) {
	outcome, _ := NewOrchestrator(&stubProvider{err: errors.New("socket hang up")}, nil).
		Submit(context.Background(), textSubmission("hello"))
	if outcome.Failure.Message != "socket hang up" {
		t.Fatalf("expected raw message, got %q", outcome.Failure.Message)
	}
}

func TestSubmitPersistFailureIsIgnored(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	outcome, err := NewOrchestrator(&stubProvider{raw: "ok"}, saver).Submit(context.Background(), textSubmission("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != domain.StateSucceeded {
		t.Fatalf("expected succeeded despite persistence failure, got %s", outcome.State)
	}
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	provider := &stubProvider{raw: "done", release: make(chan struct{}), started: make(chan struct{})}
	orchestrator := NewOrchestrator(provider, nil)

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := orchestrator.Submit(context.Background(), textSubmission("first"))
		done <- outcome
	}()
	<-provider.started

	if snapshot := orchestrator.Snapshot(); snapshot.State != domain.StateInFlight {
		t.Fatalf("expected in_flight, got %s", snapshot.State)
	}
	if _, err := orchestrator.Submit(context.Background(), textSubmission("second")); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
	if err := orchestrator.Clear(); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected Clear to be rejected while in flight, got %v", err)
	}

	close(provider.release)
	select {
	case outcome := <-done:
		if outcome.State != domain.StateSucceeded {
			t.Fatalf("expected first request to succeed, got %s", outcome.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first request did not settle")
	}
	if provider.calls() != 1 {
		t.Fatalf("expected one transport call, got %d", provider.calls())
	}
}

func TestSubmitCanceledContextSettlesFailed(t *testing.T) {
	provider := &stubProvider{release: make(chan struct{}), started: make(chan struct{})}
	orchestrator := NewOrchestrator(provider, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := orchestrator.Submit(ctx, textSubmission("hello"))
		done <- outcome
	}()
	<-provider.started
	cancel()

	select {
	case outcome := <-done:
		if outcome.State != domain.StateFailed {
			t.Fatalf("expected failed after cancel, got %s", outcome.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("canceled request did not settle")
	}
}

func TestFailurePersistsUntilClearOrNextSubmit(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	orchestrator := NewOrchestrator(provider, nil)
	_, _ = orchestrator.Submit(context.Background(), textSubmission("hello"))

	if snapshot := orchestrator.Snapshot(); snapshot.Failure == nil {
		t.Fatalf("expected failure to persist")
	}

	provider.err = nil
	provider.raw = "ok"
	outcome, _ := orchestrator.Submit(context.Background(), textSubmission("hello"))
	if outcome.Failure != nil || outcome.State != domain.StateSucceeded {
		t.Fatalf("expected next submit to replace the failure, got %+v", outcome)
	}

	if err := orchestrator.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if snapshot := orchestrator.Snapshot(); snapshot.State != domain.StateIdle || snapshot.Result != nil {
		t.Fatalf("expected idle after clear, got %+v", snapshot)
	}
}
