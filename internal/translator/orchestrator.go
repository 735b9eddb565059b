// Package translator owns the single outstanding translation request.
package translator

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/alanmaizon/gt-translator/internal/domain"
	"github.com/alanmaizon/gt-translator/internal/llm"
	"github.com/alanmaizon/gt-translator/internal/metrics"
	"github.com/alanmaizon/gt-translator/internal/middleware"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/prompt"
	"github.com/alanmaizon/gt-translator/internal/response"
)

var ErrRequestInFlight = errors.New("a translation request is already in flight")

// SettingsSaver persists the settings used by a successful translation.
type SettingsSaver interface {
	Save(ctx context.Context, settings domain.Settings) error
}

type Submission struct {
	Request    domain.TranslationRequest
	Config     domain.PromptConfig
	ModelID    string
	Credential string
}

type Metadata struct {
	Provider        string `json:"provider"`
	ModelID         string `json:"modelId"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

type Outcome struct {
	State    domain.RequestState       `json:"state"`
	Modality domain.Modality           `json:"modality,omitempty"`
	Result   *domain.TranslationResult `json:"result,omitempty"`
	Failure  *domain.Failure           `json:"failure,omitempty"`
	Metadata *Metadata                 `json:"metadata,omitempty"`
}

type Orchestrator struct {
	provider llm.Provider
	saver    SettingsSaver

	mu       sync.Mutex
	state    domain.RequestState
	modality domain.Modality
	result   *domain.TranslationResult
	failure  *domain.Failure
	metadata *Metadata
}

// NewOrchestrator wires the transport and the settings sink. saver may be nil.
func NewOrchestrator(provider llm.Provider, saver SettingsSaver) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		saver:    saver,
		state:    domain.StateIdle,
	}
}

// Submit runs one translation. Precondition failures are returned in the
// Outcome without touching the state. The only error is ErrRequestInFlight.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	o.mu.Lock()
	if o.state == domain.StateInFlight {
		o.mu.Unlock()
		return Outcome{}, ErrRequestInFlight
	}
	if failure := checkPreconditions(&sub); failure != nil {
		state := o.state
		o.mu.Unlock()
		metrics.RecordTranslation(string(sub.Request.Modality), "rejected")
		return Outcome{State: state, Modality: sub.Request.Modality, Failure: failure}, nil
	}
	o.state = domain.StateInFlight
	o.modality = sub.Request.Modality
	o.result = nil
	o.failure = nil
	o.metadata = nil
	o.mu.Unlock()

	modelID := strings.TrimSpace(sub.ModelID)
	if modelID == "" {
		modelID = models.DefaultModelID
	}
	requestID := middleware.GetRequestIDFromContext(ctx)
	started := time.Now()

	composed := prompt.Compose(sub.Config, sub.Request.Modality)
	raw, err := o.provider.Generate(ctx, llm.GenerateRequest{
		Model:      modelID,
		Credential: strings.TrimSpace(sub.Credential),
		Payload:    prompt.BuildPayload(composed, sub.Request),
	})

	metadata := &Metadata{
		Provider:        o.provider.Name(),
		ModelID:         modelID,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}

	if err != nil {
		message := llm.ErrorMessage(err)
		failure := response.NewFailure(response.Classify(message, llm.StatusCode(err)), message)
		log.Printf(
			"request_id=%s component=translator modality=%s model=%s status=failed kind=%s",
			requestID,
			sub.Request.Modality,
			modelID,
			failure.Kind,
		)
		metrics.RecordTranslation(string(sub.Request.Modality), string(domain.StateFailed))
		return o.settle(domain.StateFailed, nil, &failure, metadata), nil
	}

	result := response.Interpret(raw)
	o.persist(ctx, requestID, sub, modelID)

	log.Printf(
		"request_id=%s component=translator modality=%s model=%s status=succeeded has_notes=%t duration_ms=%d",
		requestID,
		sub.Request.Modality,
		modelID,
		result.HasNotes(),
		metadata.ExecutionTimeMs,
	)
	metrics.RecordTranslation(string(sub.Request.Modality), string(domain.StateSucceeded))
	return o.settle(domain.StateSucceeded, &result, nil, metadata), nil
}

// Snapshot returns the current state with the last result or failure.
func (o *Orchestrator) Snapshot() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomeLocked()
}

// Clear drops the last result or failure and returns to Idle.
func (o *Orchestrator) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == domain.StateInFlight {
		return ErrRequestInFlight
	}
	o.state = domain.StateIdle
	o.modality = ""
	o.result = nil
	o.failure = nil
	o.metadata = nil
	return nil
}

func (o *Orchestrator) settle(state domain.RequestState, result *domain.TranslationResult, failure *domain.Failure, metadata *Metadata) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
	o.result = result
	o.failure = failure
	o.metadata = metadata
	return o.outcomeLocked()
}

func (o *Orchestrator) outcomeLocked() Outcome {
	return Outcome{
		State:    o.state,
		Modality: o.modality,
		Result:   o.result,
		Failure:  o.failure,
		Metadata: o.metadata,
	}
}

func (o *Orchestrator) persist(ctx context.Context, requestID string, sub Submission, modelID string) {
	if o.saver == nil {
		return
	}
	err := o.saver.Save(context.WithoutCancel(ctx), domain.Settings{
		Credential:     strings.TrimSpace(sub.Credential),
		TargetLanguage: sub.Config.TargetLanguage,
		Rules:          sub.Config.Rules,
		Context:        sub.Config.Context,
		ModelID:        modelID,
	})
	if err != nil {
		log.Printf("request_id=%s component=translator event=persist_settings error=%q", requestID, err.Error())
	}
}
