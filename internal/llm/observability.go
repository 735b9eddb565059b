package llm

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alanmaizon/gt-translator/internal/metrics"
	"github.com/alanmaizon/gt-translator/internal/middleware"
	"github.com/alanmaizon/gt-translator/internal/response"
)

func observeProviderOperation[T any](ctx context.Context, provider string, operation string, call func() (T, error)) (T, error) {
	started := time.Now()
	requestID := middleware.GetRequestIDFromContext(ctx)

	log.Printf(
		"request_id=%s component=provider provider=%s operation=%s event=start",
		requestID,
		provider,
		operation,
	)

	result, err := call()

	status := "success"
	errorCategory := "none"
	if err != nil {
		status = "error"
		errorCategory = providerErrorCategory(err)
	}

	duration := time.Since(started)
	metrics.RecordProviderCall(provider, operation, status, errorCategory, duration)
	log.Printf(
		"request_id=%s component=provider provider=%s operation=%s status=%s error_category=%s duration_ms=%d",
		requestID,
		provider,
		operation,
		status,
		errorCategory,
		duration.Milliseconds(),
	)

	return result, err
}

func providerErrorCategory(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	}
	return string(response.Classify(ErrorMessage(err), StatusCode(err)))
}
