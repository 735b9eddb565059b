package llm

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultLLMTimeout = 60 * time.Second
	maxLLMTimeout     = 5 * time.Minute
)

// runtimePolicy bounds a single provider call. Requests are single-shot: a
// failed call is reported, never retried.
type runtimePolicy struct {
	timeout time.Duration
}

func newRuntimePolicy(timeout time.Duration) runtimePolicy {
	if timeout <= 0 {
		return loadRuntimePolicyFromEnv()
	}
	if timeout > maxLLMTimeout {
		timeout = maxLLMTimeout
	}
	return runtimePolicy{timeout: timeout}
}

func loadRuntimePolicyFromEnv() runtimePolicy {
	timeout := defaultLLMTimeout

	if raw := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_MS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Millisecond
		}
	}

	if timeout > maxLLMTimeout {
		timeout = maxLLMTimeout
	}

	return runtimePolicy{timeout: timeout}
}

func (p runtimePolicy) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}
