package service

import (
	"context"
	"time"

	"github.com/lawai/lawai-be/types"
)

// RetryPolicy is a bounded retry with exponential backoff around model
// calls. Zero attempts means no retries; retries never continue a stream
// that already delivered output.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

type retryingModel struct {
	inner  LanguageModel
	policy RetryPolicy
}

// WithRetry wraps a LanguageModel with the given policy. A nil-equivalent
// policy (MaxAttempts <= 0) returns the model unchanged.
func WithRetry(model LanguageModel, policy RetryPolicy) LanguageModel {
	if policy.MaxAttempts <= 0 {
		return model
	}
	if policy.Backoff <= 0 {
		policy.Backoff = 500 * time.Millisecond
	}
	return &retryingModel{inner: model, policy: policy}
}

func (m *retryingModel) Generate(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	backoff := m.policy.Backoff
	for attempt := 0; attempt <= m.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		result, err := m.inner.Generate(ctx, system, user)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (m *retryingModel) GenerateStream(ctx context.Context, system, user string, handler types.StreamHandler) error {
	var lastErr error
	backoff := m.policy.Backoff
	for attempt := 0; attempt <= m.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		delivered := false
		err := m.inner.GenerateStream(ctx, system, user, func(chunk string) {
			delivered = true
			handler(chunk)
		})
		if err == nil {
			return nil
		}
		lastErr = err
		// Retrying after partial output would duplicate chunks.
		if delivered || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}
