package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	defaultRetryBase = 500 * time.Millisecond
	defaultRetryCap  = 5 * time.Second
)

// RetryingCompleter retries transient provider failures with capped exponential backoff.
// It never persists anything, so retries cannot duplicate chat turns.
type RetryingCompleter struct {
	next       Completer
	maxRetries uint64
	base       time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
}

func NewRetryingCompleter(next Completer, maxRetries uint64, logger *zap.Logger) *RetryingCompleter {
	return &RetryingCompleter{
		next:       next,
		maxRetries: maxRetries,
		base:       defaultRetryBase,
		maxDelay:   defaultRetryCap,
		logger:     logger,
	}
}

// WithBackoff overrides the backoff delays
func (r *RetryingCompleter) WithBackoff(base, maxDelay time.Duration) *RetryingCompleter {
	r.base = base
	r.maxDelay = maxDelay
	return r
}

func (r *RetryingCompleter) Complete(ctx context.Context, conv *Conversation) (string, error) {
	backoff := retry.NewExponential(r.base)
	backoff = retry.WithCappedDuration(r.maxDelay, backoff)
	backoff = retry.WithMaxRetries(r.maxRetries, backoff)

	var answer string
	attempt := 0

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		text, err := r.next.Complete(ctx, conv)
		if err != nil {
			var upErr *UpstreamError
			if errors.As(err, &upErr) && upErr.Transient() && ctx.Err() == nil {
				r.logger.Warn("Transient completion failure, retrying",
					zap.Int("attempt", attempt),
					zap.String("provider", upErr.Provider),
					zap.String("kind", string(upErr.Kind)),
					zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}

		answer = text
		return nil
	})
	if err != nil {
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			return "", upErr
		}
		return "", newUpstreamError("", 0, err)
	}

	return answer, nil
}
