// Package ratelimit implements sliding-window request limiting with
// per-endpoint configuration attached to huma operations.
package ratelimit

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig defines per-endpoint rate limits, attached to huma
// operations via the Metadata field.
type EndpointConfig struct {
	// Limits are checked independently; exceeding any of them rejects the
	// request.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// LimitExceeded describes which limit rejected a request.
type LimitExceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter checks requests against a set of sliding-window limits.
type Limiter interface {
	// Allow records a request under the given key and checks it against
	// every limit. The LimitExceeded result is nil when allowed.
	Allow(ctx context.Context, key string, limits []LimitConfig) (bool, *LimitExceeded, error)
}

// SlidingWindowLimiter implements Limiter over a Store.
type SlidingWindowLimiter struct {
	store Store
}

// NewSlidingWindowLimiter creates a sliding window rate limiter.
func NewSlidingWindowLimiter(store Store) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limits []LimitConfig) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		// Window length is part of the key so each limit tracks its own
		// window independently.
		windowKey := key + ":" + limit.Window.String()

		count, err := l.store.Record(ctx, windowKey, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &LimitExceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
