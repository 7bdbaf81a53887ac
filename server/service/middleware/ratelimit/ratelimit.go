// Package ratelimit provides rate limiting for go-kit endpoints backed by a
// GCRA store.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"
	"github.com/throttled/throttled/v2"
)

// Middleware is a rate limiting middleware using the provided store. Each
// function wrapped by the rate limiter receives a separate quota.
type Middleware struct {
	store throttled.GCRAStore
}

// NewMiddleware initializes the middleware with the provided store.
func NewMiddleware(store throttled.GCRAStore) *Middleware {
	if store == nil {
		panic("nil store")
	}

	return &Middleware{store: store}
}

// Limit returns a new middleware function enforcing the provided quota.
func (m *Middleware) Limit(keyName string, quota throttled.RateQuota) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		limiter, err := throttled.NewGCRARateLimiter(m.store, quota)
		if err != nil {
			panic(err)
		}

		return func(ctx context.Context, req interface{}) (response interface{}, err error) {
			limited, result, err := limiter.RateLimit(keyName, 1)
			if err != nil {
				// This can happen if the limit store is unavailable.
				return nil, errors.Wrap(err, "check rate limit")
			}

			if limited {
				return nil, &rateLimitError{result: result}
			}

			return next(ctx, req)
		}
	}
}

// Error is the interface for rate limiting errors.
type Error interface {
	error
	Result() throttled.RateLimitResult
}

type rateLimitError struct {
	result throttled.RateLimitResult
}

func (r rateLimitError) Error() string {
	ra := int(r.result.RetryAfter.Seconds())
	if ra > 0 {
		return fmt.Sprintf("limit exceeded, retry after: %ds", ra)
	}
	return "limit exceeded"
}

func (r rateLimitError) StatusCode() int {
	return http.StatusTooManyRequests
}

func (r rateLimitError) RetryAfter() int {
	return int(r.result.RetryAfter.Seconds())
}

func (r rateLimitError) Result() throttled.RateLimitResult {
	return r.result
}
