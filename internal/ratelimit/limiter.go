package ratelimit

import (
	"context"
	"errors"
)

// ErrRateLimited is returned when an address has exhausted its attempts
// within the sliding window.
var ErrRateLimited = errors.New("too many attempts")

// Limiter admits or rejects login attempts per source address. Checking the
// window and recording the attempt happen as one atomic step.
type Limiter interface {
	Allow(ctx context.Context, addr string) error
}
