package worker

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

// WithTimeout bounds every review made through b. A non-positive d returns b unchanged.
func WithTimeout(b review.Backend, d time.Duration) review.Backend {
	if d <= 0 {
		return b
	}
	t := timeout.New[string](timeout.Config{DefaultTimeout: d})

	return review.BackendFunc(func(ctx context.Context, req review.Request) (string, error) {
		start := time.Now()
		raw, err := t.Execute(ctx, d, func(ctx context.Context) (string, error) {
			return b.Review(ctx, req)
		})
		if err != nil && ctx.Err() == nil && time.Since(start) >= d {
			return "", &review.BackendError{Reason: "review timed out after " + d.String()}
		}
		return raw, err
	})
}
