package plugin

import (
	"context"
	"errors"
	"fmt"

	domainPlugin "github.com/felixgeelhaar/tabcrusher/pkg/domain/plugin"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

// Backend adapts a plugin Reviewer to review.Backend.
type Backend struct {
	reviewer domainPlugin.Reviewer
}

func NewBackend(reviewer domainPlugin.Reviewer) *Backend {
	return &Backend{reviewer: reviewer}
}

// Review forwards req to the plugin. net/rpc calls cannot be cancelled, so a cancelled
// context returns early and the late reply is dropped.
func (b *Backend) Review(ctx context.Context, req review.Request) (string, error) {
	type reply struct {
		raw string
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := b.reviewer.Review(req)
		done <- reply{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			var backendErr *review.BackendError
			if errors.As(r.err, &backendErr) {
				return "", backendErr
			}
			return "", fmt.Errorf("reviewer plugin: %w", r.err)
		}
		return r.raw, nil
	}
}
