package application_test

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

type MockCreds struct {
	Key       string
	Has       bool
	Saved     []string
	LoadError error
	SaveError error
}

func (m *MockCreds) LoadAPIKey() (string, bool, error) { return m.Key, m.Has, m.LoadError }
func (m *MockCreds) SaveAPIKey(key string) error {
	m.Saved = append(m.Saved, key)
	return m.SaveError
}

type MockRecorder struct {
	mu   sync.Mutex
	Runs []review.Run
	Err  error
}

func (m *MockRecorder) RecordRun(ctx context.Context, run *review.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs = append(m.Runs, *run)
	return m.Err
}

func staticBackend(raw string, err error) review.Backend {
	return review.BackendFunc(func(ctx context.Context, req review.Request) (string, error) {
		return raw, err
	})
}
