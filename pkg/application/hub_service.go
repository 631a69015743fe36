package application

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
)

// CredentialStore persists the single API key.
type CredentialStore interface {
	LoadAPIKey() (string, bool, error)
	SaveAPIKey(key string) error
}

// HubService composes the model registry with the credential store.
type HubService struct {
	registry *aimodel.Registry
	creds    CredentialStore
	logger   *slog.Logger
}

func NewHubService(registry *aimodel.Registry, creds CredentialStore, logger *slog.Logger) *HubService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HubService{registry: registry, creds: creds, logger: logger}
}

func (s *HubService) Registry() *aimodel.Registry {
	return s.registry
}

// Mount loads the saved credential into st. A missing key leaves st untouched.
func (s *HubService) Mount(st *session.State) error {
	key, ok, err := s.creds.LoadAPIKey()
	if err != nil {
		s.logger.Error("failed to load api key", "error", err)
		return fmt.Errorf("load api key: %w", err)
	}
	if ok {
		st.SetAPIKey(key)
	}
	s.logger.Debug("credential store mounted", "has_key", ok)
	return nil
}

// SetAPIKey updates the credential in st and persists it. The in-memory value is kept
// even when persistence fails; the failure is logged and returned.
func (s *HubService) SetAPIKey(st *session.State, key string) error {
	st.SetAPIKey(key)
	if err := s.creds.SaveAPIKey(key); err != nil {
		s.logger.Error("failed to save api key", "error", err)
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// SelectModel sets the current model if id is registered.
func (s *HubService) SelectModel(st *session.State, id string) bool {
	if !st.SelectModel(s.registry, id) {
		s.logger.Debug("ignored unknown model", "model", id)
		return false
	}
	s.logger.Info("model selected", "model", id)
	return true
}
