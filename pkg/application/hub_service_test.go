package application_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/tabcrusher/pkg/application"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
)

func newState(t *testing.T) *session.State {
	t.Helper()
	st, err := session.New(aimodel.DefaultRegistry())
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestHubService_MountLoadsKey(t *testing.T) {
	creds := &MockCreds{Key: "sk-1", Has: true}
	svc := application.NewHubService(aimodel.DefaultRegistry(), creds, nil)
	st := newState(t)

	if err := svc.Mount(st); err != nil {
		t.Fatal(err)
	}
	if st.APIKey != "sk-1" {
		t.Errorf("expected loaded key, got %q", st.APIKey)
	}
}

func TestHubService_MountWithoutKey(t *testing.T) {
	svc := application.NewHubService(aimodel.DefaultRegistry(), &MockCreds{}, nil)
	st := newState(t)
	if err := svc.Mount(st); err != nil {
		t.Fatal(err)
	}
	if st.APIKey != "" {
		t.Errorf("expected empty key, got %q", st.APIKey)
	}
}

func TestHubService_MountError(t *testing.T) {
	svc := application.NewHubService(aimodel.DefaultRegistry(), &MockCreds{LoadError: errors.New("disk")}, nil)
	if err := svc.Mount(newState(t)); err == nil {
		t.Fatal("expected error")
	}
}

func TestHubService_SetAPIKeyPersistsEveryChange(t *testing.T) {
	creds := &MockCreds{}
	svc := application.NewHubService(aimodel.DefaultRegistry(), creds, nil)
	st := newState(t)

	for _, k := range []string{"s", "sk", "sk-"} {
		if err := svc.SetAPIKey(st, k); err != nil {
			t.Fatal(err)
		}
	}
	if len(creds.Saved) != 3 || creds.Saved[2] != "sk-" {
		t.Fatalf("expected every keystroke persisted, got %v", creds.Saved)
	}
	if st.APIKey != "sk-" {
		t.Errorf("unexpected state key %q", st.APIKey)
	}
}

func TestHubService_SetAPIKeySaveFailureKeepsMemoryValue(t *testing.T) {
	svc := application.NewHubService(aimodel.DefaultRegistry(), &MockCreds{SaveError: errors.New("read-only")}, nil)
	st := newState(t)

	if err := svc.SetAPIKey(st, "sk-2"); err == nil {
		t.Fatal("expected save error")
	}
	if st.APIKey != "sk-2" {
		t.Errorf("in-memory key should still update, got %q", st.APIKey)
	}
}

func TestHubService_SelectModel(t *testing.T) {
	svc := application.NewHubService(aimodel.DefaultRegistry(), &MockCreds{}, nil)
	st := newState(t)

	if !svc.SelectModel(st, "claude-3-opus-20240229") {
		t.Fatal("expected known model to be selected")
	}
	if st.Model.Name != "Claude 3 Opus" {
		t.Errorf("unexpected model %+v", st.Model)
	}
	if svc.SelectModel(st, "no-such-model") {
		t.Fatal("unknown model must be rejected")
	}
	if st.Model.ID != "claude-3-opus-20240229" {
		t.Errorf("unknown id changed the model to %+v", st.Model)
	}
}
