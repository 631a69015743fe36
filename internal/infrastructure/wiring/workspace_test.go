package wiring

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWorkspace(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if ws.Config == nil || ws.Settings == nil || ws.Repo == nil {
		t.Fatalf("workspace not fully built: %+v", ws)
	}
	if got := ws.Path("history.db"); got != filepath.Join(root, ".tabcrusher", "history.db") {
		t.Errorf("unexpected path %s", got)
	}
}
