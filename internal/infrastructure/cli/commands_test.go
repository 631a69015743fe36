package cli

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
)

func TestModels_ListsRegistryWithDefault(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "models")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 models, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "* gpt-4o") {
		t.Fatalf("expected default marker on gpt-4o, got %q", lines[0])
	}
	if !strings.Contains(out, "Claude 3 Opus") {
		t.Fatalf("expected display names, got:\n%s", out)
	}
}

func TestProfileShow(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "profile", "show")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	for _, want := range []string{"Manager Default", "Coil dT", "±2 F", "Exhaust", "±15%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestProfileShow_JSON(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "profile", "show", "--json")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(out, `"name": "Manager Default"`) {
		t.Fatalf("unexpected JSON:\n%s", out)
	}
}

func TestKey_SetShowClear(t *testing.T) {
	root := t.TempDir()

	if _, err := runCLI(t, root, "key", "set", "sk-test-123456"); err != nil {
		t.Fatalf("key set: %v", err)
	}

	out, err := runCLI(t, root, "key", "show")
	if err != nil {
		t.Fatalf("key show: %v", err)
	}
	if strings.Contains(out, "sk-test") {
		t.Fatalf("key must be masked, got %q", out)
	}
	if !strings.Contains(out, "3456") {
		t.Fatalf("expected key suffix, got %q", out)
	}

	key, ok, err := storage.NewSettingsStore(storage.NewFilesystemRepository(root)).LoadAPIKey()
	if err != nil || !ok || key != "sk-test-123456" {
		t.Fatalf("expected persisted key, got %q %v %v", key, ok, err)
	}

	if _, err := runCLI(t, root, "key", "clear"); err != nil {
		t.Fatalf("key clear: %v", err)
	}
	out, err = runCLI(t, root, "key", "show")
	if err != nil {
		t.Fatalf("key show: %v", err)
	}
	if !strings.Contains(out, "No API key stored.") {
		t.Fatalf("expected cleared key, got %q", out)
	}
}

func TestKey_SetRejectsEmpty(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "key", "set", "  "); err == nil {
		t.Fatal("expected error for an empty key")
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"abc":          "***",
		"abcdefghijkl": "********ijkl",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfig_InitAndShow(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, root, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "config.yaml") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(config.WorkspacePath(root, storage.ConfigFile)); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	_, err = runCLI(t, root, "config", "init")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError on second init, got %v", err)
	}
	if _, err := runCLI(t, root, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}

	out, err = runCLI(t, root, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "endpoint: ws://localhost:8000/ws") {
		t.Fatalf("expected endpoint in output:\n%s", out)
	}
}

func TestConfig_ShowInvalid(t *testing.T) {
	root := t.TempDir()
	repo := storage.NewFilesystemRepository(root)
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.WorkspacePath(root, storage.ConfigFile), []byte("channel:\n  endpoint: http://nope\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, root, "config", "show")
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestHistory_Empty(t *testing.T) {
	root := withWorkspace(t, `echo '{"findings":[]}'`)

	out, err := runCLI(t, root, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No review runs recorded.") {
		t.Fatalf("unexpected output: %q", out)
	}

	_, err = runCLI(t, root, "history", "missing-id")
	if !errors.Is(err, storage.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestUI_BuildsWithoutRunning(t *testing.T) {
	t.Setenv("TABCRUSHER_SKIP_UI_RUN", "true")
	root := withWorkspace(t, `echo '{"findings":[]}'`)

	if _, err := runCLI(t, root, "ui"); err != nil {
		t.Fatalf("ui: %v", err)
	}
}

func TestRoot_RejectsMissingRoot(t *testing.T) {
	if _, err := runCLI(t, "/definitely/not/here", "key", "show"); err == nil {
		t.Fatal("expected error for a missing root")
	}
}
