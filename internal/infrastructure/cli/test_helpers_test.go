package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
)

// runCLI executes the root command against root and returns what it printed on
// stdout. Logs and usage go to a separate buffer.
func runCLI(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	rootPath = ""
	reviewModel, reviewJSON = "", false
	profileJSON = false
	historyLimit, historyJSON = 20, false
	configForce = false

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(""))
	RootCmd.SetArgs(append([]string{"--root", root}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}

// withWorkspace writes a config whose exec backend runs script through /bin/sh.
func withWorkspace(t *testing.T, script string) string {
	t.Helper()

	root := t.TempDir()
	worker := filepath.Join(root, "worker.sh")
	if err := os.WriteFile(worker, []byte(script), 0600); err != nil {
		t.Fatalf("write worker: %v", err)
	}

	cfg := config.Default()
	cfg.Channel.Endpoint = "ws://127.0.0.1:1/ws"
	cfg.Backend.Command = []string{"/bin/sh", worker}
	if err := config.Save(root, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return root
}

func writeReport(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0600); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}
