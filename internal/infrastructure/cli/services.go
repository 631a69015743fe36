package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
)

func getRoot() (string, error) {
	if rootPath != "" {
		abs, err := filepath.Abs(rootPath)
		if err != nil {
			return "", fmt.Errorf("invalid root path %q: %w", rootPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("root path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("root path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.UserHomeDir()
}

func loadWorkspace() (*wiring.Workspace, error) {
	root, err := getRoot()
	if err != nil {
		return nil, err
	}
	return wiring.NewWorkspace(root)
}

func loadApp(opts wiring.Options) (*wiring.App, error) {
	root, err := getRoot()
	if err != nil {
		return nil, err
	}
	return wiring.BuildApp(root, opts)
}

// mountSession builds a session with the saved credential loaded.
func mountSession(app *wiring.App) (*session.State, error) {
	st, err := session.New(app.Registry)
	if err != nil {
		return nil, err
	}
	if err := app.Hub.Mount(st); err != nil {
		return nil, err
	}
	return st, nil
}
