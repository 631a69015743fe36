package wiring

import (
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
)

// Workspace bundles the on-disk state under <root>/.tabcrusher.
type Workspace struct {
	Root     string
	Repo     *storage.FilesystemRepository
	Settings *storage.SettingsStore
	Config   *config.Config
}

func NewWorkspace(root string) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	repo := storage.NewFilesystemRepository(root)
	return &Workspace{
		Root:     root,
		Repo:     repo,
		Settings: storage.NewSettingsStore(repo),
		Config:   cfg,
	}, nil
}

// Path resolves a configured file name inside the workspace directory.
func (w *Workspace) Path(name string) string {
	return config.WorkspacePath(w.Root, name)
}
