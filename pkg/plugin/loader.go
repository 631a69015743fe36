package plugin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	domainPlugin "github.com/felixgeelhaar/tabcrusher/pkg/domain/plugin"
	goplugin "github.com/hashicorp/go-plugin"
)

// ReviewerName is the dispensed plugin name.
const ReviewerName = "reviewer"

var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TABCRUSHER_PLUGIN",
	MagicCookieValue: "tabcrusher",
}

var PluginMap = map[string]goplugin.Plugin{
	ReviewerName: &domainPlugin.ReviewerPlugin{},
}

type Loader struct {
	mu      sync.Mutex
	plugins map[string]*goplugin.Client
}

func NewLoader() *Loader {
	return &Loader{
		plugins: make(map[string]*goplugin.Client),
	}
}

// Validate checks that path names an executable regular file.
func Validate(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid plugin path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("plugin not found: %s", absPath)
		}
		return "", fmt.Errorf("cannot access plugin: %w", err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("plugin path is a directory: %s", absPath)
	}

	// Check executable permission on Unix systems
	if runtime.GOOS != "windows" {
		if info.Mode()&0111 == 0 {
			return "", fmt.Errorf("plugin is not executable: %s", absPath)
		}
	}
	return absPath, nil
}

// Load starts the plugin at path and dispenses its reviewer.
func (l *Loader) Load(path string) (domainPlugin.Reviewer, error) {
	absPath, err := Validate(path)
	if err != nil {
		return nil, err
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		// #nosec G204 -- absPath is validated above
		Cmd: exec.Command(absPath),
		AllowedProtocols: []goplugin.Protocol{
			goplugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to create plugin client: %w", err)
	}

	raw, err := rpcClient.Dispense(ReviewerName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	reviewer, ok := raw.(domainPlugin.Reviewer)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not implement reviewer", absPath)
	}

	l.mu.Lock()
	if old, exists := l.plugins[absPath]; exists {
		old.Kill()
	}
	l.plugins[absPath] = client
	l.mu.Unlock()
	return reviewer, nil
}

func (l *Loader) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for path, client := range l.plugins {
		client.Kill()
		delete(l.plugins, path)
	}
}
