package main

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	domainPlugin "github.com/felixgeelhaar/tabcrusher/pkg/domain/plugin"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	infraPlugin "github.com/felixgeelhaar/tabcrusher/pkg/plugin"
	"github.com/hashicorp/go-plugin"
)

// MockReviewer returns canned findings so the client can be exercised without a real backend.
type MockReviewer struct {
	config map[string]string
}

func (m *MockReviewer) Init(config map[string]string) error {
	m.config = config
	return nil
}

func (m *MockReviewer) Review(req review.Request) (string, error) {
	log.Printf("Processing file: %s", req.FilePath)

	ext := strings.ToLower(filepath.Ext(req.FilePath))
	switch ext {
	case ".pdf", ".xlsx", ".xls":
	default:
		return "", fmt.Errorf("Unsupported file type: %s", ext)
	}

	result := review.Result{Findings: []review.Finding{
		{Page: 1, Issue: fmt.Sprintf("Mock review of %s with %s", filepath.Base(req.FilePath), req.ModelName)},
	}}
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			infraPlugin.ReviewerName: &domainPlugin.ReviewerPlugin{Impl: &MockReviewer{}},
		},
	})
}
