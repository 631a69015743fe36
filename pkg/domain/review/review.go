// Package review defines the contract with the external review backend: the request
// sent for a dropped report, the findings it returns, and the lifecycle of one review.
package review

import (
	"context"
	"fmt"
)

// Request is what the backend receives for one dropped file.
type Request struct {
	FilePath  string `json:"filePath"`
	APIKey    string `json:"apiKey"`
	ModelName string `json:"modelName"`
}

// Finding is a single flagged issue on a report page.
type Finding struct {
	Page  int    `json:"page"`
	Issue string `json:"issue"`
}

// String renders the finding as it appears in the results panel.
func (f Finding) String() string {
	return fmt.Sprintf("Page %d: %s", f.Page, f.Issue)
}

// Result is the validated payload of a successful review.
type Result struct {
	Findings []Finding `json:"findings"`
}

// Backend performs the actual review. It returns the raw JSON payload or a failure.
type Backend interface {
	Review(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (string, error)

// Review implements Backend.
func (f BackendFunc) Review(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
