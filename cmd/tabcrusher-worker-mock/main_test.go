package main

import (
	"testing"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

func TestMockReviewer_Review(t *testing.T) {
	m := &MockReviewer{}
	if err := m.Init(map[string]string{}); err != nil {
		t.Fatal(err)
	}

	raw, err := m.Review(review.Request{FilePath: "/tmp/tab-report.PDF", ModelName: "gpt-4o"})
	if err != nil {
		t.Fatal(err)
	}

	result, err := review.Parse(raw)
	if err != nil {
		t.Fatalf("mock output must validate: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if got := result.Findings[0].String(); got != "Page 1: Mock review of tab-report.PDF with gpt-4o" {
		t.Errorf("unexpected finding %q", got)
	}
}

func TestMockReviewer_UnsupportedType(t *testing.T) {
	m := &MockReviewer{}
	_, err := m.Review(review.Request{FilePath: "/tmp/notes.txt"})
	if err == nil || err.Error() != "Unsupported file type: .txt" {
		t.Fatalf("unexpected error %v", err)
	}
}
