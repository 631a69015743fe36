package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

func TestOpenHistory_Memory(t *testing.T) {
	h, err := OpenHistory(":memory:")
	if err != nil {
		t.Fatalf("OpenHistory(:memory:) failed: %v", err)
	}
	defer h.Close()
}

func TestRecordAndListRuns(t *testing.T) {
	h, err := OpenHistory(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	runs := []*review.Run{
		{ProfileName: "Manager Default", ModelID: "gpt-4o", FilePath: "/a.pdf", FileHash: "aa",
			Status: review.RunSucceeded, ResultJSON: `{"findings":[]}`, CreatedAt: base},
		{ProfileName: "Manager Default", ModelID: "gpt-4o", FilePath: "/b.pdf",
			Status: review.RunFailed, Error: "Invalid file format", Superseded: true, CreatedAt: base.Add(time.Minute)},
	}
	for _, r := range runs {
		if err := h.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
		if r.ID == "" {
			t.Fatal("expected generated ID")
		}
	}

	got, err := h.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].FilePath != "/b.pdf" || got[1].FilePath != "/a.pdf" {
		t.Fatalf("expected newest first, got %s then %s", got[0].FilePath, got[1].FilePath)
	}
	if got[0].Status != review.RunFailed || got[0].Error != "Invalid file format" || !got[0].Superseded {
		t.Fatalf("unexpected failed run: %+v", got[0])
	}
	if !got[1].CreatedAt.Equal(base) {
		t.Fatalf("timestamp mismatch: %v", got[1].CreatedAt)
	}

	one, err := h.GetRun(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if one.ResultJSON != `{"findings":[]}` {
		t.Fatalf("unexpected result json %q", one.ResultJSON)
	}

	if _, err := h.GetRun(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRecentRuns_Limit(t *testing.T) {
	h, err := OpenHistory(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for i := 0; i < 5; i++ {
		if err := h.RecordRun(context.Background(), &review.Run{Status: review.RunSucceeded, FilePath: "/x.pdf"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := h.RecentRuns(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
}

func TestOpenHistory_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory(%s): %v", path, err)
	}
	if err := h.RecordRun(context.Background(), &review.Run{Status: review.RunSucceeded}); err != nil {
		t.Fatal(err)
	}
	_ = h.Close()

	reopened, err := OpenHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	runs, err := reopened.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected persisted run, got %d", len(runs))
	}
}
