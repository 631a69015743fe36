package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/intake"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
)

// RunRecorder stores settled reviews.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *review.Run) error
}

// ReviewService issues backend calls for dropped files and records their outcome.
type ReviewService struct {
	backend  review.Backend
	recorder RunRecorder
	logger   *slog.Logger
}

// NewReviewService creates the orchestrator. recorder may be nil when history is disabled.
func NewReviewService(backend review.Backend, recorder RunRecorder, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{backend: backend, recorder: recorder, logger: logger}
}

// Run performs the single backend call for ticket. It never retries.
func (s *ReviewService) Run(ctx context.Context, ticket session.Ticket) session.Completion {
	s.logger.Info("review submitted", "seq", ticket.Seq, "file", ticket.File.Path, "model", ticket.Request.ModelName)

	raw, err := s.backend.Review(ctx, ticket.Request)
	outcome := review.Settle(raw, err)
	if outcome.IsOk() {
		s.logger.Info("review settled", "seq", ticket.Seq, "findings", len(outcome.Result().Findings))
	} else {
		s.logger.Warn("review failed", "seq", ticket.Seq, "malformed", outcome.Malformed(), "error", outcome.Reason())
	}
	return session.Completion{Ticket: ticket, Outcome: outcome}
}

// Record logs a settled review to history. Failures are logged and never surfaced.
func (s *ReviewService) Record(ctx context.Context, c session.Completion, profileName string, superseded bool) {
	if s.recorder == nil {
		return
	}

	run := &review.Run{
		ProfileName: profileName,
		ModelID:     c.Ticket.Request.ModelName,
		FilePath:    c.Ticket.File.Path,
		Superseded:  superseded,
	}
	if hash, err := fileHash(c.Ticket.File.Path); err != nil {
		s.logger.Debug("could not hash reviewed file", "file", c.Ticket.File.Path, "error", err)
	} else {
		run.FileHash = hash
	}

	if c.Outcome.IsOk() {
		run.Status = review.RunSucceeded
		data, err := json.Marshal(c.Outcome.Result())
		if err == nil {
			run.ResultJSON = string(data)
		}
	} else {
		run.Status = review.RunFailed
		run.Error = c.Outcome.Reason()
	}

	if err := s.recorder.RecordRun(ctx, run); err != nil {
		s.logger.Error("failed to record review run", "file", run.FilePath, "error", err)
	}
}

// Submit runs one review outside the UI loop: pick the first dropped item, start a
// cycle on st, call the backend, settle and record.
func (s *ReviewService) Submit(ctx context.Context, st *session.State, paths []string) (session.Completion, error) {
	file, err := intake.First(intake.Items(paths))
	if err != nil {
		return session.Completion{}, err
	}

	ticket, err := st.Drop(file)
	if err != nil {
		return session.Completion{}, fmt.Errorf("start review: %w", err)
	}

	c := s.Run(ctx, ticket)
	applied := st.Settle(c)
	s.Record(ctx, c, st.Profile.Name, !applied)
	return c, nil
}

func fileHash(path string) (string, error) {
	// #nosec G304 -- path is the file the user dropped
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
