package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/intake"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
	"github.com/felixgeelhaar/tabcrusher/pkg/worker"
)

// ErrUnknownModel is returned when --model names no registered model.
var ErrUnknownModel = errors.New("unknown model")

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var backendErr *review.BackendError
	if errors.As(err, &backendErr) {
		// The backend's text is shown verbatim.
		return NewCLIError(backendErr.Reason, "See .tabcrusher/tabcrusher.log for the worker output", nil)
	}

	switch {
	case errors.Is(err, intake.ErrNoFile):
		return NewCLIError("no file to review", "Pass the path of an existing file, not a directory", err)
	case errors.Is(err, review.ErrMalformedResult):
		return NewCLIError("the review backend returned an unexpected payload", "Check that the worker prints {\"findings\": [...]} on stdout", err)
	case errors.Is(err, ErrUnknownModel):
		return NewCLIError("unknown model", "Run 'tabcrusher models' to list available models", err)
	case errors.Is(err, config.ErrInvalidConfig):
		return NewCLIError("invalid configuration", "Fix .tabcrusher/config.yaml or run 'tabcrusher config init --force'", err)
	case errors.Is(err, worker.ErrNoCommand):
		return NewCLIError("no review worker configured", "Set backend.command in .tabcrusher/config.yaml", err)
	case errors.Is(err, storage.ErrRunNotFound):
		return NewCLIError("review run not found", "Run 'tabcrusher history' to list recorded runs", err)
	}

	return err
}
