package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/intake"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
	"github.com/felixgeelhaar/tabcrusher/pkg/worker"
)

func TestCLIError_Error(t *testing.T) {
	err := NewCLIError("failed", "try again", errors.New("boom"))
	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", err.ExitCode)
	}

	plain := NewCLIError("failed", "", nil)
	if plain.Error() != "failed" {
		t.Fatalf("unexpected message: %q", plain.Error())
	}
}

func TestMapError_Nil(t *testing.T) {
	if MapError(nil) != nil {
		t.Fatal("expected nil")
	}
}

func TestMapError_KnownErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"no file", intake.ErrNoFile, "no file to review"},
		{"malformed", &review.MalformedError{}, "the review backend returned an unexpected payload"},
		{"unknown model", fmt.Errorf("%w: grok-9", ErrUnknownModel), "unknown model"},
		{"config", fmt.Errorf("%w: bad endpoint", config.ErrInvalidConfig), "invalid configuration"},
		{"no command", worker.ErrNoCommand, "no review worker configured"},
		{"run not found", fmt.Errorf("%w: abc", storage.ErrRunNotFound), "review run not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cliErr *CLIError
			if !errors.As(MapError(tt.err), &cliErr) {
				t.Fatalf("expected CLIError for %v", tt.err)
			}
			if cliErr.Message != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, cliErr.Message)
			}
			if cliErr.Hint == "" {
				t.Fatal("expected a hint")
			}
			if cliErr.Err == nil {
				t.Fatal("expected the cause to be kept")
			}
		})
	}
}

func TestMapError_BackendTextVerbatim(t *testing.T) {
	err := MapError(fmt.Errorf("wrapped: %w", &review.BackendError{Reason: "Worker script failed: no key"}))
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %T", err)
	}
	if cliErr.Error() != "Worker script failed: no key" {
		t.Fatalf("unexpected message: %q", cliErr.Error())
	}
}

func TestMapError_PassThrough(t *testing.T) {
	orig := errors.New("something else")
	if MapError(orig) != orig {
		t.Fatal("expected unmapped error to pass through")
	}

	cli := NewCLIError("already mapped", "", nil)
	if MapError(cli) != cli {
		t.Fatal("expected CLIError to pass through")
	}
}
