// Package worker provides the review backends that run outside the client process.
package worker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
)

// ErrNoCommand is returned when the exec backend has nothing to run.
var ErrNoCommand = errors.New("worker command is not configured")

// ExecBackend runs a worker process per review: `<command...> <filePath> <apiKey> <modelName>`.
// Stdout is the result payload; stderr is diagnostic output.
type ExecBackend struct {
	command []string
	dir     string
	logger  *slog.Logger
}

// NewExecBackend creates a backend for command. A nil logger uses slog.Default().
func NewExecBackend(command []string, dir string, logger *slog.Logger) (*ExecBackend, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, ErrNoCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecBackend{
		command: append([]string(nil), command...),
		dir:     dir,
		logger:  logger,
	}, nil
}

// Review implements review.Backend.
func (b *ExecBackend) Review(ctx context.Context, req review.Request) (string, error) {
	args := append(append([]string(nil), b.command[1:]...), req.FilePath, req.APIKey, req.ModelName)

	// #nosec G204 -- the command comes from local configuration
	cmd := exec.CommandContext(ctx, b.command[0], args...)
	cmd.Dir = b.dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", &review.BackendError{Reason: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return "", &review.BackendError{Reason: err.Error()}
	}

	// The API key is an argument, so only the file is logged.
	log := b.logger.With("worker", b.command[0], "file", req.FilePath)
	log.Debug("worker started", "model", req.ModelName)

	var stderr []string
	scanner := bufio.NewScanner(stderrPipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		stderr = append(stderr, line)
		log.Info("worker stderr", "line", line)
	}
	if err := scanner.Err(); err != nil {
		// The worker must not block on a full pipe, so the rest is discarded.
		log.Warn("worker stderr unreadable", "error", err)
		_, _ = io.Copy(io.Discard, stderrPipe)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			log.Warn("worker failed", "exit_code", exitErr.ExitCode())
			return "", &review.BackendError{
				Reason: "Worker script failed: " + strings.TrimSpace(strings.Join(stderr, "\n")),
			}
		}
		return "", &review.BackendError{Reason: waitErr.Error()}
	}

	log.Debug("worker finished", "bytes", stdout.Len())
	return stdout.String(), nil
}

// String describes the backend for diagnostics.
func (b *ExecBackend) String() string {
	return fmt.Sprintf("exec(%s)", strings.Join(b.command, " "))
}
