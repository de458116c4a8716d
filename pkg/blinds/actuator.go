package blinds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Actuator moves the blinds to a named step. Failures are reported through
// ok and message; an Actuator never fails the caller.
type Actuator interface {
	Invoke(ctx context.Context, step string, dryRun bool) (ok bool, message string)
}

const (
	// DefaultShortcutCommand is the macOS Shortcuts command-line tool.
	DefaultShortcutCommand = "shortcuts"
	// DefaultShortcutTimeout bounds a single shortcut run.
	DefaultShortcutTimeout = 30 * time.Second
)

// ShortcutActuator runs a macOS Shortcut, passing the step name on stdin.
type ShortcutActuator struct {
	Shortcut string
	Steps    Steps
	Command  string
	Timeout  time.Duration
	Logger   *zap.SugaredLogger
}

// NewShortcutActuator returns an actuator for the named shortcut.
func NewShortcutActuator(shortcut string, steps Steps, logger *zap.SugaredLogger) *ShortcutActuator {
	return &ShortcutActuator{
		Shortcut: shortcut,
		Steps:    steps,
		Command:  DefaultShortcutCommand,
		Timeout:  DefaultShortcutTimeout,
		Logger:   logger,
	}
}

// Invoke implements Actuator.
func (a *ShortcutActuator) Invoke(ctx context.Context, step string, dryRun bool) (bool, string) {
	if !a.Steps.Valid(step) {
		return false, fmt.Sprintf("Unknown step: %s", step)
	}

	command := a.Command
	if command == "" {
		command = DefaultShortcutCommand
	}

	if dryRun {
		return true, fmt.Sprintf("[DRY RUN] Would run: %s run %q with input %q", command, a.Shortcut, step)
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultShortcutTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, "run", a.Shortcut)
	cmd.Stdin = strings.NewReader(step)
	cmd.Stderr = &stderr

	a.logger().Debugf("running %s run %q with input %q", command, a.Shortcut, step)

	err := cmd.Run()
	switch {
	case err == nil:
		return true, fmt.Sprintf("Ran '%s' with level '%s'", a.Shortcut, step)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return false, "Shortcut timed out"
	case errors.Is(err, exec.ErrNotFound):
		return false, fmt.Sprintf("%s command not found", command)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown error"
		}
		return false, fmt.Sprintf("Shortcut failed: %s", msg)
	}
	return false, fmt.Sprintf("Error: %v", err)
}

func (a *ShortcutActuator) logger() *zap.SugaredLogger {
	if a.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return a.Logger
}
