package blinds

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// writeScript drops an executable shell script standing in for the
// shortcuts tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "shortcuts")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestActuator(t *testing.T, command string) *ShortcutActuator {
	a := NewShortcutActuator("Reduce Glare", DefaultSteps, zaptest.NewLogger(t).Sugar())
	a.Command = command
	return a
}

func TestInvokeUnknownStep(t *testing.T) {
	a := newTestActuator(t, "does-not-matter")

	ok, msg := a.Invoke(context.Background(), "blackout", false)
	require.False(t, ok)
	require.Equal(t, "Unknown step: blackout", msg)

	// Validation happens before the dry-run short circuit.
	ok, msg = a.Invoke(context.Background(), "blackout", true)
	require.False(t, ok)
	require.Equal(t, "Unknown step: blackout", msg)
}

func TestInvokeDryRun(t *testing.T) {
	a := newTestActuator(t, "")

	ok, msg := a.Invoke(context.Background(), "moderate", true)
	require.True(t, ok)
	require.Equal(t, `[DRY RUN] Would run: shortcuts run "Reduce Glare" with input "moderate"`, msg)
}

func TestInvokeSuccessPassesStepOnStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stdin.txt")
	script := writeScript(t, `cat > "`+out+`"
[ "$1" = "run" ] && [ "$2" = "Reduce Glare" ]`)

	a := newTestActuator(t, script)
	ok, msg := a.Invoke(context.Background(), "high", false)
	require.True(t, ok, msg)
	require.Equal(t, "Ran 'Reduce Glare' with level 'high'", msg)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "high", string(got))
}

func TestInvokeFailureReportsStderr(t *testing.T) {
	script := writeScript(t, `echo "shortcut not found in library" >&2
exit 1`)

	ok, msg := newTestActuator(t, script).Invoke(context.Background(), "low", false)
	require.False(t, ok)
	require.Equal(t, "Shortcut failed: shortcut not found in library", msg)
}

func TestInvokeFailureWithoutStderr(t *testing.T) {
	script := writeScript(t, "exit 3")

	ok, msg := newTestActuator(t, script).Invoke(context.Background(), "low", false)
	require.False(t, ok)
	require.Equal(t, "Shortcut failed: unknown error", msg)
}

func TestInvokeTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5")

	a := newTestActuator(t, script)
	a.Timeout = 100 * time.Millisecond

	start := time.Now()
	ok, msg := a.Invoke(context.Background(), "none", false)
	require.False(t, ok)
	require.Equal(t, "Shortcut timed out", msg)
	require.Less(t, time.Since(start), 4*time.Second)
}

func TestInvokeCommandNotFound(t *testing.T) {
	a := newTestActuator(t, "glarecontrol-no-such-shortcuts-binary")

	ok, msg := a.Invoke(context.Background(), "severe", false)
	require.False(t, ok)
	require.Equal(t, "glarecontrol-no-such-shortcuts-binary command not found", msg)
}
