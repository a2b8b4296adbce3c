// Package process runs external tools (git, gh, the Unity Editor) to
// completion and classifies the outcome from the exit code and captured
// streams.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"unityquick/internal/progress"

	"github.com/google/uuid"
)

// Executor is the contract consumers depend on; *Runner is the real one.
type Executor interface {
	Execute(ctx context.Context, spec CommandSpec, label string) (Result, error)
}

// Runner executes one command per call. It holds no state between calls.
type Runner struct {
	// Indicator is shown while a non-interactive command runs. Nil disables it.
	Indicator *progress.Indicator

	// Log receives "[verbose]" lines. Nil disables logging.
	Log io.Writer
}

// NewRunner returns a Runner with the given indicator and verbose log writer.
func NewRunner(indicator *progress.Indicator, log io.Writer) *Runner {
	return &Runner{Indicator: indicator, Log: log}
}

// Execute starts spec, shows the progress indicator labelled label until the
// process exits, and returns its Result. If the process cannot be started a
// *LaunchError is returned instead and the Result is zero.
func (r *Runner) Execute(ctx context.Context, spec CommandSpec, label string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(spec.Executable) == "" {
		return Result{}, &LaunchError{Command: spec.String(), Err: errors.New("empty executable")}
	}

	runID := uuid.New().String()
	line := spec.String()

	if spec.Dir != "" {
		if info, err := os.Stat(spec.Dir); err != nil {
			return Result{}, &LaunchError{Command: line, Err: fmt.Errorf("working directory: %w", err)}
		} else if !info.IsDir() {
			return Result{}, &LaunchError{Command: line, Err: fmt.Errorf("working directory %s is not a directory", spec.Dir)}
		}
	}

	cmd := exec.CommandContext(ctx, spec.Executable, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = commandEnv(spec.Interactive)

	var stdout, stderr bytes.Buffer
	if spec.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	r.logf("exec %s: %s (dir=%q)", runID, line, spec.Dir)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		r.logf("exec %s: start failed: %v", runID, err)
		return Result{}, &LaunchError{Command: line, Err: classifyStartError(err)}
	}

	var spinner *progress.Handle
	if !spec.Interactive {
		spinner = r.Indicator.Start(ctx, label)
	}
	waitErr := cmd.Wait()
	spinner.Stop()

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(waitErr, &exitErr):
			exitCode = exitErr.ExitCode()
		case cmd.ProcessState != nil:
			exitCode = cmd.ProcessState.ExitCode()
		default:
			r.logf("exec %s: wait failed: %v", runID, waitErr)
			return Result{}, &LaunchError{Command: line, Err: waitErr}
		}
	}

	r.logf("exec %s: exit %d after %s", runID, exitCode, time.Since(start).Truncate(time.Millisecond))

	return Result{
		RunID:    runID,
		Command:  line,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log == nil {
		return
	}
	_, _ = fmt.Fprintf(r.Log, "[verbose] "+format+"\n", args...)
}

func classifyStartError(err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotInstalled, err)
	}
	return err
}

// commandEnv pins GH_PAGER so gh never blocks on a pager while its output is
// captured.
func commandEnv(interactive bool) []string {
	env := os.Environ()
	if interactive {
		return env
	}
	filtered := env[:0:0]
	for _, entry := range env {
		if strings.HasPrefix(entry, "GH_PAGER=") {
			continue
		}
		filtered = append(filtered, entry)
	}
	return append(filtered, "GH_PAGER=cat")
}
