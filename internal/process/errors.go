package process

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInstalled indicates the executable could not be found on PATH.
var ErrNotInstalled = errors.New("executable not found")

// LaunchError reports that a command could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CommandFailure reports that a command ran and exited non-zero.
type CommandFailure struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandFailure) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return msg
}

// IsLaunchError reports whether err is, or wraps, a LaunchError.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}
