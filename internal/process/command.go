package process

import (
	"strings"
)

// CommandSpec describes one external command invocation.
type CommandSpec struct {
	// Executable is a name resolved via PATH or an absolute path.
	Executable string

	// Args are passed to the process as-is; nothing is shell-expanded.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Interactive commands inherit stdin/stdout/stderr and run without
	// the progress indicator (e.g. `gh auth login`).
	Interactive bool
}

// Command builds a CommandSpec for executable with args.
func Command(executable string, args ...string) CommandSpec {
	return CommandSpec{Executable: executable, Args: args}
}

// In returns a copy of c that runs in dir.
func (c CommandSpec) In(dir string) CommandSpec {
	c.Dir = dir
	c.Args = append([]string(nil), c.Args...)
	return c
}

// String renders the command line for labels and logs. Arguments containing
// whitespace are quoted.
func (c CommandSpec) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteIfNeeded(c.Executable))
	for _, a := range c.Args {
		parts = append(parts, quoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Result holds the outcome of a process that ran to exit.
type Result struct {
	RunID    string
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the process exited with code 0.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Output is stdout without its final line terminator.
func (r Result) Output() string {
	return trimFinalNewline(r.Stdout)
}

// Diagnostic is stderr without its final line terminator.
func (r Result) Diagnostic() string {
	return trimFinalNewline(r.Stderr)
}

// Err returns a *CommandFailure for a non-zero exit and nil otherwise.
func (r Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	return &CommandFailure{Command: r.Command, ExitCode: r.ExitCode, Stderr: r.Diagnostic()}
}

func trimFinalNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
