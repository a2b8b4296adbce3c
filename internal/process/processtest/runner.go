// Package processtest provides a scripted process.Executor for tests that must
// not depend on real git, gh or Unity binaries.
package processtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"unityquick/internal/process"
)

// Response is one scripted outcome for a command line.
type Response struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	LaunchErr error
}

// Ok is a zero-exit response with the given stdout.
func Ok(stdout string) Response {
	return Response{Stdout: stdout}
}

// Fail is a non-zero exit response with the given stderr.
func Fail(code int, stderr string) Response {
	return Response{ExitCode: code, Stderr: stderr}
}

// NotInstalled is a launch failure for a missing executable.
func NotInstalled() Response {
	return Response{LaunchErr: fmt.Errorf("%w: scripted", process.ErrNotInstalled)}
}

// Call records one Execute invocation.
type Call struct {
	Spec  process.CommandSpec
	Label string
}

// Runner replays scripted responses keyed by CommandSpec.String(). Responses
// for a key are consumed in order; the last one repeats.
type Runner struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []Call
}

// NewRunner returns an empty scripted runner.
func NewRunner() *Runner {
	return &Runner{responses: make(map[string][]Response)}
}

// On scripts the responses for a command line such as "gh auth status".
func (r *Runner) On(commandLine string, responses ...Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[commandLine] = append(r.responses[commandLine], responses...)
	return r
}

// ErrUnscripted is returned (as a launch error) for commands with no script.
var ErrUnscripted = errors.New("unscripted command")

func (r *Runner) Execute(ctx context.Context, spec process.CommandSpec, label string) (process.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := spec.String()
	r.calls = append(r.calls, Call{Spec: spec, Label: label})

	queue := r.responses[line]
	if len(queue) == 0 {
		return process.Result{}, &process.LaunchError{Command: line, Err: ErrUnscripted}
	}
	resp := queue[0]
	if len(queue) > 1 {
		r.responses[line] = queue[1:]
	}

	if resp.LaunchErr != nil {
		return process.Result{}, &process.LaunchError{Command: line, Err: resp.LaunchErr}
	}
	return process.Result{
		RunID:    fmt.Sprintf("scripted-%d", len(r.calls)),
		Command:  line,
		ExitCode: resp.ExitCode,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
	}, nil
}

// Calls returns every recorded invocation in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CommandLines returns the rendered command line of every call in order.
func (r *Runner) CommandLines() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Spec.String())
	}
	return out
}

// Count returns how many times commandLine was executed.
func (r *Runner) Count(commandLine string) int {
	n := 0
	for _, line := range r.CommandLines() {
		if line == commandLine {
			n++
		}
	}
	return n
}
