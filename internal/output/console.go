package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const Tick = "✓"

type Console struct {
	out     io.Writer
	err     io.Writer
	verbose bool
	mu      sync.Mutex

	success *color.Color
	failure *color.Color
	warning *color.Color
	info    *color.Color
	hint    *color.Color
	section *color.Color
}

// NewConsole writes user-facing lines to out and verbose diagnostics to errw.
// Nil writers default to stdout/stderr.
func NewConsole(out, errw io.Writer, verbose bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &Console{
		out:     out,
		err:     errw,
		verbose: verbose,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
		hint:    color.New(color.FgHiCyan),
		section: color.New(color.FgMagenta, color.Bold),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Out is the user-facing writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// Verbose reports whether diagnostics are enabled.
func (c *Console) Verbose() bool {
	return c.verbose
}

// VerboseWriter returns the diagnostic writer, or nil when verbose is off.
func (c *Console) VerboseWriter() io.Writer {
	if !c.verbose {
		return nil
	}
	return c.err
}

func (c *Console) line(col *color.Color, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = col.Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Success prints a green line ending in a tick, followed by a blank line.
func (c *Console) Success(format string, args ...any) {
	c.line(c.success, "%s %s\n", fmt.Sprintf(format, args...), Tick)
}

func (c *Console) Error(format string, args ...any) {
	c.line(c.failure, "%s\n", fmt.Sprintf(format, args...))
}

func (c *Console) Warning(format string, args ...any) {
	c.line(c.warning, format, args...)
}

func (c *Console) Info(format string, args ...any) {
	c.line(c.info, format, args...)
}

// Hint prints a bracketed hint such as "[Press enter to use ...]".
func (c *Console) Hint(format string, args ...any) {
	c.line(c.hint, "[%s]", fmt.Sprintf(format, args...))
}

func (c *Console) Section(title string) {
	c.line(c.section, "=== %s ===", title)
}

// Verbosef writes a "[verbose]" diagnostic line when verbose is enabled.
func (c *Console) Verbosef(format string, args ...any) {
	if !c.verbose {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.err, "[verbose] "+format+"\n", args...)
}
