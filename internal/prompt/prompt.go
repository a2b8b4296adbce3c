// Package prompt asks the user questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Prompter is the synchronous question contract the wizard depends on.
type Prompter interface {
	// YesNo asks a yes/no question.
	YesNo(question string) (bool, error)

	// Text asks for free text; an empty answer yields def.
	Text(question, def string) (string, error)
}

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input")

// Console reads answers from In and writes prompts to Out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console over r and w. Nil values default to stdin/stdout.
func NewConsole(r io.Reader, w io.Writer) *Console {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &Console{in: bufio.NewReader(r), out: w}
}

func (c *Console) ask(question string) (string, error) {
	_, _ = fmt.Fprintf(c.out, ">> %s", question)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		_, _ = fmt.Fprintln(c.out)
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) YesNo(question string) (bool, error) {
	for {
		answer, err := c.ask(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		_, _ = fmt.Fprintln(c.out, "Invalid input. Please enter 'y' for yes or 'n' for no.")
	}
}

func (c *Console) Text(question, def string) (string, error) {
	q := question
	if def != "" {
		q = fmt.Sprintf("%s [%s]", question, color.New(color.Faint).Sprint(def))
	}
	answer, err := c.ask(q + ": ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
