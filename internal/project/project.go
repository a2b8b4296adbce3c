// Package project holds the identity of the project being provisioned.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Project is the name and root directory of the project being set up.
type Project struct {
	Name string
	Path string
}

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateName rejects names that cannot be used as a directory and a GitHub
// repository name at the same time.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return errors.New("project name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("invalid project name %q", name)
	case !validName.MatchString(name):
		return fmt.Errorf("invalid project name %q: use letters, digits, '.', '-' or '_'", name)
	}
	return nil
}

// ResolvePath turns user input into an absolute, cleaned path. Empty input
// resolves to cwd; relative input is taken relative to cwd.
func ResolvePath(input, cwd string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		input = cwd
	}
	if strings.HasPrefix(input, "~"+string(filepath.Separator)) || input == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	if !filepath.IsAbs(input) {
		input = filepath.Join(cwd, input)
	}
	return filepath.Clean(input), nil
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}
