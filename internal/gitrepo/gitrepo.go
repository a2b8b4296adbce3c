// Package gitrepo prepares the project's local git repository.
package gitrepo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"unityquick/internal/process"
)

//go:embed unity.gitignore
var unityGitignore []byte

// ErrGitignoreExists is returned by WriteGitignore when a .gitignore is
// already present and overwrite was not requested.
var ErrGitignoreExists = errors.New(".gitignore already exists")

// Repo is the local repository rooted at Dir.
type Repo struct {
	runner process.Executor
	Dir    string
}

func New(runner process.Executor, dir string) *Repo {
	return &Repo{runner: runner, Dir: dir}
}

// Exists reports whether Dir already contains a .git entry.
func (r *Repo) Exists() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init runs `git init` in Dir. A non-zero exit is returned as a
// *process.CommandFailure, a start failure as a *process.LaunchError.
func (r *Repo) Init(ctx context.Context) error {
	spec := process.Command("git", "init").In(r.Dir)
	res, err := r.runner.Execute(ctx, spec, "Creating local repo")
	if err != nil {
		return err
	}
	return res.Err()
}

// GitignorePath is where WriteGitignore writes.
func (r *Repo) GitignorePath() string {
	return filepath.Join(r.Dir, ".gitignore")
}

// WriteGitignore writes the Unity .gitignore template into Dir.
func (r *Repo) WriteGitignore(overwrite bool) (string, error) {
	path := r.GitignorePath()
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, ErrGitignoreExists
		}
	}
	if err := os.WriteFile(path, unityGitignore, 0o644); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// GitignoreTemplate returns a copy of the embedded template.
func GitignoreTemplate() []byte {
	return append([]byte(nil), unityGitignore...)
}
