// Package unity locates installed Unity Editors and drives them from the
// command line.
package unity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"unityquick/internal/process"
)

// DefaultInstallPath is where Unity Hub installs editors on this OS.
func DefaultInstallPath() string {
	return defaultInstallPath(runtime.GOOS)
}

func defaultInstallPath(goos string) string {
	switch goos {
	case "windows":
		return `C:\Program Files\Unity\Hub\Editor`
	case "darwin":
		return "/Applications/Unity/Hub/Editor"
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("Unity", "Hub", "Editor")
		}
		return filepath.Join(home, "Unity", "Hub", "Editor")
	}
}

// EditorPath returns the editor executable for version under installPath.
func EditorPath(installPath, version string) string {
	return editorPath(runtime.GOOS, installPath, version)
}

func editorPath(goos, installPath, version string) string {
	switch goos {
	case "windows":
		return filepath.Join(installPath, version, "Editor", "Unity.exe")
	case "darwin":
		return filepath.Join(installPath, version, "Unity.app", "Contents", "MacOS", "Unity")
	default:
		return filepath.Join(installPath, version, "Editor", "Unity")
	}
}

// InstalledVersions lists the version directories under installPath, sorted.
// An unreadable or missing installPath yields nil.
func InstalledVersions(installPath string) []string {
	entries, err := os.ReadDir(installPath)
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Strings(versions)
	return versions
}

// HasVersion reports whether installPath contains a version directory.
func HasVersion(installPath, version string) bool {
	if version == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(installPath, version))
	return err == nil && info.IsDir()
}

// Editor is one installed Unity Editor version.
type Editor struct {
	runner  process.Executor
	Version string
	Path    string
}

// NewEditor returns the editor for version under installPath.
func NewEditor(runner process.Executor, installPath, version string) *Editor {
	return &Editor{runner: runner, Version: version, Path: EditorPath(installPath, version)}
}

// CreateProject scaffolds a new project at projectPath in batch mode.
func (e *Editor) CreateProject(ctx context.Context, projectPath string) error {
	spec := process.Command(e.Path, "-batchmode", "-quit", "-createProject", projectPath)
	return e.run(ctx, spec, "Creating Unity project")
}

// OpenProject launches the editor on projectPath and waits for it to exit.
func (e *Editor) OpenProject(ctx context.Context, projectPath string) error {
	spec := process.Command(e.Path, "-projectPath", projectPath)
	return e.run(ctx, spec, "Opening Unity project")
}

func (e *Editor) run(ctx context.Context, spec process.CommandSpec, label string) error {
	res, err := e.runner.Execute(ctx, spec, label)
	if err != nil {
		return fmt.Errorf("unity %s: %w", e.Version, err)
	}
	return res.Err()
}
