package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"unityquick/internal/project"
	"unityquick/internal/settings"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep the CLI
	// flags in internal/cli/root.go in sync.
	Unity   Unity
	Project Project
	Remote  Remote
	Runtime Runtime
}

type Unity struct {
	// InstallPath is the Unity Hub editor directory (see --unity-path).
	// When set it is also persisted as the new default.
	InstallPath string

	// Version is the editor version directory to use (see --unity-version).
	Version string

	// SkipOpen never offers to open the project after creation (see --skip-open).
	SkipOpen bool
}

type Project struct {
	// Path is the project root (see --project-path). Empty means prompt.
	Path string

	// Name is the project and repository name (see --project-name). Empty means prompt.
	Name string
}

type Remote struct {
	// SkipVerify disables the GitHub API lookup after create/link (see --skip-verify).
	SkipVerify bool
}

type Runtime struct {
	// SettingsFile overrides where user settings are stored (see --settings).
	SettingsFile string

	// Clear resets saved settings before the wizard runs (see --clear).
	Clear bool

	// NoColor disables coloured output (see --no-color).
	NoColor bool

	// Verbose enables diagnostic output on stderr (see --verbose).
	Verbose bool
}

func New() *Config {
	return &Config{}
}

func (c *Config) Validate() error {
	if raw := strings.TrimSpace(c.Runtime.SettingsFile); strings.HasSuffix(raw, "/") || strings.HasSuffix(raw, `\`) {
		return errors.New("--settings must be a file path, not a directory")
	}

	c.Unity.InstallPath = CleanPath(c.Unity.InstallPath)
	c.Unity.Version = strings.TrimSpace(c.Unity.Version)
	c.Project.Path = CleanPath(c.Project.Path)
	c.Project.Name = strings.TrimSpace(c.Project.Name)
	c.Runtime.SettingsFile = CleanPath(c.Runtime.SettingsFile)

	if strings.ContainsAny(c.Unity.Version, `/\`) {
		return fmt.Errorf("invalid --unity-version %q: must be a version directory name", c.Unity.Version)
	}
	if c.Project.Name != "" {
		if err := project.ValidateName(c.Project.Name); err != nil {
			return fmt.Errorf("invalid --project-name: %w", err)
		}
	}
	return nil
}

// ValidateSettingsKey rejects keys the settings store does not know.
func ValidateSettingsKey(key string) error {
	if !settings.IsKnownKey(key) {
		return fmt.Errorf("unknown settings key %q (must be one of: %s)", key, strings.Join(settings.Keys, ", "))
	}
	return nil
}

// CleanPath trims raw and cleans it; empty stays empty.
func CleanPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return filepath.Clean(raw)
}
