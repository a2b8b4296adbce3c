package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"unityquick/internal/config"
	"unityquick/internal/settings"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	// internal/cli -> repo root
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func goExe() string {
	if runtime.GOOS == "windows" {
		return "go.exe"
	}
	return "go"
}

func buildBinary(t *testing.T) string {
	t.Helper()

	outPath := filepath.Join(t.TempDir(), "unityquick-test")
	if runtime.GOOS == "windows" {
		outPath += ".exe"
	}

	cmd := exec.Command(goExe(), "build", "-o", outPath, "./cmd/unityquick")
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build unityquick binary: %v; output=%s", err, string(out))
	}

	return outPath
}

func TestRoot_ExitCode3_WhenSettingsPathIsDirectory(t *testing.T) {
	binary := buildBinary(t)
	cmd := exec.Command(binary, "--settings", t.TempDir()+"/")

	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v; output=%s", err, err, string(out))
	}
	if code := exitErr.ProcessState.ExitCode(); code != exitInvalidConfig {
		t.Fatalf("expected exit code 3, got %d; output=%s", code, string(out))
	}
	if !strings.Contains(string(out), "--settings must be a file path") {
		t.Fatalf("expected validation message; output=%s", string(out))
	}
}

func TestRoot_ExitCode1_WhenInputEnds(t *testing.T) {
	binary := buildBinary(t)
	tmp := t.TempDir()
	install := filepath.Join(tmp, "Editor")
	if err := os.MkdirAll(filepath.Join(install, "2022.3.10f1"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	cmd := exec.Command(binary,
		"--settings", filepath.Join(tmp, "settings.yaml"),
		"--unity-path", install,
		"--unity-version", "2022.3.10f1",
		"--project-path", tmp,
	)
	cmd.Stdin = strings.NewReader("")

	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v; output=%s", err, err, string(out))
	}
	if code := exitErr.ProcessState.ExitCode(); code != exitFailed {
		t.Fatalf("expected exit code 1, got %d; output=%s", code, string(out))
	}
}

type wizardEnv struct {
	cfg      *config.Config
	settings string
	project  string
}

func newWizardEnv(t *testing.T) wizardEnv {
	t.Helper()
	tmp := t.TempDir()
	install := filepath.Join(tmp, "Editor")
	if err := os.MkdirAll(filepath.Join(install, "2022.3.10f1"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	project := filepath.Join(tmp, "arena")
	if err := os.Mkdir(project, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	c := config.New()
	c.Runtime.SettingsFile = filepath.Join(tmp, "settings.yaml")
	c.Runtime.NoColor = true
	c.Unity.InstallPath = install
	c.Unity.Version = "2022.3.10f1"
	c.Project.Path = project
	return wizardEnv{cfg: c, settings: c.Runtime.SettingsFile, project: project}
}

func TestRunWizard_InvalidConfig(t *testing.T) {
	c := config.New()
	c.Project.Name = "not valid"

	var out, errw bytes.Buffer
	code := runWizard(context.Background(), c, strings.NewReader(""), &out, &errw)
	if code != exitInvalidConfig {
		t.Fatalf("code = %d, want %d", code, exitInvalidConfig)
	}
	if !strings.Contains(errw.String(), "invalid --project-name") {
		t.Fatalf("stderr = %q", errw.String())
	}
}

func TestRunWizard_InputEndsBeforeFinish(t *testing.T) {
	env := newWizardEnv(t)

	var out, errw bytes.Buffer
	code := runWizard(context.Background(), env.cfg, strings.NewReader(""), &out, &errw)
	if code != exitFailed {
		t.Fatalf("code = %d, want %d", code, exitFailed)
	}
	if !strings.Contains(out.String(), "Input ended") {
		t.Fatalf("stdout = %q", out.String())
	}

	store, err := settings.Open(env.settings)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := store.Get(settings.KeyUnityVersion); got != "2022.3.10f1" {
		t.Fatalf("version not persisted, got %q", got)
	}
}

func TestRunWizard_ClearRemovesSavedOrganization(t *testing.T) {
	env := newWizardEnv(t)
	env.cfg.Runtime.Clear = true

	store, err := settings.Open(env.settings)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set(settings.KeyGitHubOrganization, "acme"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out, errw bytes.Buffer
	_ = runWizard(context.Background(), env.cfg, strings.NewReader(""), &out, &errw)
	if !strings.Contains(out.String(), "Ok settings cleared") {
		t.Fatalf("stdout = %q", out.String())
	}

	reloaded, err := settings.Open(env.settings)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := reloaded.Get(settings.KeyGitHubOrganization); got != "" {
		t.Fatalf("organization survived --clear: %q", got)
	}
}
