// Package wizard walks the user through provisioning a Unity project: editor
// selection, project location, local git repository, GitHub remote and the
// Unity project itself.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"unityquick/internal/config"
	"unityquick/internal/gitrepo"
	gh "unityquick/internal/github"
	"unityquick/internal/output"
	"unityquick/internal/process"
	"unityquick/internal/project"
	"unityquick/internal/prompt"
	"unityquick/internal/repolink"
	"unityquick/internal/settings"
	"unityquick/internal/unity"

	"github.com/google/uuid"
)

// RemoteVerifier looks up a remote repository after it was created or linked.
type RemoteVerifier interface {
	DescribeRepository(ctx context.Context, owner, name string) (gh.RepoSummary, error)
}

// Deps are the collaborators of a Wizard.
type Deps struct {
	Runner   process.Executor
	Prompt   prompt.Prompter
	Settings settings.Store
	Console  *output.Console

	// NewVerifier builds the remote verifier on demand. Nil disables verification.
	NewVerifier func(ctx context.Context) (RemoteVerifier, error)

	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)
}

type Wizard struct {
	cfg  *config.Config
	deps Deps
	out  *output.Console
	ask  prompt.Prompter
}

func New(cfg *config.Config, deps Deps) *Wizard {
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	return &Wizard{cfg: cfg, deps: deps, out: deps.Console, ask: deps.Prompt}
}

// Summary describes what a run produced.
type Summary struct {
	FlowID        string
	Project       project.Project
	UnityVersion  string
	LocalRepo     bool
	Gitignore     bool
	Remote        repolink.Outcome
	UnityCreated  bool
	ProjectOpened bool
}

// Run executes the wizard once. It returns an error when a prompt could not
// be answered or the Unity project could not be created; optional steps that
// fail are reported and skipped.
func (w *Wizard) Run(ctx context.Context) (Summary, error) {
	sum := Summary{FlowID: uuid.New().String()}
	w.out.Section("Unity Quick Start")
	w.out.Verbosef("flow %s started", sum.FlowID)

	installPath, err := w.resolveInstallPath()
	if err != nil {
		return sum, err
	}
	version, err := w.resolveVersion(installPath)
	if err != nil {
		return sum, err
	}
	sum.UnityVersion = version

	cwd, err := w.deps.Getwd()
	if err != nil {
		return sum, fmt.Errorf("resolve working directory: %w", err)
	}
	projectPath, err := w.resolveProjectPath(cwd)
	if err != nil {
		return sum, err
	}
	proj, err := w.resolveProjectName(projectPath)
	if err != nil {
		return sum, err
	}
	sum.Project = proj

	repo := gitrepo.New(w.deps.Runner, proj.Path)
	sum.LocalRepo, err = w.createLocalRepo(ctx, repo)
	if err != nil {
		return sum, err
	}
	if sum.LocalRepo {
		if sum.Gitignore, err = w.createGitignore(repo); err != nil {
			return sum, err
		}

		planner := repolink.New(w.deps.Runner, w.ask, w.deps.Settings, w.out)
		sum.Remote, err = planner.Run(ctx, proj)
		if err != nil {
			w.out.Verbosef("flow %s: remote repo: %v", sum.FlowID, err)
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
		}
		if sum.Remote.OK() && !w.cfg.Remote.SkipVerify {
			w.verifyRemote(ctx, sum.Remote.Owner, proj.Name)
		}
	}

	editor := unity.NewEditor(w.deps.Runner, installPath, version)
	if err := editor.CreateProject(ctx, proj.Path); err != nil {
		w.out.Error("Unity project creation failed: %v", err)
		return sum, fmt.Errorf("create unity project: %w", err)
	}
	sum.UnityCreated = true
	w.out.Success("Ok Unity %s project created at %s", version, proj.Path)

	if sum.ProjectOpened, err = w.openProject(ctx, editor, proj.Path); err != nil {
		return sum, err
	}

	w.out.Success("Complete")
	w.out.Verbosef("flow %s finished", sum.FlowID)
	return sum, nil
}

func (w *Wizard) resolveInstallPath() (string, error) {
	store := w.deps.Settings
	path := w.cfg.Unity.InstallPath
	fromFlag := path != ""
	if path == "" {
		path = store.Get(settings.KeyUnityInstallPath)
	}
	if path == "" {
		path = unity.DefaultInstallPath()
	}

	for !project.DirExists(path) {
		w.out.Error("Unity install path not found: %s", path)
		answer, err := w.ask.Text("Enter the Unity install path", "")
		if err != nil {
			return "", err
		}
		if answer != "" {
			path = filepath.Clean(answer)
			fromFlag = true
		}
	}

	if fromFlag || store.Get(settings.KeyUnityInstallPath) != path {
		if err := store.Set(settings.KeyUnityInstallPath, path); err != nil {
			w.out.Warning("Could not save Unity install path: %v", err)
		}
	}
	w.out.Success("Ok Unity install path set: %s", path)
	return path, nil
}

func (w *Wizard) resolveVersion(installPath string) (string, error) {
	store := w.deps.Settings

	if v := w.cfg.Unity.Version; v != "" {
		if !unity.HasVersion(installPath, v) {
			return "", fmt.Errorf("unity version %s is not installed under %s", v, installPath)
		}
		return w.saveVersion(v), nil
	}

	versions := unity.InstalledVersions(installPath)
	if len(versions) == 0 {
		return "", fmt.Errorf("no Unity versions found under %s", installPath)
	}

	def := store.Get(settings.KeyUnityVersion)
	if !unity.HasVersion(installPath, def) {
		def = versions[len(versions)-1]
	}
	w.out.Hint("Installed versions: %s", strings.Join(versions, ", "))
	for {
		v, err := w.ask.Text("Enter the Unity version", def)
		if err != nil {
			return "", err
		}
		if unity.HasVersion(installPath, v) {
			return w.saveVersion(v), nil
		}
		w.out.Error("Unity version %s is not installed", v)
	}
}

func (w *Wizard) saveVersion(v string) string {
	if err := w.deps.Settings.Set(settings.KeyUnityVersion, v); err != nil {
		w.out.Warning("Could not save Unity version: %v", err)
	}
	w.out.Success("Ok Unity version set: %s", v)
	return v
}

func (w *Wizard) resolveProjectPath(cwd string) (string, error) {
	input := w.cfg.Project.Path
	asked := false
	for {
		if input == "" && !asked {
			w.out.Hint("Press enter to use current directory: %s", cwd)
			answer, err := w.ask.Text("Enter the project path", "")
			if err != nil {
				return "", err
			}
			input = answer
			asked = true
		}

		path, err := project.ResolvePath(input, cwd)
		if err != nil {
			return "", err
		}
		if project.DirExists(path) {
			w.out.Success("Ok project path set: %s", path)
			return path, nil
		}

		w.out.Error("Invalid path: %s", path)
		create, err := w.ask.YesNo(fmt.Sprintf("Would you like to create the path: %s?", path))
		if err != nil {
			return "", err
		}
		if create {
			if err := project.EnsureDir(path); err != nil {
				w.out.Error("%v", err)
			} else {
				w.out.Success("Ok project path set: %s", path)
				return path, nil
			}
		}
		input, asked = "", false
	}
}

func (w *Wizard) resolveProjectName(path string) (project.Project, error) {
	dirName := filepath.Base(path)
	name := w.cfg.Project.Name

	for name == "" {
		w.out.Hint("Press enter to use current directory name: %s", dirName)
		answer, err := w.ask.Text("Enter the project name", "")
		if err != nil {
			return project.Project{}, err
		}
		if answer == "" {
			answer = dirName
		}
		if err := project.ValidateName(answer); err != nil {
			w.out.Error("%v", err)
			continue
		}
		name = answer
	}

	if name != dirName {
		sub, err := w.ask.YesNo(fmt.Sprintf("Would you like to create a %s sub directory as your project root?", name))
		if err != nil {
			return project.Project{}, err
		}
		if sub {
			subPath := filepath.Join(path, name)
			if err := project.EnsureDir(subPath); err != nil {
				w.out.Error("%v", err)
			} else {
				path = subPath
				w.out.Success("Ok project path updated to: %s", path)
			}
		}
	}

	w.out.Success("Ok project name set: %s", name)
	return project.Project{Name: name, Path: path}, nil
}

func (w *Wizard) createLocalRepo(ctx context.Context, repo *gitrepo.Repo) (bool, error) {
	yes, err := w.ask.YesNo("Would you like to create a local git repo?")
	if err != nil {
		return false, err
	}
	if !yes {
		w.out.Success("Ok skipping local repo")
		return false, nil
	}
	if repo.Exists() {
		w.out.Success("Ok using existing local repo in %s", repo.Dir)
		return true, nil
	}
	if err := repo.Init(ctx); err != nil {
		if errors.Is(err, process.ErrNotInstalled) {
			w.out.Error("Repo creation failed: git is not installed or not on PATH")
		} else {
			w.out.Error("Repo creation failed: %v", err)
		}
		return false, nil
	}
	w.out.Success("Ok local repo created in %s", repo.Dir)
	return true, nil
}

func (w *Wizard) createGitignore(repo *gitrepo.Repo) (bool, error) {
	yes, err := w.ask.YesNo("Would you like to include a Unity gitignore?")
	if err != nil {
		return false, err
	}
	if !yes {
		w.out.Success("Ok skipping gitignore")
		return false, nil
	}
	path, err := repo.WriteGitignore(false)
	if errors.Is(err, gitrepo.ErrGitignoreExists) {
		w.out.Warning("A .gitignore already exists at %s; leaving it unchanged", path)
		return false, nil
	}
	if err != nil {
		w.out.Error("Writing gitignore failed: %v", err)
		return false, nil
	}
	w.out.Success("Ok gitignore added at %s", path)
	return true, nil
}

func (w *Wizard) verifyRemote(ctx context.Context, owner, name string) {
	if w.deps.NewVerifier == nil {
		return
	}
	v, err := w.deps.NewVerifier(ctx)
	if err != nil {
		w.out.Warning("Could not verify GitHub repo: %v", err)
		return
	}
	s, err := v.DescribeRepository(ctx, owner, name)
	if err != nil {
		w.out.Warning("Could not verify GitHub repo: %v", err)
		return
	}
	w.out.Info("Remote %s is %s (default branch: %s) at %s", s.FullName, s.Visibility, s.DefaultBranch, s.HTMLURL)
}

func (w *Wizard) openProject(ctx context.Context, editor *unity.Editor, path string) (bool, error) {
	if w.cfg.Unity.SkipOpen {
		return false, nil
	}
	yes, err := w.ask.YesNo(fmt.Sprintf("Would you like to open the Unity project at %s?", path))
	if err != nil {
		return false, err
	}
	if !yes {
		w.out.Success("Ok skip opening the project")
		return false, nil
	}
	if err := editor.OpenProject(ctx, path); err != nil {
		w.out.Error("Opening Unity project at %s failed: %v", path, err)
		return false, nil
	}
	w.out.Success("Ok Unity %s project opened at %s", editor.Version, path)
	return true, nil
}
