package wizard

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unityquick/internal/config"
	gh "unityquick/internal/github"
	"unityquick/internal/output"
	"unityquick/internal/process"
	"unityquick/internal/process/processtest"
	"unityquick/internal/settings"
	"unityquick/internal/unity"
)

const testVersion = "2022.3.10f1"

// step is one expected prompt: the question must contain match.
type step struct {
	match string
	reply string
}

type scriptedPrompter struct {
	t     *testing.T
	steps []step
	asked []string
}

func (p *scriptedPrompter) next(question string) string {
	p.t.Helper()
	p.asked = append(p.asked, question)
	if len(p.steps) == 0 {
		p.t.Fatalf("unexpected prompt %q", question)
	}
	s := p.steps[0]
	p.steps = p.steps[1:]
	if !strings.Contains(question, s.match) {
		p.t.Fatalf("prompt %q, want one containing %q", question, s.match)
	}
	return s.reply
}

func (p *scriptedPrompter) YesNo(question string) (bool, error) {
	return p.next(question) == "y", nil
}

func (p *scriptedPrompter) Text(question, def string) (string, error) {
	if a := p.next(question); a != "" {
		return a, nil
	}
	return def, nil
}

type fakeVerifier struct {
	owner, name string
	err         error
}

func (v *fakeVerifier) DescribeRepository(_ context.Context, owner, name string) (gh.RepoSummary, error) {
	v.owner, v.name = owner, name
	if v.err != nil {
		return gh.RepoSummary{}, v.err
	}
	return gh.RepoSummary{FullName: owner + "/" + name, Visibility: "private", DefaultBranch: "main"}, nil
}

type fixture struct {
	cfg      *config.Config
	runner   *processtest.Runner
	prompt   *scriptedPrompter
	settings *settings.Memory
	out      *bytes.Buffer
	verifier *fakeVerifier
	install  string
	cwd      string
}

func newFixture(t *testing.T, steps ...step) *fixture {
	t.Helper()
	root := t.TempDir()
	install := filepath.Join(root, "Editor")
	if err := os.MkdirAll(filepath.Join(install, testVersion), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	cwd := filepath.Join(root, "game")
	if err := os.Mkdir(cwd, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	cfg := config.New()
	cfg.Unity.InstallPath = install
	cfg.Unity.Version = testVersion
	cfg.Unity.SkipOpen = true

	return &fixture{
		cfg:      cfg,
		runner:   processtest.NewRunner(),
		prompt:   &scriptedPrompter{t: t, steps: steps},
		settings: settings.NewMemory(nil),
		out:      &bytes.Buffer{},
		verifier: &fakeVerifier{},
		install:  install,
		cwd:      cwd,
	}
}

func (f *fixture) run(t *testing.T) (Summary, error) {
	t.Helper()
	w := New(f.cfg, Deps{
		Runner:   f.runner,
		Prompt:   f.prompt,
		Settings: f.settings,
		Console:  output.NewConsole(f.out, &bytes.Buffer{}, false),
		NewVerifier: func(context.Context) (RemoteVerifier, error) {
			return f.verifier, nil
		},
		Getwd: func() (string, error) { return f.cwd, nil },
	})
	sum, err := w.Run(context.Background())
	if len(f.prompt.steps) != 0 {
		t.Fatalf("prompts not asked: %+v", f.prompt.steps)
	}
	return sum, err
}

func (f *fixture) createCmd(path string) string {
	return process.Command(unity.EditorPath(f.install, testVersion), "-batchmode", "-quit", "-createProject", path).String()
}

func TestRun_LocalRepoWithoutRemote(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "y"},
		step{"gitignore", "y"},
		step{"connect your local repo", "n"},
	)
	f.runner.
		On("git init", processtest.Ok("")).
		On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Project.Name != "game" || sum.Project.Path != f.cwd {
		t.Fatalf("unexpected project: %+v", sum.Project)
	}
	if !sum.LocalRepo || !sum.Gitignore || !sum.UnityCreated || sum.Remote.OK() {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(f.cwd, ".gitignore")); err != nil {
		t.Fatalf("gitignore not written: %v", err)
	}
	for _, c := range f.runner.Calls() {
		if c.Spec.String() == "git init" && c.Spec.Dir != f.cwd {
			t.Fatalf("git init ran in %q", c.Spec.Dir)
		}
	}
	if f.verifier.owner != "" {
		t.Fatal("verifier must not run without a remote")
	}
	if !strings.Contains(f.out.String(), "Complete") {
		t.Fatalf("missing completion line:\n%s", f.out.String())
	}
	if got := f.settings.Get(settings.KeyUnityVersion); got != testVersion {
		t.Fatalf("version not saved, got %q", got)
	}
	if got := f.settings.Get(settings.KeyUnityInstallPath); got != f.install {
		t.Fatalf("install path not saved, got %q", got)
	}
}

func TestRun_SkippingLocalRepoSkipsGitignoreAndRemote(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "n"},
	)
	f.runner.On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.LocalRepo || sum.Gitignore || !sum.UnityCreated {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	for _, line := range f.runner.CommandLines() {
		if strings.HasPrefix(line, "git ") || strings.HasPrefix(line, "gh ") {
			t.Fatalf("unexpected command %q", line)
		}
	}
}

func TestRun_GitInitFailureSkipsRemote(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "y"},
	)
	f.runner.
		On("git init", processtest.NotInstalled()).
		On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.LocalRepo {
		t.Fatal("local repo must be reported as not created")
	}
	if !strings.Contains(f.out.String(), "git is not installed") {
		t.Fatalf("missing install error:\n%s", f.out.String())
	}
}

func TestRun_CreatesRemoteAndVerifiesIt(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "y"},
		step{"gitignore", "n"},
		step{"connect your local repo", "y"},
	)
	f.runner.
		On("git init", processtest.Ok("")).
		On("gh auth status", processtest.Ok("")).
		On("gh api user --jq .login", processtest.Ok("alice\n")).
		On("gh org list", processtest.Ok("")).
		On("gh repo view alice/game", processtest.Fail(1, "not found")).
		On("gh repo create alice/game --private --source "+f.cwd, processtest.Ok("")).
		On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !sum.Remote.OK() || sum.Remote.Owner != "alice" {
		t.Fatalf("unexpected remote outcome: %+v", sum.Remote)
	}
	if f.verifier.owner != "alice" || f.verifier.name != "game" {
		t.Fatalf("verifier called with %q/%q", f.verifier.owner, f.verifier.name)
	}
	if !strings.Contains(f.out.String(), "alice/game is private") {
		t.Fatalf("missing verification line:\n%s", f.out.String())
	}
}

func TestRun_VerificationFailureIsOnlyAWarning(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "y"},
		step{"gitignore", "n"},
		step{"connect your local repo", "y"},
	)
	f.verifier.err = gh.ErrRepositoryNotFound
	f.runner.
		On("git init", processtest.Ok("")).
		On("gh auth status", processtest.Ok("")).
		On("gh api user --jq .login", processtest.Ok("alice")).
		On("gh org list", processtest.Ok("")).
		On("gh repo view alice/game", processtest.Fail(1, "")).
		On("gh repo create alice/game --private --source "+f.cwd, processtest.Ok("")).
		On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !sum.UnityCreated {
		t.Fatal("unity project must still be created")
	}
	if !strings.Contains(f.out.String(), "Could not verify GitHub repo") {
		t.Fatalf("missing warning:\n%s", f.out.String())
	}
}

func TestRun_SkipVerify(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "y"},
		step{"gitignore", "n"},
		step{"connect your local repo", "y"},
	)
	f.cfg.Remote.SkipVerify = true
	f.runner.
		On("git init", processtest.Ok("")).
		On("gh auth status", processtest.Ok("")).
		On("gh api user --jq .login", processtest.Ok("alice")).
		On("gh org list", processtest.Ok("")).
		On("gh repo view alice/game", processtest.Fail(1, "")).
		On("gh repo create alice/game --private --source "+f.cwd, processtest.Ok("")).
		On(f.createCmd(f.cwd), processtest.Ok(""))

	if _, err := f.run(t); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if f.verifier.owner != "" {
		t.Fatal("verifier must not run with SkipVerify")
	}
}

func TestRun_UnityFailureIsAnError(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "n"},
	)
	f.cfg.Unity.SkipOpen = false
	f.runner.On(f.createCmd(f.cwd), processtest.Fail(1, "license error"))

	sum, err := f.run(t)
	var cf *process.CommandFailure
	if !errors.As(err, &cf) {
		t.Fatalf("expected *CommandFailure, got %v", err)
	}
	if sum.UnityCreated || sum.ProjectOpened {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if strings.Contains(f.out.String(), "Complete") {
		t.Fatal("a failed run must not report completion")
	}
}

func TestRun_OpensProjectWhenAsked(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "n"},
		step{"open the Unity project", "y"},
	)
	f.cfg.Unity.SkipOpen = false
	editor := unity.EditorPath(f.install, testVersion)
	f.runner.
		On(f.createCmd(f.cwd), processtest.Ok("")).
		On(process.Command(editor, "-projectPath", f.cwd).String(), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !sum.ProjectOpened {
		t.Fatal("expected project to be opened")
	}
}

func TestRun_NameDifferentFromDirectoryCreatesSubdirectory(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", "shooter"},
		step{"sub directory", "y"},
		step{"local git repo", "n"},
	)
	sub := filepath.Join(f.cwd, "shooter")
	f.runner.On(f.createCmd(sub), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Project.Path != sub || sum.Project.Name != "shooter" {
		t.Fatalf("unexpected project: %+v", sum.Project)
	}
	if info, err := os.Stat(sub); err != nil || !info.IsDir() {
		t.Fatalf("sub directory not created: %v", err)
	}
}

func TestRun_InvalidNameIsAskedAgain(t *testing.T) {
	f := newFixture(t,
		step{"project path", ""},
		step{"project name", "bad name"},
		step{"project name", ""},
		step{"local git repo", "n"},
	)
	f.runner.On(f.createCmd(f.cwd), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Project.Name != "game" {
		t.Fatalf("Name = %q", sum.Project.Name)
	}
}

func TestRun_MissingProjectPathIsCreatedOnRequest(t *testing.T) {
	f := newFixture(t,
		step{"create the path", "y"},
		step{"project name", ""},
		step{"local git repo", "n"},
	)
	target := filepath.Join(f.cwd, "new", "arena")
	f.cfg.Project.Path = target
	f.runner.On(f.createCmd(target), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Project.Path != target || sum.Project.Name != "arena" {
		t.Fatalf("unexpected project: %+v", sum.Project)
	}
}

func TestRun_PromptsForVersionWithSavedDefault(t *testing.T) {
	f := newFixture(t,
		step{"Unity version", "6000.0.1f1"},
		step{"Unity version", ""},
		step{"project path", ""},
		step{"project name", ""},
		step{"local git repo", "n"},
	)
	f.cfg.Unity.Version = ""
	if err := os.Mkdir(filepath.Join(f.install, "2021.3.1f1"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	_ = f.settings.Set(settings.KeyUnityVersion, "2021.3.1f1")

	editor := unity.EditorPath(f.install, "2021.3.1f1")
	f.runner.On(process.Command(editor, "-batchmode", "-quit", "-createProject", f.cwd).String(), processtest.Ok(""))

	sum, err := f.run(t)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.UnityVersion != "2021.3.1f1" {
		t.Fatalf("UnityVersion = %q", sum.UnityVersion)
	}
	if !strings.Contains(f.out.String(), "Unity version 6000.0.1f1 is not installed") {
		t.Fatalf("missing rejection:\n%s", f.out.String())
	}
}

func TestRun_UnknownVersionFlagFails(t *testing.T) {
	f := newFixture(t)
	f.cfg.Unity.Version = "1.0.0"

	if _, err := f.run(t); err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("expected not installed error, got %v", err)
	}
	if n := len(f.runner.Calls()); n != 0 {
		t.Fatalf("expected no commands, got %d", n)
	}
}
