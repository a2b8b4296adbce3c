// Package repolink decides whether a project's local repository gets a new
// private GitHub repository, is linked to an existing one, or is left alone,
// and drives the git/gh commands that carry out that decision.
package repolink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unityquick/internal/process"
	"unityquick/internal/project"
	"unityquick/internal/settings"
)

// ErrNotAuthenticated is returned when gh is still unauthenticated after the
// single login attempt, or reports no identity.
var ErrNotAuthenticated = errors.New("github: not authenticated")

// Prompter asks the user questions.
type Prompter interface {
	YesNo(question string) (bool, error)
	Text(question, def string) (string, error)
}

// Settings is the subset of settings.Store the planner needs.
type Settings interface {
	Get(key string) string
	Set(key, value string) error
}

// Reporter receives user-facing progress lines.
type Reporter interface {
	Success(format string, args ...any)
	Error(format string, args ...any)
	Warning(format string, args ...any)
	Hint(format string, args ...any)
	Verbosef(format string, args ...any)
}

// Planner runs repository-linking flows. It keeps no state between flows.
type Planner struct {
	runner   process.Executor
	prompt   Prompter
	settings Settings
	report   Reporter
}

func New(runner process.Executor, prompt Prompter, store Settings, report Reporter) *Planner {
	return &Planner{runner: runner, prompt: prompt, settings: store, report: report}
}

// flow is the mutable context of a single Run.
type flow struct {
	*Planner
	project project.Project
	outcome Outcome
	orgs    []string
	failure error
}

// Run drives one flow for p to a terminal state. The returned error is
// non-nil when a command failed to launch, a create/link command failed, or
// authentication could not be established. Declining a prompt is not an
// error.
func (p *Planner) Run(ctx context.Context, proj project.Project) (Outcome, error) {
	f := &flow{Planner: p, project: proj}

	state := Start
	for {
		f.outcome.Trace = append(f.outcome.Trace, state)
		if state.Terminal() {
			break
		}
		next := f.step(ctx, state)
		p.report.Verbosef("repolink: %s -> %s", state, next)
		state = next
	}

	f.outcome.State = state
	if state == Abort && f.outcome.Decision == "" {
		f.outcome.Decision = DecisionAbort
	}
	return f.outcome, f.failure
}

func (f *flow) step(ctx context.Context, s State) State {
	switch s {
	case Start:
		return f.start()
	case CheckAuth:
		return f.checkAuth(ctx)
	case NeedLogin:
		return f.login(ctx)
	case Authenticated:
		return ResolveUsername
	case ResolveUsername:
		return f.resolveUsername(ctx)
	case ResolveOrganization:
		return f.resolveOrganization(ctx)
	case CheckExistence:
		return f.checkExistence(ctx)
	case LinkExisting:
		return f.linkExisting(ctx)
	case CreateNew:
		return f.createNew(ctx)
	default:
		f.failure = fmt.Errorf("repolink: unexpected state %s", s)
		return Abort
	}
}

// abort ends the flow with err.
func (f *flow) abort(err error) State {
	f.failure = err
	f.outcome.Decision = DecisionAbort
	return Abort
}

// run executes spec; a launch error is reported and recorded, and ok is false.
func (f *flow) run(ctx context.Context, spec process.CommandSpec, label string) (res process.Result, ok bool) {
	res, err := f.runner.Execute(ctx, spec, label)
	if err != nil {
		if errors.Is(err, process.ErrNotInstalled) {
			f.report.Error("%s is not installed or not on PATH: %v", spec.Executable, err)
		} else {
			f.report.Error("%v", err)
		}
		f.failure = err
		return res, false
	}
	return res, true
}

func (f *flow) start() State {
	yes, err := f.prompt.YesNo("Would you like to connect your local repo to a GitHub repo?")
	if err != nil {
		return f.abort(fmt.Errorf("repolink: %w", err))
	}
	if !yes {
		f.report.Success("Ok skipping GitHub repo")
		f.outcome.Decision = DecisionSkip
		return Abort
	}
	return CheckAuth
}

func (f *flow) checkAuth(ctx context.Context) State {
	res, ok := f.run(ctx, authStatusCommand(), "Checking GitHub authentication")
	if !ok {
		return f.abort(f.failure)
	}
	if res.Succeeded() {
		return Authenticated
	}
	f.report.Verbosef("gh auth status: %s", res.Diagnostic())
	return NeedLogin
}

// login runs the interactive login and re-probes exactly once.
func (f *flow) login(ctx context.Context) State {
	f.report.Warning("GitHub CLI is not logged in. Starting gh auth login...")

	res, ok := f.run(ctx, authLoginCommand(), "Logging in to GitHub")
	if !ok {
		return f.abort(f.failure)
	}
	if !res.Succeeded() {
		f.report.Verbosef("gh auth login exited with code %d", res.ExitCode)
	}

	res, ok = f.run(ctx, authStatusCommand(), "Checking GitHub authentication")
	if !ok {
		return f.abort(f.failure)
	}
	if !res.Succeeded() {
		f.report.Error("GitHub could not authenticate. Please run gh auth login and try again.")
		return f.abort(ErrNotAuthenticated)
	}
	return Authenticated
}

func (f *flow) resolveUsername(ctx context.Context) State {
	res, ok := f.run(ctx, whoAmICommand(), "Fetching GitHub username")
	if !ok {
		return f.abort(f.failure)
	}
	username := strings.TrimSpace(res.Output())
	if !res.Succeeded() || username == "" {
		f.report.Error("GitHub could not authenticate. Please login.")
		return f.abort(ErrNotAuthenticated)
	}
	f.outcome.Username = username
	return ResolveOrganization
}

func (f *flow) resolveOrganization(ctx context.Context) State {
	f.outcome.Owner = f.outcome.Username

	res, ok := f.run(ctx, orgListCommand(), "Fetching GitHub organizations")
	if !ok {
		return f.abort(f.failure)
	}
	if !res.Succeeded() {
		f.report.Warning("Could not list GitHub organizations, using your personal account: %s", res.Diagnostic())
		return CheckExistence
	}

	f.orgs = ParseOrganizations(res.Output())
	if len(f.orgs) == 0 {
		return CheckExistence
	}

	useOrg, err := f.prompt.YesNo(fmt.Sprintf("Would you like to create the repo under an organization instead of %s?", f.outcome.Username))
	if err != nil {
		return f.abort(fmt.Errorf("repolink: %w", err))
	}
	if !useOrg {
		return CheckExistence
	}

	def := f.settings.Get(settings.KeyGitHubOrganization)
	if def == "" {
		def = f.orgs[0]
	}
	f.report.Hint("Your organizations: %s", strings.Join(f.orgs, ", "))
	org, err := f.prompt.Text("Enter the organization", def)
	if err != nil {
		return f.abort(fmt.Errorf("repolink: %w", err))
	}
	org = strings.TrimSpace(org)
	if org == "" {
		org = def
	}
	if !contains(f.orgs, org) {
		f.report.Warning("%s is not in your organization list; continuing anyway", org)
	}
	if err := f.settings.Set(settings.KeyGitHubOrganization, org); err != nil {
		f.report.Warning("Could not save organization: %v", err)
	}
	f.outcome.Owner = org
	return CheckExistence
}

// checkExistence treats any probe failure as "absent". gh does not let us
// tell "not found" apart from a failed query, so a network error also leads
// to a create attempt.
func (f *flow) checkExistence(ctx context.Context) State {
	name := f.project.Name
	res, ok := f.run(ctx, repoViewCommand(f.outcome.Owner, name), fmt.Sprintf("Checking for existing repos with name: %s", name))
	if !ok {
		return f.abort(f.failure)
	}
	if res.Succeeded() {
		return LinkExisting
	}
	return CreateNew
}

func (f *flow) linkExisting(ctx context.Context) State {
	owner, name := f.outcome.Owner, f.project.Name
	url := RemoteURL(owner, name)

	yes, err := f.prompt.YesNo(fmt.Sprintf("A GitHub repo already exists at %s. Would you like to link your local repo to it?", url))
	if err != nil {
		return f.abort(fmt.Errorf("repolink: %w", err))
	}
	if !yes {
		f.outcome.Decision = DecisionSkip
		f.report.Hint("No remote configured. Choose a different project name or owner to create a new GitHub repo")
		return Done
	}

	f.outcome.Decision = DecisionLink
	res, ok := f.run(ctx, remoteAddCommand(owner, name, f.project.Path), "Linking local repo to remote repo")
	if !ok {
		return f.abort(f.failure)
	}
	if err := res.Err(); err != nil {
		f.report.Error("Linking GitHub repo failed: %s", res.Diagnostic())
		f.failure = err
		return Done
	}

	f.outcome.RemoteURL = url
	f.outcome.Completed = true
	f.report.Success("Ok GitHub repo %s linked", FullName(owner, name))
	return Done
}

func (f *flow) createNew(ctx context.Context) State {
	owner, name := f.outcome.Owner, f.project.Name
	f.outcome.Decision = DecisionCreate

	res, ok := f.run(ctx, repoCreateCommand(owner, name, f.project.Path), "Creating remote GitHub repo")
	if !ok {
		return f.abort(f.failure)
	}
	if err := res.Err(); err != nil {
		f.report.Error("GitHub repo creation failed: %s", res.Diagnostic())
		f.failure = err
		return Done
	}

	f.outcome.RemoteURL = RemoteURL(owner, name)
	f.outcome.Completed = true
	f.report.Success("Ok GitHub repo %s created", FullName(owner, name))
	return Done
}

// ParseOrganizations splits `gh org list` output into organization logins.
func ParseOrganizations(out string) []string {
	var orgs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			orgs = append(orgs, fields[0])
		}
	}
	return orgs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
