package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"unityquick/internal/config"
	"unityquick/internal/flags"
	gh "unityquick/internal/github"
	"unityquick/internal/output"
	"unityquick/internal/process"
	"unityquick/internal/progress"
	"unityquick/internal/prompt"
	"unityquick/internal/settings"
	"unityquick/internal/wizard"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

const (
	exitOK            = 0
	exitFailed        = 1
	exitInvalidConfig = 3
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "unityquick",
	Short: "Set up a new Unity project with a git repo and a private GitHub remote",
	Long: `UnityQuick walks you through creating a Unity project.

It picks an installed Unity Editor, creates the project directory, initialises
a local git repository with a Unity .gitignore, optionally creates or links a
private GitHub repository through the gh CLI, and finally runs the editor in
batch mode to create the project.

Requirements:
	git and the GitHub CLI (gh) on PATH for the repository steps.
	A Unity Editor installed through Unity Hub.

Settings:
	The Unity install path, the Unity version and the last GitHub organization
	are remembered between runs (see "unityquick settings show").

Exit codes:
	0 = project created
	1 = the wizard failed (Unity project not created, or input ended)
	3 = invalid flags or settings file

Examples:
	# Interactive setup in the current directory
	unityquick

	# Pre-select the editor and project
	unityquick --unity-version 2022.3.10f1 --project-path ~/games --project-name arena

	# Forget saved settings first
	unityquick --clear`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		// The first interrupt cancels running commands; a prompt blocked on
		// stdin needs a second one, which the default handler turns into an exit.
		go func() {
			<-ctx.Done()
			stop()
		}()
		code := runWizard(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		stop()
		os.Exit(code)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every command, its exit code and every GitHub API call)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.NoColor, flags.FlagNoColor, false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfg.Runtime.SettingsFile, flags.FlagSettings, "", "Settings file (default: <user config dir>/unityquick/settings.yaml)")

	rootCmd.Flags().StringVarP(&cfg.Unity.InstallPath, flags.FlagUnityPath, "p", "", "Directory holding the Unity Editor versions (saved for later runs)")
	rootCmd.Flags().StringVar(&cfg.Unity.Version, flags.FlagUnityVersion, "", "Unity Editor version to use, e.g. 2022.3.10f1")
	rootCmd.Flags().BoolVar(&cfg.Unity.SkipOpen, flags.FlagSkipOpen, false, "Do not offer to open the project after it is created")
	rootCmd.Flags().StringVar(&cfg.Project.Path, flags.FlagProjectPath, "", "Project directory (default: ask, empty answer = current directory)")
	rootCmd.Flags().StringVar(&cfg.Project.Name, flags.FlagProjectName, "", "Project name, also used as the GitHub repository name")
	rootCmd.Flags().BoolVarP(&cfg.Runtime.Clear, flags.FlagClear, "c", false, "Clear saved settings before running")
	rootCmd.Flags().BoolVar(&cfg.Remote.SkipVerify, flags.FlagSkipVerify, false, "Do not verify the GitHub repository through the API after creating or linking it")
}

// runWizard runs one wizard flow and returns the process exit code.
func runWizard(ctx context.Context, cfg *config.Config, in io.Reader, out, errw io.Writer) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errw, "Error: %v\n", err)
		return exitInvalidConfig
	}
	if cfg.Runtime.NoColor || !output.IsTerminal(out) {
		color.NoColor = true
	}

	store, err := openSettings(cfg)
	if err != nil {
		fmt.Fprintf(errw, "Error: %v\n", err)
		return exitInvalidConfig
	}

	console := output.NewConsole(out, errw, cfg.Runtime.Verbose)
	if cfg.Runtime.Clear {
		if err := store.Clear(); err != nil {
			console.Error("Clearing settings failed: %v", err)
			return exitFailed
		}
		console.Success("Ok settings cleared")
	}

	var indicator *progress.Indicator
	if output.IsTerminal(out) {
		indicator = progress.New(out)
	}
	runner := process.NewRunner(indicator, console.VerboseWriter())

	w := wizard.New(cfg, wizard.Deps{
		Runner:      runner,
		Prompt:      prompt.NewConsole(in, out),
		Settings:    store,
		Console:     console,
		NewVerifier: remoteVerifier(cfg, runner, console),
	})
	if _, err := w.Run(ctx); err != nil {
		switch {
		case errors.Is(err, prompt.ErrNoInput):
			console.Error("Input ended before the setup was finished")
		case errors.Is(err, context.Canceled):
			console.Error("Interrupted")
		default:
			console.Error("%v", err)
		}
		return exitFailed
	}
	return exitOK
}

func openSettings(cfg *config.Config) (*settings.FileStore, error) {
	path := cfg.Runtime.SettingsFile
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return settings.Open(path)
}

// remoteVerifier resolves a GitHub token only when a remote needs verifying.
func remoteVerifier(cfg *config.Config, runner process.Executor, console *output.Console) func(context.Context) (wizard.RemoteVerifier, error) {
	return func(ctx context.Context) (wizard.RemoteVerifier, error) {
		token, source, err := gh.ResolveAuthToken(ctx, runner, "")
		if err != nil {
			return nil, fmt.Errorf("resolve GitHub auth token: %w", err)
		}
		if token == "" {
			return nil, errors.New("GitHub auth token is required (set GITHUB_TOKEN or run 'gh auth login')")
		}
		console.Verbosef("github token source: %s", source)

		client, err := gh.NewClient(ctx, token,
			gh.WithVerbose(cfg.Runtime.Verbose, console.VerboseWriter()),
			gh.WithUserAgent("unityquick/"+buildVersion),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
