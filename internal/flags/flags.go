package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// wizard. Keeping these as constants helps avoid drift between Cobra flag
// wiring and messages that tell the user which flag to pass.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Unity.InstallPath, flags.FlagUnityPath, "", "...")
//	arg := "--" + flags.FlagUnityPath
const (
	// Unity
	FlagUnityPath    = "unity-path"
	FlagUnityVersion = "unity-version"
	FlagSkipOpen     = "skip-open"

	// Project
	FlagProjectPath = "project-path"
	FlagProjectName = "project-name"

	// Remote
	FlagSkipVerify = "skip-verify"

	// Runtime
	FlagSettings = "settings"
	FlagClear    = "clear"
	FlagNoColor  = "no-color"
	FlagVerbose  = "verbose"
)
