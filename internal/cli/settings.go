package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"unityquick/internal/config"
	"unityquick/internal/settings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the settings remembered between runs",
	Long: `Show or change the settings remembered between runs.

Keys:
	unity_install_path   directory holding the Unity Editor versions
	unity_version        Unity Editor version offered by default
	github_organization  organization offered by default for new repositories`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenSettings(cmd)
		showSettings(cmd.OutOrStdout(), store.Path(), store)
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every saved setting",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenSettings(cmd)
		if err := store.Clear(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			os.Exit(exitFailed)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Path())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Save a setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenSettings(cmd)
		if err := setSetting(store, args[0], args[1]); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			os.Exit(exitInvalidConfig)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], store.Get(args[0]))
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsClearCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func mustOpenSettings(cmd *cobra.Command) *settings.FileStore {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(exitInvalidConfig)
	}
	store, err := openSettings(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(exitInvalidConfig)
	}
	return store
}

func showSettings(w io.Writer, path string, store settings.Store) {
	fmt.Fprintf(w, "Settings file: %s\n", path)
	values := store.All()
	for _, key := range settings.Keys {
		v, ok := values[key]
		if !ok || v == "" {
			v = "(not set)"
		}
		fmt.Fprintf(w, "  %-20s %s\n", key, v)
	}
}

func setSetting(store settings.Store, key, value string) error {
	if err := config.ValidateSettingsKey(key); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if key == settings.KeyUnityInstallPath {
		value = config.CleanPath(value)
	}
	if value == "" {
		return fmt.Errorf("value for %s must not be empty", key)
	}
	return store.Set(key, value)
}
