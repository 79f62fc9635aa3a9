package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/cmd/rostersync/cmd/convert"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/fetch"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/merge"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/scope"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/version"
)

// Execute runs the rostersync CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rostersync",
		Short:   "Brightspace to Pronto roster sync",
		Version: a.version,
		Long: `rostersync converts Brightspace Data Hub exports into the users,
memberships, categories and groups tables Pronto imports.

It downloads the exports, folds differential exports into the full ones,
selects the courses beneath the requested organizational units and writes
the tables for the users enrolled in them.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "data",
		Title: "Data Commands:",
	})

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.rostersync.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("rostersync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" && configFile != a.config.ConfigFile {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	add := func(group string, cmd *cobra.Command) {
		cmd.GroupID = group
		rootCmd.AddCommand(cmd)
	}

	add("core", convert.NewCommand(a))
	add("core", scope.NewCommand(a))
	add("data", fetch.NewCommand(a))
	add("data", merge.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
