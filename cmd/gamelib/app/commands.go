package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/gamelib/cmd/gamelib/cmd/eligibility"
	"github.com/agentstation/gamelib/cmd/gamelib/cmd/normalize"
	"github.com/agentstation/gamelib/cmd/gamelib/cmd/reconcile"
	"github.com/agentstation/gamelib/cmd/gamelib/cmd/suggest"
	"github.com/agentstation/gamelib/cmd/gamelib/cmd/validate"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(eligibility.NewCommand(a))
	rootCmd.AddCommand(suggest.NewCommand(a))

	// Tools
	rootCmd.AddCommand(normalize.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(newManCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("gamelib %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// newManCommand creates the hidden man command, which prints the gamelib
// man page to stdout.
func newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "GAMELIB",
				Section: "1",
				Source:  "gamelib",
				Manual:  "gamelib Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
