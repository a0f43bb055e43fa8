// Command reflexhook runs the context-injection hooks as host command hooks.
// Each subcommand reads the host's JSON on stdin and writes the host's JSON on
// stdout. Diagnostics go to stderr and routing failures never change the exit
// status.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "reflexhook",
		Short: "Inject relevant workspace docs and skills into agent turns",
		Long: `reflexhook scans a workspace for documents and skills that declare when
they should be read, asks the reflex router which of them matter for the
current conversation, and hands the answer back to the agent host.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "path to a hook config file (overrides ~/.config/reflex/hook.yaml)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(bootstrapCmd(app))
	rootCmd.AddCommand(turnCmd(app))
	rootCmd.AddCommand(promptSubmitCmd(app))
	rootCmd.AddCommand(cleanupCmd(app))
	rootCmd.AddCommand(registryCmd(app))
	rootCmd.AddCommand(toolsCmd())

	return rootCmd
}
