package commands

// Root command for the Cobra CLI.
// Registers the watch and digest subcommands.

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "launch-radar",
	Short: "Launch Radar - Telegram notifier for upcoming token launches",
	Long: `Launch Radar watches a public feed of upcoming token launches and sends
Telegram notifications when a launch is newly scheduled and when its on-chain
contract address becomes available.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(digestCmd)
}
