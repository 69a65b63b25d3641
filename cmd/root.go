package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Every call returns fresh commands and flags.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routegen",
		Short: "Routing configuration data generator",
		Long: `routegen turns a router/link topology into per-router configuration data.
It allocates link addresses, derives router ids and AS numbers, and resolves neighbors for RIPng, OSPFv3 and BGP.`,
		SilenceUsage: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "gen",
		Title: "Generate Configuration Data",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "util",
		Title: "Utilities",
	})
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "Also append logs to this file")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("log-prefix", "", "Prefix for console log lines, e.g. the lab name")

	rootCmd.AddCommand(newGenCmd(), newCheckCmd(), newNameCmd())
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
