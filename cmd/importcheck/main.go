// Package main provides the entry point for the importcheck CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/cmd/importcheck/commands"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		// The report already states why the run failed.
		if !errors.Is(err, report.ErrUnusedImportsFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "importcheck",
		Short: "importcheck - unused and duplicate import finder for TypeScript",
		Long: `importcheck finds imported bindings that a TypeScript file never references,
and bindings imported more than once from the same module.

Commands:
  check     Scan a directory tree and report findings (exit 1 on unused imports)
  lsp       Publish findings as editor diagnostics over stdio
  mcp       Expose the check as MCP tools over stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "config file (default: .importcheck.yaml in . or $HOME)")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewLSPCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "importcheck %s\n", version.String())
		},
	}
}
