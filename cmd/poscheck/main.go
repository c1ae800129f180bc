package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poscheck/internal/cli"
	"poscheck/internal/cli/commands"
	"poscheck/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "poscheck",
		Short:   "POS API test harness",
		Long:    `A test harness for the POS spreadsheet API. Runs functional, performance, cross-browser, accessibility, security, error-handling, data-integrity and offline test modules against a configured endpoint, aggregates the results and keeps a bounded run history for regression checks.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds, err := commands.NewCommands(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
