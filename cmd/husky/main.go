package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"husky/internal/cli"
	"husky/internal/cli/commands"
)

var version = "dev"

// Exit codes
const (
	exitTestFailure = 1 // One or more tests failed
	exitRuntimeErr  = 2 // Configuration, discovery or runtime errors
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "husky",
		Short: "PHPUnit test orchestrator",
		Long: `Discovers PHPUnit test cases and runs them with the strategy that fits the environment:
inside an isolated test container, interactively for an IDE, or in parallel workers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags cli.Flags
	commands.NewCommands(&flags).Register(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, commands.ErrTestsFailed) {
			os.Exit(exitTestFailure)
		}
		os.Exit(exitRuntimeErr)
	}
}
