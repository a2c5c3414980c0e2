package main

import (
	"log"
	"os"

	"github.com/agilstore/core/cmd/agilstore/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
