package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifebooster/core/cmd/lifebooster/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifebooster",
		Short: "Life Booster API Server",
		Long:  `Life Booster is a single-user life tracking service covering daily tasks, challenges, finances, mistakes, and reminders.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewResetCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
