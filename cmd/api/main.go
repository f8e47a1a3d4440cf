package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/homeskillhub/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "homeskillhub",
		Short: "HomeSkill-Hub API Server",
		Long:  `HomeSkill-Hub is a community task marketplace where neighbours post household tasks, helpers offer to take them on, and posters pick who gets the job.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDBCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
