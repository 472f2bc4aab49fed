package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/railis/core/cmd/api/commands"
)

// @title Railis API
// @version 1.0
// @description Task assignment and tracking system for leaders and workers

// @contact.name Railis Support
// @contact.url https://github.com/railis/core

// @license.name MIT
// @license.url https://github.com/railis/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "railis",
		Short: "Railis API Server",
		Long:  `Railis is a task assignment and tracking system where leaders create and assign tasks and workers execute them, with evidence uploads, comments, messaging and notifications.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
