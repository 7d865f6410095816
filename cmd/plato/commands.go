// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command plato is the terminal client for the Plato tutoring service.
//
// It drives the same HTTP API the web frontend uses: streaming chat
// against a subtopic, course selection and generation, and sandboxed
// code runs.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/platolabs/plato/pkg/logging"
)

var (
	flagServer   string
	flagToken    string
	flagLogLevel string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "plato",
	Short: "Terminal client for the Plato AI tutor",
	Long: `plato talks to a Plato tutor service: stream chat lessons, generate
personalized courses, and run code in the sandbox, all from the terminal.

Server address and token come from flags or the PLATO_SERVER and
PLATO_TOKEN environment variables (a .env file is honored).`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Logs go to a file so stderr stays clean for rendered output.
		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(flagLogLevel),
			LogDir:  "~/.plato/logs",
			Service: "cli",
			Quiet:   true,
		})
		if flagServer == "" {
			flagServer = os.Getenv("PLATO_SERVER")
		}
		if flagServer == "" {
			flagServer = "http://localhost:12310"
		}
		if flagToken == "" {
			flagToken = os.Getenv("PLATO_TOKEN")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "tutor service base URL (default $PLATO_SERVER or http://localhost:12310)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (default $PLATO_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newCourseCmd())
	rootCmd.AddCommand(newRunCmd())

	return rootCmd.Execute()
}
