// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/platolabs/plato/services/sandbox"
)

func newRunCmd() *cobra.Command {
	var (
		language string
		stdin    string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a code file in the execution sandbox",
		Long: `Submits a file to the sandbox service and prints its output.

The sandbox endpoint comes from --sandbox or PLATO_SANDBOX_URL
(ws://host:port/execute). The process exit code mirrors the sandboxed
program's exit code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			endpoint, _ := cmd.Flags().GetString("sandbox")
			if endpoint == "" {
				endpoint = os.Getenv("PLATO_SANDBOX_URL")
			}
			if endpoint == "" {
				return fmt.Errorf("no sandbox endpoint: set --sandbox or PLATO_SANDBOX_URL")
			}

			client := sandbox.NewClient(endpoint).WithTimeout(timeout)
			logger.Info("sandbox run", "file", args[0], "language", language)

			result, err := client.Run(cmd.Context(), sandbox.Request{
				Language: language,
				Code:     string(code),
				Stdin:    stdin,
			})
			if err != nil {
				return err
			}

			fmt.Print(result.Stdout)
			if result.Stderr != "" {
				errText.Fprint(os.Stderr, result.Stderr)
			}
			if result.ExitCode != 0 {
				os.Exit(result.ExitCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "python", "language of the submitted code")
	cmd.Flags().StringVar(&stdin, "stdin", "", "stdin fed to the program")
	cmd.Flags().DurationVar(&timeout, "timeout", sandbox.DefaultTimeout, "execution timeout")
	cmd.Flags().String("sandbox", "", "sandbox WebSocket endpoint")
	return cmd
}
