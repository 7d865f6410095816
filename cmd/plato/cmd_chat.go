// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var (
		language    string
		description string
		challenge   bool
	)

	cmd := &cobra.Command{
		Use:   "chat <subtopic-id>",
		Short: "Open an interactive tutoring session for a subtopic",
		Long: `Opens a streaming chat against one subtopic of your course.

Stored history is replayed first. If the conversation is new, the
tutor generates the initial lesson (or, with --challenge, a coding
challenge) before the prompt appears.

In-session commands:
  /code <file>   attach a file's contents to your next message
  /switch <id>   switch to another subtopic (in-flight output is dropped)
  /quit          leave the session`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), args[0], language, description, challenge)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "Python", "course language for this subtopic")
	cmd.Flags().StringVarP(&description, "description", "d", "", "subtopic description used for first-turn generation")
	cmd.Flags().BoolVar(&challenge, "challenge", false, "bootstrap with a coding challenge instead of theory")
	return cmd
}

func runChat(ctx context.Context, subtopicID, language, description string, challenge bool) error {
	client := newAPIClient(flagServer, flagToken)
	if err := client.waitServer(ctx, 5*time.Second); err != nil {
		return err
	}

	session := newChatSession(client, subtopicID, description, language)
	logger.Info("chat session opened", "subtopic_id", subtopicID, "language", language)

	history, err := session.History(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	for _, ex := range history {
		printExchange(ex)
	}

	if len(history) == 0 {
		dimText.Println("Generating initial content...")
		tutorLabel.Println("tutor:")
		if _, err := session.Bootstrap(ctx, challenge, printChunk); err != nil {
			return err
		}
		fmt.Println()
	}

	pendingCode := ""
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		userLabel.Print("you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil

		case strings.HasPrefix(line, "/code "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/code "))
			raw, err := os.ReadFile(path)
			if err != nil {
				errText.Printf("cannot read %s: %v\n", path, err)
				continue
			}
			pendingCode = string(raw)
			dimText.Printf("attached %s (%d bytes) to your next message\n", path, len(raw))
			continue

		case strings.HasPrefix(line, "/switch "):
			next := strings.TrimSpace(strings.TrimPrefix(line, "/switch "))
			session.Supersede()
			session = newChatSession(client, next, "", language)
			logger.Info("switched subtopic", "subtopic_id", next)
			history, err := session.History(ctx)
			if err != nil {
				errText.Printf("loading history: %v\n", err)
				continue
			}
			for _, ex := range history {
				printExchange(ex)
			}
			continue
		}

		tutorLabel.Println("tutor:")
		_, err := session.Send(ctx, line, pendingCode, printChunk)
		pendingCode = ""
		if err != nil {
			errText.Printf("\n%v\n", err)
			continue
		}
		fmt.Println()
	}
}

func printChunk(chunk string) {
	fmt.Print(chunk)
}
