// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

func newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage your courses",
	}
	cmd.AddCommand(newCourseSelectCmd())
	cmd.AddCommand(newCourseGenerateCmd())
	return cmd
}

func newCourseSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <language>",
		Short: "Adopt the built-in syllabus for a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(flagServer, flagToken)
			topics, err := client.SelectLanguage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSyllabi(topics)
			return nil
		},
	}
}

func newCourseGenerateCmd() *cobra.Command {
	var (
		goal      string
		language  string
		expertise []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a personalized course with AI",
		Long: `Generates a personalized syllabus from your expertise levels.

Expertise is given per topic as name=level, where level is one of
Expert, Familiar, or Beginner:

  plato course generate -L C++ -g dsa \
      -e "Arrays and Strings=Familiar" -e "Trees and Graphs=Beginner"

Generation runs a long model call; the command waits through the
server's keep-alive stream and prints the finished course.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels := make(map[string]string, len(expertise))
			for _, pair := range expertise {
				name, level, found := strings.Cut(pair, "=")
				if !found || name == "" || level == "" {
					return fmt.Errorf("invalid expertise %q, want name=level", pair)
				}
				levels[strings.TrimSpace(name)] = strings.TrimSpace(level)
			}
			if len(levels) == 0 {
				return fmt.Errorf("at least one --expertise entry is required")
			}

			client := newAPIClient(flagServer, flagToken)
			dimText.Println("Generating your personalized course; this can take a few minutes...")
			topics, err := client.GenerateCourse(cmd.Context(), datatypes.GenerateCourseRequest{
				Expertise: levels,
				Goal:      goal,
				Language:  language,
			}, func(ka datatypes.KeepAlivePayload) {
				dimText.Println("still working...")
			})
			if err != nil {
				return err
			}
			printSyllabi(topics)
			return nil
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "learning goal (e.g. \"web development\", \"dsa\")")
	cmd.Flags().StringVarP(&language, "language", "L", "", "programming language")
	cmd.Flags().StringArrayVarP(&expertise, "expertise", "e", nil, "topic expertise as name=level (repeatable)")
	cmd.MarkFlagRequired("goal")
	cmd.MarkFlagRequired("language")
	return cmd
}
