// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

var (
	tutorLabel = color.New(color.FgCyan, color.Bold)
	userLabel  = color.New(color.FgGreen, color.Bold)
	dimText    = color.New(color.Faint)
	errText    = color.New(color.FgRed)
)

// renderMarkdown renders lesson content for the terminal. Falls back
// to raw text if the renderer cannot initialize (e.g. dumb terminals).
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printExchange prints one stored exchange: the user line (when
// present) and the rendered tutor response.
func printExchange(ex datatypes.Exchange) {
	if ex.UserMessage != "" {
		userLabel.Print("you> ")
		fmt.Println(ex.UserMessage)
	}
	tutorLabel.Println("tutor:")
	fmt.Print(renderMarkdown(ex.AIResponse))
	fmt.Println()
}

// printSyllabi prints a compact tree of the user's courses.
func printSyllabi(syllabi []datatypes.Syllabus) {
	for _, syl := range syllabi {
		tutorLabel.Printf("%s\n", syl.Language)
		for _, topic := range syl.Topics {
			status := " "
			if topic.Completed {
				status = "x"
			}
			fmt.Printf("  [%s] %d. %s", status, topic.ID, topic.Name)
			if topic.Level != "" {
				dimText.Printf("  (%s)", topic.Level)
			}
			fmt.Println()
			for _, sub := range topic.Subtopics {
				subStatus := " "
				if sub.Completed {
					subStatus = "x"
				}
				fmt.Printf("      [%s] %s", subStatus, sub.Name)
				dimText.Printf("  %s", sub.SubtopicID)
				fmt.Println()
				for _, ch := range sub.Challenges {
					dimText.Printf("          - %s (%s)\n", ch.Name, ch.Difficulty)
				}
			}
		}
	}
}
