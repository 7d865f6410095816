// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package prompt assembles the message lists sent to the LLM for each
// chat turn.
//
// All functions are pure: the prompt for a turn is fully determined by
// the subtopic identifier, the per-request description, the user
// message, and the replayed history. Nothing here reads global state.
//
// Three prompt families exist:
//
//   - First-turn theory and challenge prompts, selected by subtopic
//     kind, which generate the initial lesson or challenge content.
//   - The DSA problemset protocol prompts, which wrap every user
//     message for DSA practice sheets in a mentor protocol.
//   - The plain continuation wrapper for all other follow-up turns.
package prompt

import (
	"fmt"
	"strings"

	"github.com/platolabs/plato/services/llm"
	"github.com/platolabs/plato/services/tutor/datatypes"
)

// InitialSystemMessage is prepended on the first turn of a conversation.
const InitialSystemMessage = "You are an expert programming tutor providing initial learning content."

// CodeDelimiter separates a chat message from attached editor code.
// Everything from the delimiter onward is sent to the model but
// stripped before the message is persisted.
const CodeDelimiter = "Here is my code:"

// Fallbacks for empty history fields when replaying a conversation.
const (
	noUserMessage = "No user message"
	noAIResponse  = "No AI response"
)

// =============================================================================
// Generation Parameters
// =============================================================================

// Params returns the generation parameters for a chat turn. First
// turns generate fresh lesson content and get a high temperature and
// a larger budget; follow-ups stay focused.
func Params(firstTurn bool) llm.GenerationParams {
	if firstTurn {
		return llm.GenerationParams{
			Temperature: llm.Float32Ptr(1.0),
			MaxTokens:   llm.IntPtr(2000),
		}
	}
	return llm.GenerationParams{
		Temperature: llm.Float32Ptr(0.3),
		MaxTokens:   llm.IntPtr(1500),
	}
}

// =============================================================================
// Prompt Construction
// =============================================================================

// BuildInitial returns the first-turn prompt for a subtopic. Challenge
// subtopics get a challenge-generation prompt; everything else gets
// the structured theory lesson prompt. The description comes from the
// request and tells the model what the subtopic covers.
func BuildInitial(id datatypes.SubtopicID, description, language string) string {
	if id.IsChallenge() {
		return fmt.Sprintf(challengeTemplate, language, id.Raw, description, language)
	}
	return fmt.Sprintf(theoryTemplate, language, id.Raw, description)
}

// Build returns the prompt for a follow-up turn. DSA problemset
// conversations wrap the message in the mentor protocol, with a
// sheet-generation variant when no history exists yet; all other
// subtopics get the plain continuation wrapper.
func Build(subtopicID, message string, historyLen int) string {
	if datatypes.IsDSAProblemSet(subtopicID) {
		if historyLen == 0 {
			return fmt.Sprintf(dsaSheetTemplate, message, message)
		}
		return fmt.Sprintf(dsaProtocolTemplate, message, message, message, message)
	}
	return fmt.Sprintf(continuationTemplate, message, subtopicID)
}

// Messages assembles the full message list for a turn: replayed
// history as alternating user/assistant messages, the system message
// on first turns, and the turn prompt last. Empty history fields are
// replaced with fixed fallbacks so the role alternation never breaks.
func Messages(history []datatypes.Exchange, turnPrompt string, firstTurn bool) []datatypes.Message {
	msgs := make([]datatypes.Message, 0, 2*len(history)+2)

	if firstTurn {
		msgs = append(msgs, datatypes.Message{
			Role:    datatypes.RoleSystem,
			Content: InitialSystemMessage,
		})
	}

	for _, ex := range history {
		userMsg := ex.UserMessage
		if userMsg == "" {
			userMsg = noUserMessage
		}
		aiMsg := ex.AIResponse
		if aiMsg == "" {
			aiMsg = noAIResponse
		}
		msgs = append(msgs,
			datatypes.Message{Role: datatypes.RoleUser, Content: userMsg},
			datatypes.Message{Role: datatypes.RoleAssistant, Content: aiMsg},
		)
	}

	msgs = append(msgs, datatypes.Message{
		Role:    datatypes.RoleUser,
		Content: turnPrompt,
	})
	return msgs
}

// ExtractStoredMessage returns the part of a user message that should
// be persisted: attached code after the delimiter is dropped, and the
// remainder is trimmed.
func ExtractStoredMessage(message string) string {
	if idx := strings.Index(message, CodeDelimiter); idx >= 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}
