// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// Bootstrap messages sent on behalf of the user when a subtopic is
// opened with no history. They are not displayed as user input.
const (
	bootstrapTheory    = "Please explain the theory for this topic."
	bootstrapChallenge = "Please provide me with a coding challenge for this topic."
)

// chatSession owns one subtopic conversation on the client side.
//
// # Description
//
// Every send captures a monotonically increasing token. A later send
// (or a subtopic switch) bumps the counter, and in-flight streams
// whose token no longer matches stop delivering chunks: the response
// still completes server-side and is persisted there, but a stale
// stream never writes into the new conversation's display.
type chatSession struct {
	client *apiClient

	// fetchToken correlates stream chunks with the send that started
	// them. Incremented on every send and on Supersede.
	fetchToken atomic.Int64

	subtopicID  string
	description string
	language    string
}

func newChatSession(client *apiClient, subtopicID, description, language string) *chatSession {
	return &chatSession{
		client:      client,
		subtopicID:  subtopicID,
		description: description,
		language:    language,
	}
}

// Supersede invalidates any in-flight stream without starting a new
// one. Called when the user switches subtopics.
func (s *chatSession) Supersede() {
	s.fetchToken.Add(1)
}

// History loads stored conversation for the subtopic. A nil slice
// means the conversation has not started (including the problemset
// case, where the server reports an error envelope instead of rows).
func (s *chatSession) History(ctx context.Context) ([]datatypes.Exchange, error) {
	return s.client.PastConversations(ctx, datatypes.PastConversationsQuery{
		SubtopicID:  s.subtopicID,
		Language:    s.language,
		Description: s.description,
	})
}

// Send streams one turn. Code, when non-empty, is appended in the
// attach format the tutor strips before persisting. onChunk receives
// chunks only while this send is still the session's current one.
func (s *chatSession) Send(ctx context.Context, message, code string, onChunk func(string)) (string, error) {
	token := s.fetchToken.Add(1)

	backendMessage := message
	if strings.TrimSpace(code) != "" {
		backendMessage = message + ". (only refer to code if needed otherwise ignore code) Here is my code: " + code
	}

	return s.client.SendChat(ctx, datatypes.SendChatRequest{
		Message:     backendMessage,
		SubtopicID:  s.subtopicID,
		Description: s.description,
		Language:    s.language,
	}, func(chunk string) {
		if token != s.fetchToken.Load() {
			return // superseded; drop silently
		}
		if onChunk != nil {
			onChunk(chunk)
		}
	})
}

// Bootstrap opens a fresh conversation with the appropriate silent
// first message. challenge selects the challenge variant.
func (s *chatSession) Bootstrap(ctx context.Context, challenge bool, onChunk func(string)) (string, error) {
	msg := bootstrapTheory
	if challenge {
		msg = bootstrapChallenge
	}
	return s.Send(ctx, msg, "", onChunk)
}
