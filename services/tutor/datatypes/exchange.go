// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// Exchange is one user-message/AI-response pair tied to a user and a
// subtopic.
//
// # Description
//
// An Exchange is created when a chat turn completes (the provider stream
// finishes) or when default bootstrap content is resolved for a subtopic.
// It is immutable after creation: the service never updates or deletes
// exchanges.
//
// An Exchange with an empty UserMessage is a bootstrap exchange: content
// the system generated for a subtopic without real user input. Once a
// bootstrap exchange exists for a (user, subtopic) pair the first-turn
// branch of the prompt builder must never fire again for that pair.
//
// # Fields
//
//   - UserID: owning user identifier (from the auth middleware)
//   - SubtopicID: structured subtopic identifier (see subtopic.go)
//   - UserMessage: user's message text; empty for bootstrap exchanges.
//     Stored text is truncated at the code delimiter (see prompt package),
//     so attached editor code never reaches persistence.
//   - AIResponse: full accumulated assistant response
//   - Timestamp: creation time, UTC
type Exchange struct {
	UserID      string    `json:"userId"`
	SubtopicID  string    `json:"subtopicId"`
	UserMessage string    `json:"userMessage"`
	AIResponse  string    `json:"aiResponse"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsBootstrap reports whether this exchange was system-generated without
// real user input.
func (e Exchange) IsBootstrap() bool {
	return e.UserMessage == ""
}
