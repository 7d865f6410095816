// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides data structures shared by the tutor service:
// chat exchanges, subtopic identifiers, syllabus documents, and the
// request/response envelopes used by the HTTP layer.
package datatypes

// Message roles understood by the LLM provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged text unit in a prompt.
//
// Messages are built fresh per request by the prompt package and are
// never persisted; the Exchange is the persisted projection of one
// user/assistant pair.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
