// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains request types for the chat endpoints. For syllabus
// and course-generation types, see syllabus.go.
package datatypes

import (
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxMessageContentBytes is the maximum size of a chat message,
	// including any attached editor code. Byte length, not rune count,
	// to bound memory for hostile payloads.
	MaxMessageContentBytes = 32 * 1024 // 32KB

	// MaxDescriptionBytes bounds the syllabus description forwarded with
	// a chat request.
	MaxDescriptionBytes = 8 * 1024
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// chatValidate is the validator instance for chat datatypes.
var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()
	_ = chatValidate.RegisterValidation("maxbytes", validateMaxBytes)
	_ = chatValidate.RegisterValidation("maxdescbytes", validateMaxDescBytes)
}

func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxMessageContentBytes
}

func validateMaxDescBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxDescriptionBytes
}

// =============================================================================
// Chat Request Types
// =============================================================================

// SendChatRequest is the body of POST /chat/send.
//
// # Description
//
// Every field needed to serve the turn travels on the request itself.
// The subtopic and description are NOT looked up from server-held state
// set by a prior /chat/past call: two tabs navigating different subtopics
// must not be able to corrupt each other's context, so the context is
// explicit per request.
//
// # Fields
//
//   - Message: the user's message. May include an attached code payload
//     after the "Here is my code:" delimiter; the payload reaches the LLM
//     but is stripped before persistence.
//   - SubtopicID: structured subtopic identifier the turn belongs to.
//   - Description: syllabus-supplied free-text description of the
//     subtopic, used verbatim in first-turn prompts.
//   - Language: target programming language label ("python", "c++", ...).
//
// # Limitations
//
//   - Message is validated for size, not content; prompt-injection
//     defenses are out of scope here.
type SendChatRequest struct {
	Message     string `json:"message" validate:"required,maxbytes"`
	SubtopicID  string `json:"subtopicId" validate:"required"`
	Description string `json:"description" validate:"maxdescbytes"`
	Language    string `json:"backendlanguage"`
}

// Validate checks the request against its declared constraints.
func (r *SendChatRequest) Validate() error {
	return chatValidate.Struct(r)
}

// PastConversationsQuery carries the query parameters of GET /chat/past.
type PastConversationsQuery struct {
	SubtopicID  string `form:"subtopicId" validate:"required"`
	Language    string `form:"backendlanguage"`
	Description string `form:"description" validate:"maxdescbytes"`
}

// Validate checks the query against its declared constraints.
func (q *PastConversationsQuery) Validate() error {
	return chatValidate.Struct(q)
}
