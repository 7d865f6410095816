// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// =============================================================================
// Syllabus Document Types
// =============================================================================

// Challenge is one coding challenge attached to a subtopic.
type Challenge struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Difficulty  string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
	SubtopicID  string `json:"subtopicId,omitempty" yaml:"subtopicId,omitempty"`
}

// Subtopic is one addressable unit of course content: a theory lesson
// with its attached challenges.
type Subtopic struct {
	ID          int         `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Completed   bool        `json:"completed" yaml:"completed"`
	SubtopicID  string      `json:"subtopicId,omitempty" yaml:"subtopicId,omitempty"`
	Challenges  []Challenge `json:"challenges,omitempty" yaml:"challenges,omitempty"`
}

// Topic groups subtopics under one syllabus heading.
type Topic struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Level       string     `json:"level,omitempty" yaml:"level,omitempty"`
	Subtopics   []Subtopic `json:"subtopics" yaml:"subtopics"`
}

// Syllabus is a full course for one language.
type Syllabus struct {
	Language string  `json:"language" yaml:"language"`
	Topics   []Topic `json:"topics" yaml:"topics"`
}

// StampSubtopicIDs writes canonical subtopic and challenge identifiers
// into every subtopic and challenge of the syllabus, overwriting any ids
// already present. Identifiers are 1-based in the text even though the
// slices are 0-based; ParseSubtopicID reverses the conversion.
func (s *Syllabus) StampSubtopicIDs() {
	for ti := range s.Topics {
		for si := range s.Topics[ti].Subtopics {
			sub := &s.Topics[ti].Subtopics[si]
			sub.SubtopicID = SubtopicIDFor(s.Language, ti, si)
			for ci := range sub.Challenges {
				sub.Challenges[ci].SubtopicID = ChallengeIDFor(s.Language, ti, si, ci)
			}
		}
	}
}

// =============================================================================
// Course Generation Request Types
// =============================================================================

// SelectLanguageRequest is the body of POST /language/select.
type SelectLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

// Validate checks the request against its declared constraints.
func (r *SelectLanguageRequest) Validate() error {
	return chatValidate.Struct(r)
}

// UpdateTopicsRequest is the body of POST /language/update-topics: the
// user's complete replacement syllabus set.
type UpdateTopicsRequest struct {
	Topics []Syllabus `json:"topics" validate:"required,min=1,dive"`
}

// Validate checks the request against its declared constraints.
func (r *UpdateTopicsRequest) Validate() error {
	return chatValidate.Struct(r)
}

// GenerateCourseRequest is the body of POST /language/generate-course.
//
// Expertise maps reference-syllabus topic names to one of "Expert",
// "Familiar", or "Beginner"; the personalization prompt derives its
// restructuring rules from these levels.
type GenerateCourseRequest struct {
	Expertise map[string]string `json:"expertise" validate:"required,min=1"`
	Goal      string            `json:"goal" validate:"required"`
	Language  string            `json:"language" validate:"required"`
}

// Validate checks the request against its declared constraints.
func (r *GenerateCourseRequest) Validate() error {
	return chatValidate.Struct(r)
}
