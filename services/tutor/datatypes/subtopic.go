// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Subtopic kinds encoded in the identifier's second token.
const (
	KindSubtopic   = "subtopic"
	KindChallenge  = "challenge"
	KindProblemSet = "problemset"
)

// DSALanguage is the language token that marks data-structures-and-
// algorithms practice content.
const DSALanguage = "DSA"

// SubtopicID is the parsed form of a structured subtopic identifier.
//
// # Description
//
// The wire format is an opaque structured string:
//
//	<language>_<kind>_<topicIndex>_<subtopicIndex>[_<challengeIndex>]
//
// for example "python_subtopic_1_1" or "DSA_challenge_2_3_1". It is the
// join key between conversation history, syllabus content, and client
// navigation.
//
// Indices are 1-based in the identifier text but resolve 0-based against
// the in-memory syllabus arrays; use TopicIdx/SubtopicIdx/ChallengeIdx
// for resolved values and the exported fields for the textual ones.
//
// # Limitations
//
//   - ParseSubtopicID validates shape, not syllabus membership; an id can
//     parse cleanly yet point past the end of a user's syllabus.
type SubtopicID struct {
	Raw       string
	Language  string
	Kind      string
	Topic     int // 1-based, as written
	Subtopic  int // 1-based, as written
	Challenge int // 1-based; 0 when the id has no challenge component
}

// ParseSubtopicID parses the structured identifier format.
func ParseSubtopicID(raw string) (SubtopicID, error) {
	parts := strings.Split(raw, "_")
	if len(parts) < 4 {
		return SubtopicID{}, fmt.Errorf("subtopic id %q: want at least 4 '_'-separated parts, got %d", raw, len(parts))
	}

	id := SubtopicID{Raw: raw, Language: parts[0], Kind: parts[1]}
	switch id.Kind {
	case KindSubtopic, KindChallenge, KindProblemSet:
	default:
		return SubtopicID{}, fmt.Errorf("subtopic id %q: unknown kind %q", raw, id.Kind)
	}

	var err error
	if id.Topic, err = strconv.Atoi(parts[2]); err != nil || id.Topic < 1 {
		return SubtopicID{}, fmt.Errorf("subtopic id %q: bad topic index %q", raw, parts[2])
	}
	if id.Subtopic, err = strconv.Atoi(parts[3]); err != nil || id.Subtopic < 1 {
		return SubtopicID{}, fmt.Errorf("subtopic id %q: bad subtopic index %q", raw, parts[3])
	}
	if len(parts) >= 5 {
		if id.Challenge, err = strconv.Atoi(parts[4]); err != nil || id.Challenge < 1 {
			return SubtopicID{}, fmt.Errorf("subtopic id %q: bad challenge index %q", raw, parts[4])
		}
	}
	return id, nil
}

// TopicIdx returns the 0-based topic index for syllabus array access.
func (s SubtopicID) TopicIdx() int { return s.Topic - 1 }

// SubtopicIdx returns the 0-based subtopic index for syllabus array access.
func (s SubtopicID) SubtopicIdx() int { return s.Subtopic - 1 }

// ChallengeIdx returns the 0-based challenge index, or -1 when the id
// carries no challenge component.
func (s SubtopicID) ChallengeIdx() int { return s.Challenge - 1 }

// IsChallenge reports whether the id addresses a coding challenge.
func (s SubtopicID) IsChallenge() bool { return s.Kind == KindChallenge }

// IsDSAProblemSet reports whether the raw identifier carries both the DSA
// marker and the problemset marker. Such ids select the practice-sheet
// protocol in the prompt builder and skip the default-content table.
//
// The check is token-based on the raw string rather than on the parsed
// fields because the original ids place the markers positionally but old
// clients have been observed emitting them out of order.
func IsDSAProblemSet(raw string) bool {
	parts := strings.Split(raw, "_")
	hasDSA, hasSet := false, false
	for _, p := range parts {
		switch p {
		case DSALanguage:
			hasDSA = true
		case KindProblemSet:
			hasSet = true
		}
	}
	return hasDSA && hasSet
}

// SubtopicIDFor builds the canonical identifier for a subtopic from
// 0-based syllabus indices.
func SubtopicIDFor(language string, topicIdx, subtopicIdx int) string {
	return fmt.Sprintf("%s_%s_%d_%d", language, KindSubtopic, topicIdx+1, subtopicIdx+1)
}

// ChallengeIDFor builds the canonical identifier for a challenge from
// 0-based syllabus indices.
func ChallengeIDFor(language string, topicIdx, subtopicIdx, challengeIdx int) string {
	return fmt.Sprintf("%s_%s_%d_%d_%d", language, KindChallenge, topicIdx+1, subtopicIdx+1, challengeIdx+1)
}
