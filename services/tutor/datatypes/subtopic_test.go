// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubtopicID(t *testing.T) {
	id, err := ParseSubtopicID("Python_subtopic_2_3")
	require.NoError(t, err)
	assert.Equal(t, "Python", id.Language)
	assert.Equal(t, KindSubtopic, id.Kind)
	assert.Equal(t, 2, id.Topic)
	assert.Equal(t, 3, id.Subtopic)
	assert.Equal(t, 1, id.TopicIdx())
	assert.Equal(t, 2, id.SubtopicIdx())
	assert.False(t, id.IsChallenge())
}

func TestParseSubtopicIDChallenge(t *testing.T) {
	id, err := ParseSubtopicID("C++_challenge_1_2_3")
	require.NoError(t, err)
	assert.True(t, id.IsChallenge())
	assert.Equal(t, 3, id.Challenge)
	assert.Equal(t, 2, id.ChallengeIdx())
}

func TestParseSubtopicIDErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few parts", "Python_subtopic_1"},
		{"unknown kind", "Python_lesson_1_1"},
		{"non numeric topic", "Python_subtopic_x_1"},
		{"zero index", "Python_subtopic_0_1"},
		{"bad challenge index", "Python_challenge_1_1_x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSubtopicID(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestIsDSAProblemSet(t *testing.T) {
	assert.True(t, IsDSAProblemSet("DSA_problemset_1_1"))
	assert.True(t, IsDSAProblemSet("problemset_DSA_1_1"), "marker order must not matter")
	assert.False(t, IsDSAProblemSet("DSA_subtopic_1_1"))
	assert.False(t, IsDSAProblemSet("Python_problemset_1_1"))
	assert.False(t, IsDSAProblemSet(""))
}

func TestIDBuilders(t *testing.T) {
	assert.Equal(t, "Python_subtopic_1_2", SubtopicIDFor("Python", 0, 1))
	assert.Equal(t, "DSA_challenge_2_3_1", ChallengeIDFor("DSA", 1, 2, 0))
}

func TestIDBuildersRoundtrip(t *testing.T) {
	raw := ChallengeIDFor("C++", 3, 0, 4)
	id, err := ParseSubtopicID(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, id.TopicIdx())
	assert.Equal(t, 0, id.SubtopicIdx())
	assert.Equal(t, 4, id.ChallengeIdx())
}

func TestStampSubtopicIDs(t *testing.T) {
	syl := Syllabus{
		Language: "Python",
		Topics: []Topic{
			{
				ID:   1,
				Name: "Fundamentals",
				Subtopics: []Subtopic{
					{ID: 1, Name: "Variables", Challenges: []Challenge{{ID: 1, Name: "Swap"}}},
					{ID: 2, Name: "Loops"},
				},
			},
			{
				ID:        2,
				Name:      "Data Structures",
				Subtopics: []Subtopic{{ID: 1, Name: "Lists"}},
			},
		},
	}
	syl.StampSubtopicIDs()

	assert.Equal(t, "Python_subtopic_1_1", syl.Topics[0].Subtopics[0].SubtopicID)
	assert.Equal(t, "Python_subtopic_1_2", syl.Topics[0].Subtopics[1].SubtopicID)
	assert.Equal(t, "Python_subtopic_2_1", syl.Topics[1].Subtopics[0].SubtopicID)
	assert.Equal(t, "Python_challenge_1_1_1", syl.Topics[0].Subtopics[0].Challenges[0].SubtopicID)
}
