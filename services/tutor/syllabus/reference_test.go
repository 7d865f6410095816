// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syllabus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

func TestReferenceLanguages(t *testing.T) {
	langs := ReferenceLanguages()

	assert.Contains(t, langs, "Python")
	assert.Contains(t, langs, "C++")
	assert.Contains(t, langs, "JavaScript")
	assert.Contains(t, langs, "DSA")
}

func TestReferenceStampsIDs(t *testing.T) {
	syl, ok := Reference("Python")
	require.True(t, ok)
	require.NotEmpty(t, syl.Topics)

	for ti, topic := range syl.Topics {
		require.NotEmpty(t, topic.Subtopics, "topic %q has no subtopics", topic.Name)
		for si, sub := range topic.Subtopics {
			assert.Equal(t, "Python", syl.Language)
			assert.NotEmpty(t, sub.Description, "subtopic %q has no description", sub.Name)
			assert.Equalf(t, datatypes.SubtopicIDFor("Python", ti, si), sub.SubtopicID, "subtopic %q", sub.Name)
		}
	}
}

func TestReferenceUnknownLanguage(t *testing.T) {
	_, ok := Reference("COBOL")
	assert.False(t, ok)
}

func TestReferenceReturnsCopy(t *testing.T) {
	first, ok := Reference("Python")
	require.True(t, ok)
	first.Topics[0].Name = "mutated"
	first.Topics[0].Subtopics[0].SubtopicID = "mutated"

	second, ok := Reference("Python")
	require.True(t, ok)
	assert.NotEqual(t, "mutated", second.Topics[0].Name)
	assert.NotEqual(t, "mutated", second.Topics[0].Subtopics[0].SubtopicID)
}

func TestDefaultContent(t *testing.T) {
	content, ok := DefaultContent("Python", "Python_subtopic_1_1")
	require.True(t, ok)
	assert.Contains(t, content, "Variables and Data Types")

	_, ok = DefaultContent("Python", "Python_subtopic_9_9")
	assert.False(t, ok)

	_, ok = DefaultContent("COBOL", "COBOL_subtopic_1_1")
	assert.False(t, ok)
}
