// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syllabus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platolabs/plato/pkg/logging"
	"github.com/platolabs/plato/services/llm"
	"github.com/platolabs/plato/services/tutor/datatypes"
)

// fakeLLM returns a canned chat completion and captures the request.
type fakeLLM struct {
	response string
	err      error

	lastMessages []datatypes.Message
	lastParams   llm.GenerationParams
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ llm.GenerationParams) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Chat(_ context.Context, messages []datatypes.Message, params llm.GenerationParams) (string, error) {
	f.lastMessages = messages
	f.lastParams = params
	return f.response, f.err
}

func (f *fakeLLM) ChatStream(_ context.Context, messages []datatypes.Message, params llm.GenerationParams, cb llm.StreamCallback) error {
	f.lastMessages = messages
	f.lastParams = params
	if f.err != nil {
		return f.err
	}
	if err := cb(llm.StreamEvent{Delta: f.response}); err != nil {
		return err
	}
	return cb(llm.StreamEvent{Done: true})
}

func newTestService(t *testing.T, model *fakeLLM) *Service {
	t.Helper()
	store := newTestStore(t)
	return NewService(store, model, logging.New(logging.Config{Quiet: true}))
}

// =============================================================================
// SelectLanguage / UpdateTopics
// =============================================================================

func TestServiceSelectLanguage(t *testing.T) {
	svc := newTestService(t, &fakeLLM{})

	out, err := svc.SelectLanguage(context.Background(), "alice", "Python")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Python", out[0].Language)
	assert.NotEmpty(t, out[0].Topics)
}

func TestServiceSelectLanguageUnknown(t *testing.T) {
	svc := newTestService(t, &fakeLLM{})

	_, err := svc.SelectLanguage(context.Background(), "alice", "COBOL")
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}

func TestServiceUpdateTopics(t *testing.T) {
	svc := newTestService(t, &fakeLLM{})
	ctx := context.Background()

	_, err := svc.SelectLanguage(ctx, "alice", "Python")
	require.NoError(t, err)

	out, err := svc.UpdateTopics(ctx, "alice", []datatypes.Syllabus{sampleSyllabus("C++")})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "C++", out[0].Language)
}

// =============================================================================
// GenerateCourse
// =============================================================================

func TestServiceGenerateCourse(t *testing.T) {
	model := &fakeLLM{response: `{
		"language": "Python",
		"topics": [
			{"id": 1, "name": "Core", "subtopics": [
				{"id": 1, "name": "Basics", "challenges": [{"id": 1, "name": "Warmup"}]}
			]}
		]
	}`}
	svc := newTestService(t, model)

	out, err := svc.GenerateCourse(context.Background(), "alice", datatypes.GenerateCourseRequest{
		Expertise: map[string]string{"Python Fundamentals": "Familiar"},
		Goal:      "backend development",
		Language:  "Python",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Python_subtopic_1_1", out[0].Topics[0].Subtopics[0].SubtopicID)
	assert.Equal(t, "Python_challenge_1_1_1", out[0].Topics[0].Subtopics[0].Challenges[0].SubtopicID)

	assert.True(t, model.lastParams.JSONMode)
	assert.Equal(t, "low", model.lastParams.ReasoningEffort)
	require.NotNil(t, model.lastParams.MaxTokens)
	assert.Equal(t, 100000, *model.lastParams.MaxTokens)
}

func TestServiceGenerateCourseEmptyTopics(t *testing.T) {
	svc := newTestService(t, &fakeLLM{response: `{"language": "Python", "topics": []}`})

	_, err := svc.GenerateCourse(context.Background(), "alice", datatypes.GenerateCourseRequest{
		Expertise: map[string]string{"Python Fundamentals": "Beginner"},
		Goal:      "backend development",
		Language:  "Python",
	})
	assert.Error(t, err)
}

func TestServiceGenerateCourseLanguageDefaulted(t *testing.T) {
	svc := newTestService(t, &fakeLLM{response: `{"topics": [{"id": 1, "name": "Core", "subtopics": [{"id": 1, "name": "Basics"}]}]}`})

	out, err := svc.GenerateCourse(context.Background(), "alice", datatypes.GenerateCourseRequest{
		Expertise: map[string]string{"Python Fundamentals": "Beginner"},
		Goal:      "backend development",
		Language:  "Python",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Python", out[0].Language, "missing language in model output falls back to the request")
}

// =============================================================================
// Prompt Assembly
// =============================================================================

func TestBuildDemoSyllabusGroupsByLevel(t *testing.T) {
	ref, ok := Reference("Python")
	require.True(t, ok)

	demo := buildDemoSyllabus(map[string]string{
		"Python Fundamentals":    "Expert",
		"Object-Oriented Python": "Expert",
		"Data Structures":        "Beginner",
	}, ref, true)

	require.Len(t, demo.Topics, 2)

	recap := demo.Topics[0]
	assert.Equal(t, "Expert", recap.Level)
	assert.True(t, strings.HasPrefix(recap.Name, "Recap of: "))
	// Sorted, so Object-Oriented precedes Python Fundamentals.
	assert.Equal(t, "Recap of: Object-Oriented Python, Python Fundamentals", recap.Name)
	assert.NotEmpty(t, recap.Subtopics)

	assert.Equal(t, "Beginner", demo.Topics[1].Level)
	assert.Equal(t, "Data Structures", demo.Topics[1].Name)
}

func TestBuildDemoSyllabusUnknownTopicSkipped(t *testing.T) {
	ref, ok := Reference("Python")
	require.True(t, ok)

	demo := buildDemoSyllabus(map[string]string{"Quantum Computing": "Beginner"}, ref, true)
	assert.Empty(t, demo.Topics)
}

func TestBuildCoursePromptGoalLines(t *testing.T) {
	ref, _ := Reference("DSA")

	dsa, err := buildCoursePrompt("DSA", "dsa", map[string]string{}, ref, true)
	require.NoError(t, err)
	assert.Contains(t, dsa, "learning DSA in C++")

	ref, _ = Reference("Python")
	py, err := buildCoursePrompt("Python", "backend development", map[string]string{}, ref, true)
	require.NoError(t, err)
	assert.Contains(t, py, "learning Python language")
}

func TestFindTopicPartialMatch(t *testing.T) {
	ref, ok := Reference("Python")
	require.True(t, ok)

	assert.NotNil(t, findTopic(ref, "fundamentals"))
	assert.NotNil(t, findTopic(ref, "Advanced Python Fundamentals and More"))
	assert.Nil(t, findTopic(ref, "Quantum Computing"))
}
