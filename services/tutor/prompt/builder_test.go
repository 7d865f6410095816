// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

func TestParamsFirstTurn(t *testing.T) {
	p := Params(true)
	require.NotNil(t, p.Temperature)
	require.NotNil(t, p.MaxTokens)
	assert.InDelta(t, 1.0, float64(*p.Temperature), 0.001)
	assert.Equal(t, 2000, *p.MaxTokens)
}

func TestParamsContinuation(t *testing.T) {
	p := Params(false)
	require.NotNil(t, p.Temperature)
	require.NotNil(t, p.MaxTokens)
	assert.InDelta(t, 0.3, float64(*p.Temperature), 0.001)
	assert.Equal(t, 1500, *p.MaxTokens)
}

func TestBuildInitialTheory(t *testing.T) {
	id, err := datatypes.ParseSubtopicID("Python_subtopic_1_2")
	require.NoError(t, err)

	got := BuildInitial(id, "Loops and iteration", "Python")
	assert.Contains(t, got, "educational introduction")
	assert.Contains(t, got, "SubtopicID: Python_subtopic_1_2")
	assert.Contains(t, got, "Topic Description: Loops and iteration")
	assert.Contains(t, got, "Key Takeaways")
}

func TestBuildInitialChallenge(t *testing.T) {
	id, err := datatypes.ParseSubtopicID("Python_challenge_1_2_1")
	require.NoError(t, err)

	got := BuildInitial(id, "Reverse a list in place", "Python")
	assert.Contains(t, got, "engaging programming challenge for Python")
	assert.Contains(t, got, "Challenge Description: Reverse a list in place")
	assert.Contains(t, got, "Do not provide the solution")
}

func TestBuildContinuation(t *testing.T) {
	got := Build("Python_subtopic_1_2", "why does this loop not terminate?", 3)
	assert.True(t, strings.HasPrefix(got, "User: why does this loop not terminate?."))
	assert.Contains(t, got, "Python_subtopic_1_2")
}

func TestBuildDSAProblemSetFirstMessage(t *testing.T) {
	got := Build("DSA_problemset_1_1", "I want to practice sliding window", 0)
	assert.Contains(t, got, "Challenge Sheet Generation Protocol")
	assert.Contains(t, got, "User: I want to practice sliding window.")
	assert.NotContains(t, got, "Debugging Workflow")
}

func TestBuildDSAProblemSetContinuation(t *testing.T) {
	got := Build("DSA_problemset_1_1", "need a hint", 4)
	assert.Contains(t, got, "Challenge Assistance Protocol")
	assert.Contains(t, got, "Debugging Workflow")
	assert.NotContains(t, got, "Challenge Sheet Generation Protocol")
}

func TestMessagesReplayOrderAndFallbacks(t *testing.T) {
	history := []datatypes.Exchange{
		{UserMessage: "", AIResponse: "lesson text"}, // bootstrap turn
		{UserMessage: "q1", AIResponse: ""},
	}

	msgs := Messages(history, "the prompt", false)
	require.Len(t, msgs, 5)

	assert.Equal(t, datatypes.RoleUser, msgs[0].Role)
	assert.Equal(t, "No user message", msgs[0].Content)
	assert.Equal(t, datatypes.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "lesson text", msgs[1].Content)
	assert.Equal(t, "q1", msgs[2].Content)
	assert.Equal(t, "No AI response", msgs[3].Content)
	assert.Equal(t, datatypes.RoleUser, msgs[4].Role)
	assert.Equal(t, "the prompt", msgs[4].Content)
}

func TestMessagesFirstTurnSystemMessage(t *testing.T) {
	msgs := Messages(nil, "initial prompt", true)
	require.Len(t, msgs, 2)
	assert.Equal(t, datatypes.RoleSystem, msgs[0].Role)
	assert.Equal(t, InitialSystemMessage, msgs[0].Content)
	assert.Equal(t, "initial prompt", msgs[1].Content)
}

func TestExtractStoredMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no code attached",
			in:   "  explain closures  ",
			want: "explain closures",
		},
		{
			name: "code stripped at delimiter",
			in:   "fix my loop. (only refer to code if needed otherwise ignore code) Here is my code: for i in range(10): print(i)",
			want: "fix my loop. (only refer to code if needed otherwise ignore code)",
		},
		{
			name: "delimiter at start",
			in:   "Here is my code: x = 1",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractStoredMessage(tt.in))
		})
	}
}
