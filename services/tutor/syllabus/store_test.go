// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syllabus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSyllabus(language string) datatypes.Syllabus {
	return datatypes.Syllabus{
		Language: language,
		Topics: []datatypes.Topic{
			{ID: 1, Name: "Basics", Subtopics: []datatypes.Subtopic{{ID: 1, Name: "Intro"}}},
		},
	}
}

func TestStoreEmptyList(t *testing.T) {
	store := newTestStore(t)

	out, err := store.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStoreUpsertRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("Python")))
	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("C++")))

	out, err := store.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Ordered by language.
	assert.Equal(t, "C++", out[0].Language)
	assert.Equal(t, "Python", out[1].Language)
	assert.Equal(t, "Basics", out[0].Topics[0].Name)
}

func TestStoreUpsertReplacesSameLanguage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("Python")))

	updated := sampleSyllabus("Python")
	updated.Topics[0].Name = "Rewritten"
	require.NoError(t, store.Upsert(ctx, "alice", updated))

	out, err := store.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Rewritten", out[0].Topics[0].Name)
}

func TestStoreScopedByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("Python")))

	out, err := store.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStoreReplaceAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("Python")))
	require.NoError(t, store.Upsert(ctx, "alice", sampleSyllabus("C++")))

	require.NoError(t, store.ReplaceAll(ctx, "alice", []datatypes.Syllabus{sampleSyllabus("JavaScript")}))

	out, err := store.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "JavaScript", out[0].Language)
}

func TestStoreSaveCourseOption(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expertise := map[string]string{"Basics": "Expert"}
	require.NoError(t, store.SaveCourseOption(ctx, "alice", "Python", "backend", expertise))
	// Same (user, language) replaces rather than duplicates.
	require.NoError(t, store.SaveCourseOption(ctx, "alice", "Python", "dsa", expertise))
}
