// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

func exchange(user, ai string) datatypes.Exchange {
	return datatypes.Exchange{
		UserID:      "u1",
		SubtopicID:  "python_subtopic_1_1",
		UserMessage: user,
		AIResponse:  ai,
	}
}

func TestCacheGetMiss(t *testing.T) {
	c := NewCache(4, 15)

	got, ok := c.Get("u1", "python_subtopic_1_1")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCachePutGetRoundtrip(t *testing.T) {
	c := NewCache(4, 15)
	c.Put("u1", "python_subtopic_1_1", []datatypes.Exchange{
		exchange("", "lesson"),
		exchange("q1", "a1"),
	})

	got, ok := c.Get("u1", "python_subtopic_1_1")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "lesson", got[0].AIResponse)
	assert.Equal(t, "q1", got[1].UserMessage)
}

func TestCacheGetReturnsCopy(t *testing.T) {
	c := NewCache(4, 15)
	c.Put("u1", "python_subtopic_1_1", []datatypes.Exchange{exchange("q", "a")})

	got, ok := c.Get("u1", "python_subtopic_1_1")
	require.True(t, ok)
	got[0].AIResponse = "mutated"

	again, ok := c.Get("u1", "python_subtopic_1_1")
	require.True(t, ok)
	assert.Equal(t, "a", again[0].AIResponse)
}

func TestCachePerKeyBoundKeepsMostRecent(t *testing.T) {
	c := NewCache(4, 15)

	var history []datatypes.Exchange
	for i := 0; i < 20; i++ {
		history = append(history, exchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}
	c.Put("u1", "python_subtopic_1_1", history)

	got, ok := c.Get("u1", "python_subtopic_1_1")
	require.True(t, ok)
	require.Len(t, got, 15)
	// The oldest five were dropped; order stays oldest first.
	assert.Equal(t, "q5", got[0].UserMessage)
	assert.Equal(t, "q19", got[14].UserMessage)
}

func TestCacheAppendTrims(t *testing.T) {
	c := NewCache(4, 3)
	for i := 0; i < 5; i++ {
		c.Append("u1", "s", exchange(fmt.Sprintf("q%d", i), "a"))
	}

	got, ok := c.Get("u1", "s")
	require.True(t, ok)
	require.Len(t, got, 3)
	assert.Equal(t, "q2", got[0].UserMessage)
	assert.Equal(t, "q4", got[2].UserMessage)
}

func TestCacheEvictsLeastRecentlyUsedKey(t *testing.T) {
	c := NewCache(2, 15)
	c.Put("u1", "a", []datatypes.Exchange{exchange("", "a")})
	c.Put("u1", "b", []datatypes.Exchange{exchange("", "b")})

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("u1", "a")
	require.True(t, ok)

	c.Put("u1", "c", []datatypes.Exchange{exchange("", "c")})
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("u1", "b")
	assert.False(t, ok, "least recently used key should be evicted")
	_, ok = c.Get("u1", "a")
	assert.True(t, ok)
	_, ok = c.Get("u1", "c")
	assert.True(t, ok)
}

func TestCacheKeysAreUserScoped(t *testing.T) {
	c := NewCache(8, 15)
	c.Put("u1", "s", []datatypes.Exchange{exchange("", "u1 lesson")})
	c.Put("u2", "s", []datatypes.Exchange{exchange("", "u2 lesson")})

	got, ok := c.Get("u2", "s")
	require.True(t, ok)
	assert.Equal(t, "u2 lesson", got[0].AIResponse)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(64, 15)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("s%d", n%8)
			for j := 0; j < 100; j++ {
				c.Append("u1", key, exchange("q", "a"))
				c.Get("u1", key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}
