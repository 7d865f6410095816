// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package conversation holds chat history for the tutor service: a
// bounded in-memory cache in front of a durable store.
//
// History is keyed by (userID, subtopicID). Reads go cache first, then
// store; writes append to both. The cache keeps only the most recent
// exchanges per key and evicts whole keys LRU when it holds too many
// conversations, so memory stays bounded no matter how many users are
// active.
package conversation

import (
	"container/list"
	"sync"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

const (
	// DefaultMaxExchanges is how many exchanges are kept per
	// conversation, in the cache and in store reads alike. Older
	// exchanges stay in the store but are never replayed to the model.
	DefaultMaxExchanges = 15

	// DefaultMaxConversations bounds how many (user, subtopic) keys
	// the cache holds before evicting the least recently used one.
	DefaultMaxConversations = 1024
)

// Cache is a bounded, thread-safe conversation cache.
//
// Exchanges within a key are ordered oldest first, matching the order
// prompts are assembled in. Get returns a copy; callers may not mutate
// cached history through the returned slice.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	maxKeys   int
	maxPerKey int
}

type cacheEntry struct {
	key       string
	exchanges []datatypes.Exchange
}

// NewCache returns a Cache bounded to maxConversations keys with at
// most maxExchanges exchanges per key. Non-positive bounds take the
// package defaults.
func NewCache(maxConversations, maxExchanges int) *Cache {
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	return &Cache{
		entries:   make(map[string]*list.Element),
		order:     list.New(),
		maxKeys:   maxConversations,
		maxPerKey: maxExchanges,
	}
}

// Key builds the cache key for a conversation.
func Key(userID, subtopicID string) string {
	return userID + "/" + subtopicID
}

// Get returns the cached exchanges for the key, oldest first, and
// whether the key was present. A present key with zero exchanges is
// still a hit.
func (c *Cache) Get(userID, subtopicID string) ([]datatypes.Exchange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[Key(userID, subtopicID)]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)

	out := make([]datatypes.Exchange, len(entry.exchanges))
	copy(out, entry.exchanges)
	return out, true
}

// Put replaces the cached history for the key, keeping only the most
// recent maxExchanges entries. Exchanges must be ordered oldest first.
func (c *Cache) Put(userID, subtopicID string, exchanges []datatypes.Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := trimOldest(exchanges, c.maxPerKey)
	key := Key(userID, subtopicID)

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).exchanges = trimmed
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, exchanges: trimmed})
	c.entries[key] = elem
	c.evictLocked()
}

// Append adds one exchange to the key's history, creating the key if
// absent and trimming to the per-key bound.
func (c *Cache) Append(userID, subtopicID string, ex datatypes.Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(userID, subtopicID)
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.exchanges = trimOldest(append(entry.exchanges, ex), c.maxPerKey)
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, exchanges: []datatypes.Exchange{ex}})
	c.entries[key] = elem
	c.evictLocked()
}

// Len reports how many conversations are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops least recently used keys until the bound holds.
// Caller must hold c.mu.
func (c *Cache) evictLocked() {
	for len(c.entries) > c.maxKeys {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// trimOldest keeps the last max entries of exchanges, copying so the
// cache never aliases caller slices.
func trimOldest(exchanges []datatypes.Exchange, max int) []datatypes.Exchange {
	if len(exchanges) > max {
		exchanges = exchanges[len(exchanges)-max:]
	}
	out := make([]datatypes.Exchange, len(exchanges))
	copy(out, exchanges)
	return out
}
