// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

const conversationSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      TEXT NOT NULL,
	subtopic_id  TEXT NOT NULL,
	user_message TEXT NOT NULL,
	ai_response  TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_key
	ON conversations (user_id, subtopic_id, created_at);
`

// SQLiteStore is a Store backed by an embedded SQLite database.
//
// The driver is pure Go (modernc.org/sqlite), so the service builds
// without cgo. One store owns one *sql.DB; close it via Close.
type SQLiteStore struct {
	db  *sql.DB
	cap int
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the conversation database at
// path and bootstraps the schema. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("conversation: open sqlite: %w", err)
	}
	// SQLite permits one writer; serialize through a single conn to
	// avoid SQLITE_BUSY under concurrent chat sends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(conversationSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("conversation: bootstrap schema: %w", err)
	}
	return &SQLiteStore{db: db, cap: DefaultMaxExchanges}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Find returns the most recent exchanges for the conversation, oldest
// first, capped at the store limit. No rows means an empty slice.
func (s *SQLiteStore) Find(ctx context.Context, userID, subtopicID string) ([]datatypes.Exchange, error) {
	// Newest-first with a limit, then reversed, so the cap keeps the
	// most recent exchanges rather than the oldest.
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, subtopic_id, user_message, ai_response, created_at
		FROM conversations
		WHERE user_id = ? AND subtopic_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		userID, subtopicID, s.cap)
	if err != nil {
		return nil, fmt.Errorf("conversation: find: %w", err)
	}
	defer rows.Close()

	var newestFirst []datatypes.Exchange
	for rows.Next() {
		var ex datatypes.Exchange
		if err := rows.Scan(&ex.UserID, &ex.SubtopicID, &ex.UserMessage, &ex.AIResponse, &ex.Timestamp); err != nil {
			return nil, fmt.Errorf("conversation: scan: %w", err)
		}
		newestFirst = append(newestFirst, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: find: %w", err)
	}

	out := make([]datatypes.Exchange, len(newestFirst))
	for i, ex := range newestFirst {
		out[len(out)-1-i] = ex
	}
	return out, nil
}

// Insert appends one exchange. A zero Timestamp is stamped with the
// current time.
func (s *SQLiteStore) Insert(ctx context.Context, ex datatypes.Exchange) error {
	ts := ex.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (user_id, subtopic_id, user_message, ai_response, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ex.UserID, ex.SubtopicID, ex.UserMessage, ex.AIResponse, ts)
	if err != nil {
		return fmt.Errorf("conversation: insert: %w", err)
	}
	return nil
}
