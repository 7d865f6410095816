// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syllabus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

const syllabusSchema = `
CREATE TABLE IF NOT EXISTS user_syllabi (
	user_id    TEXT NOT NULL,
	language   TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, language)
);
CREATE TABLE IF NOT EXISTS course_options (
	user_id    TEXT NOT NULL,
	language   TEXT NOT NULL,
	goal       TEXT NOT NULL,
	expertise  TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, language)
);
`

// Store persists each user's syllabi and their course personalization
// choices. Syllabus documents are stored as JSON blobs keyed by
// (user, language); the service never queries inside a document.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the syllabus database at path
// and bootstraps the schema. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("syllabus: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(syllabusSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("syllabus: bootstrap schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListByUser returns all syllabi the user has, ordered by language.
// A user with none gets an empty slice.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]datatypes.Syllabus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc FROM user_syllabi
		WHERE user_id = ?
		ORDER BY language`, userID)
	if err != nil {
		return nil, fmt.Errorf("syllabus: list: %w", err)
	}
	defer rows.Close()

	out := []datatypes.Syllabus{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("syllabus: scan: %w", err)
		}
		var syl datatypes.Syllabus
		if err := json.Unmarshal([]byte(doc), &syl); err != nil {
			return nil, fmt.Errorf("syllabus: decode stored doc: %w", err)
		}
		out = append(out, syl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("syllabus: list: %w", err)
	}
	return out, nil
}

// Upsert stores one syllabus for the user, replacing any existing
// syllabus for the same language.
func (s *Store) Upsert(ctx context.Context, userID string, syl datatypes.Syllabus) error {
	doc, err := json.Marshal(syl)
	if err != nil {
		return fmt.Errorf("syllabus: encode doc: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_syllabi (user_id, language, doc, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, language) DO UPDATE SET
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		userID, syl.Language, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("syllabus: upsert: %w", err)
	}
	return nil
}

// ReplaceAll swaps the user's full syllabus set for the given one.
// Used by the update-topics operation, which sends the complete set.
func (s *Store) ReplaceAll(ctx context.Context, userID string, syllabi []datatypes.Syllabus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("syllabus: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_syllabi WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("syllabus: clear: %w", err)
	}
	now := time.Now().UTC()
	for _, syl := range syllabi {
		doc, err := json.Marshal(syl)
		if err != nil {
			return fmt.Errorf("syllabus: encode doc: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_syllabi (user_id, language, doc, updated_at)
			VALUES (?, ?, ?, ?)`,
			userID, syl.Language, string(doc), now); err != nil {
			return fmt.Errorf("syllabus: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("syllabus: commit: %w", err)
	}
	return nil
}

// SaveCourseOption records the personalization choices behind a
// generated course, replacing any earlier choice for the language.
func (s *Store) SaveCourseOption(ctx context.Context, userID, language, goal string, expertise map[string]string) error {
	enc, err := json.Marshal(expertise)
	if err != nil {
		return fmt.Errorf("syllabus: encode expertise: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO course_options (user_id, language, goal, expertise, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, language) DO UPDATE SET
			goal = excluded.goal,
			expertise = excluded.expertise,
			updated_at = excluded.updated_at`,
		userID, language, goal, string(enc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("syllabus: save course option: %w", err)
	}
	return nil
}
