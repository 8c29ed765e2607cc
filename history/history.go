// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/history.go
// Summary: Bounded command history, SQLite-backed with in-memory fallback.
// Usage: Open at startup; Append every dispatched command line.
// Notes: Storage failures degrade to memory-only operation with a warning;
// history must never take the workspace down.

package history

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultLimit bounds retained entries when no ceiling is configured.
const DefaultLimit = 500

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	command TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store keeps recent command lines, newest last in storage order. Reads are
// served from an in-memory mirror; the database is persistence only.
type Store struct {
	db      *sql.DB
	limit   int
	entries []string // oldest first, capped at limit
}

// Open loads or creates the history database at path. When the database
// cannot be opened the store still works, memory-only.
func Open(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Store{limit: limit}
	if path == "" {
		return s
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("History: open %s: %v (memory-only)", path, err)
		return s
	}
	if _, err := db.Exec(schema); err != nil {
		log.Printf("History: init schema: %v (memory-only)", err)
		db.Close()
		return s
	}
	s.db = db
	s.loadRecent()
	return s
}

func (s *Store) loadRecent() {
	rows, err := s.db.Query(
		`SELECT command FROM (
			SELECT id, command FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, s.limit)
	if err != nil {
		log.Printf("History: load: %v", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			log.Printf("History: scan: %v", err)
			return
		}
		s.entries = append(s.entries, cmd)
	}
}

// Append records a command line. Blank lines and consecutive duplicates are
// skipped. Retention is pruned to the configured limit.
func (s *Store) Append(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}
	if len(s.entries) > 0 && s.entries[len(s.entries)-1] == command {
		return
	}
	s.entries = append(s.entries, command)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}

	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`INSERT INTO history (command) VALUES (?)`, command); err != nil {
		log.Printf("History: append: %v", err)
		return
	}
	_, err := s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, s.limit)
	if err != nil {
		log.Printf("History: prune: %v", err)
	}
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) []string {
	if n <= 0 || len(s.entries) == 0 {
		return nil
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = s.entries[len(s.entries)-1-i]
	}
	return out
}

// Len returns the number of retained entries.
func (s *Store) Len() int { return len(s.entries) }

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history db: %w", err)
	}
	return nil
}
