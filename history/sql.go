// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS history (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		text       TEXT NOT NULL,
		format     TEXT NOT NULL,
		image      BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)
`

// SQLStore is a Store kept in an SQL database.  The queries are
// written for SQLite.
type SQLStore struct {
	db  *sql.DB
	max int
	now func() time.Time
}

// Open opens the SQLite database at path and returns an SQLStore
// using it.  See NewSQLStore for max.
func Open(ctx context.Context, path string, max int) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; an in-memory database exists
	// per connection.
	db.SetMaxOpenConns(1)
	s, err := NewSQLStore(ctx, db, max)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore creates the history table in db if needed and returns
// an SQLStore keeping up to max Records, or DefaultMaxItems if max is
// not positive.  Closing the SQLStore closes db.
func NewSQLStore(ctx context.Context, db *sql.DB, max int) (*SQLStore, error) {
	if max <= 0 {
		max = DefaultMaxItems
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("history: creating table: %w", err)
	}
	return &SQLStore{db: db, max: max, now: time.Now}, nil
}

func (s *SQLStore) Add(ctx context.Context, text string, image []byte, format string) (Record, error) {
	r := newRecord(text, image, format, s.now())
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM history WHERE text = ?", text); err != nil {
		return Record{}, err
	}
	query := `
		INSERT INTO history (id, text, format, image, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		r.ID, r.Text, r.Format, r.Image, r.Timestamp.UnixMilli()); err != nil {
		return Record{}, err
	}
	query = `
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)
	`
	if _, err := tx.ExecContext(ctx, query, s.max); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, text, format, image, created_at
		FROM history
		ORDER BY seq DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rec []Record
	for rows.Next() {
		var r Record
		var ms int64
		if err := rows.Scan(&r.ID, &r.Text, &r.Format, &r.Image, &ms); err != nil {
			return nil, err
		}
		r.Timestamp = time.UnixMilli(ms)
		rec = append(rec, r)
	}
	return rec, rows.Err()
}

func (s *SQLStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM history")
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
