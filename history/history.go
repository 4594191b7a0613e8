// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package history keeps a bounded list of recently generated QR codes.

Records are listed newest first.  Adding a text that is already
recorded replaces the old record, and the oldest records are dropped
beyond the store's capacity.
*/
package history // import "github.com/BadassAman4014/Simple-Qr-code-Generator/history"

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxItems is the default number of records kept.
const DefaultMaxItems = 20

// ErrNotFound is returned when removing a record that does not exist.
var ErrNotFound = errors.New("history: record not found")

// A Record is a generated QR code image.
type Record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Format    string    `json:"format"` // image format name, e.g. "png"
	Image     []byte    `json:"-"`
}

// A Store keeps Records.  Implementations are safe for concurrent
// use.
type Store interface {
	// Add records an image generated from text and returns the
	// new Record.
	Add(ctx context.Context, text string, image []byte, format string) (Record, error)

	// List returns all Records, newest first.
	List(ctx context.Context) ([]Record, error)

	// Remove deletes the Record with the given ID.  It returns
	// ErrNotFound if there is none.
	Remove(ctx context.Context, id string) error

	// Clear deletes all Records.
	Clear(ctx context.Context) error

	// Close releases the resources held by the Store.
	Close() error
}

// newRecord returns a Record with a fresh ID.
func newRecord(text string, image []byte, format string, now time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: now.Truncate(time.Millisecond),
		Format:    format,
		Image:     image,
	}
}

// MemStore is a Store kept in memory.
type MemStore struct {
	mu  sync.Mutex
	max int
	rec []Record // newest first
	now func() time.Time
}

// NewMemStore returns an empty MemStore keeping up to max Records,
// or DefaultMaxItems if max is not positive.
func NewMemStore(max int) *MemStore {
	if max <= 0 {
		max = DefaultMaxItems
	}
	return &MemStore{max: max, now: time.Now}
}

func (s *MemStore) Add(_ context.Context, text string, image []byte, format string) (Record, error) {
	r := newRecord(text, image, format, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := make([]Record, 1, s.max)
	rec[0] = r
	for _, v := range s.rec {
		if v.Text != text && len(rec) < s.max {
			rec = append(rec, v)
		}
	}
	s.rec = rec
	return r, nil
}

func (s *MemStore) List(context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.rec...), nil
}

func (s *MemStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.rec {
		if v.ID == id {
			s.rec = append(s.rec[:i:i], s.rec[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) Clear(context.Context) error {
	s.mu.Lock()
	s.rec = nil
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Close() error { return nil }
