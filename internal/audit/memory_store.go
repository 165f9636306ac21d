// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. Used for tests and for the
// CLI dry-run mode; data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, copyRecord(rec))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			rec := copyRecord(&s.records[i])
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// Find implements Store.
func (s *MemoryStore) Find(ctx context.Context, filter Filter) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]Record, 0)
	for i := range s.records {
		if filter.Matches(&s.records[i]) {
			matched = append(matched, copyRecord(&s.records[i]))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Record) int {
		switch {
		case Less(&a, &b):
			return -1
		case Less(&b, &a):
			return 1
		}
		return 0
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []Record{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.records {
		if filter.Matches(&s.records[i]) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore implements Store.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r Record) bool {
		return r.CreatedAt.Before(cutoff)
	})
	return int64(before - len(s.records)), nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func copyRecord(r *Record) Record {
	c := *r
	c.OldValues = r.OldValues.Clone()
	c.NewValues = r.NewValues.Clone()
	c.Tags = append([]string{}, r.Tags...)
	if r.Subject != nil {
		s := *r.Subject
		c.Subject = &s
	}
	return c
}
