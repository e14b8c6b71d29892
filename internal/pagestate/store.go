// Package pagestate tracks one pagination cursor per source: resume
// position, exhaustion flag, and the query fingerprint the cursor was
// built for.
package pagestate

import (
	"sync"

	"matchfeed-engine/internal/domain"
)

// Cursor marks where the next fetch for a source resumes. Token is used by
// the server-paginated collections; Offset by the job-ad search API.
type Cursor struct {
	Token       string
	Offset      int
	HasMore     bool
	Fingerprint string
}

type Store struct {
	mu      sync.Mutex
	cursors map[domain.Source]Cursor
}

func NewStore() *Store {
	return &Store{cursors: make(map[domain.Source]Cursor)}
}

// Get returns the stored cursor, or a fresh one (HasMore=true) before the
// first fetch.
func (s *Store) Get(src domain.Source) Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cursors[src]; ok {
		return c
	}
	return Cursor{HasMore: true}
}

// Advance replaces the stored cursor. Replacing, not accumulating, makes
// applying the same page twice a no-op.
func (s *Store) Advance(src domain.Source, c Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[src] = c
}

func (s *Store) Reset(src domain.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cursors, src)
}

func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = make(map[domain.Source]Cursor)
}

// SyncFingerprint compares fp against the stored cursor's fingerprint and
// resets the cursor when they differ (the subject's skill set changed, so
// the old offset points into a different result stream). Returns the
// cursor to use for the next fetch.
func (s *Store) SyncFingerprint(src domain.Source, fp string) Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cursors[src]
	if !ok || c.Fingerprint != fp {
		c = Cursor{HasMore: true, Fingerprint: fp}
		s.cursors[src] = c
	}
	return c
}
