package otp

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// MemoryStore keeps records in a process-local map. Suitable for a
// single instance; codes do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Issue(_ context.Context, identifier, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.records[identifier] = &Record{
		Code:      code,
		ExpiresAt: now.Add(TTL),
		Attempts:  0,
		CreatedAt: now,
	}
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, identifier, code string) (VerifyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok {
		return VerifyResult{Status: StatusNotFound}, nil
	}

	if s.now().After(rec.ExpiresAt) {
		delete(s.records, identifier)
		return VerifyResult{Status: StatusExpired}, nil
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		rec.Attempts++
		if rec.Attempts >= MaxAttempts {
			delete(s.records, identifier)
			return VerifyResult{Status: StatusExhausted}, nil
		}
		return VerifyResult{Status: StatusMismatch, Remaining: MaxAttempts - rec.Attempts}, nil
	}

	// Single use: a correct code consumes the record.
	delete(s.records, identifier)
	return VerifyResult{Status: StatusOK}, nil
}

func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	reclaimed := 0
	for id, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, id)
			reclaimed++
		}
	}
	return reclaimed, nil
}

func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}
