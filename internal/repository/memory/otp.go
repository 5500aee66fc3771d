// Package memory provides mutex-guarded stores for local development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.OTPStore = (*OTPStore)(nil)

type OTPStore struct {
	mu      sync.Mutex
	records map[string]model.OTPRecord
}

func NewOTPStore() *OTPStore {
	return &OTPStore{records: make(map[string]model.OTPRecord)}
}

func (s *OTPStore) Get(_ context.Context, mobileNumber string) (model.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[mobileNumber]
	if !ok {
		return model.OTPRecord{}, model.ErrNotFound
	}
	return rec, nil
}

func (s *OTPStore) Merge(_ context.Context, mobileNumber string, patch model.OTPPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[mobileNumber]
	if !ok {
		rec = model.OTPRecord{MobileNumber: mobileNumber, CreatedAt: patch.At}
	}
	patch.Apply(&rec)
	s.records[mobileNumber] = rec
	return nil
}

func (s *OTPStore) IncrementAttempts(_ context.Context, mobileNumber string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[mobileNumber]
	if !ok {
		return 0, model.ErrNotFound
	}
	rec.Attempts++
	s.records[mobileNumber] = rec
	return rec.Attempts, nil
}

func (s *OTPStore) Delete(_ context.Context, mobileNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, mobileNumber)
	return nil
}

// PurgeExpired removes records whose code expired before cutoff.
func (s *OTPStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, rec := range s.records {
		if rec.ExpiresAt != nil && rec.ExpiresAt.Before(cutoff) {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}
