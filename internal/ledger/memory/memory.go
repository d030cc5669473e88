package memory

import (
	"context"
	"sync"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

// Store is the in-memory ledger store. Insertion order is preserved per
// collection; all reads return deep copies so callers cannot mutate the
// store's state behind its back.
type Store struct {
	mu      sync.Mutex
	records map[ledger.Collection][]core.LedgerRecord
	charges []core.ChargeReviewEntry
}

func New() *Store {
	return &Store{
		records: map[ledger.Collection][]core.LedgerRecord{
			ledger.Receivables: nil,
			ledger.Liabilities: nil,
		},
	}
}

func (s *Store) ListRecords(_ context.Context, col ledger.Collection) ([]core.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[col]
	out := make([]core.LedgerRecord, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (s *Store) GetRecord(_ context.Context, col ledger.Collection, id string) (core.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records[col] {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return core.LedgerRecord{}, ledger.ErrNotFound
}

// PutRecord inserts or replaces in place, keeping the record's position in
// the collection when it already exists.
func (s *Store) PutRecord(_ context.Context, col ledger.Collection, rec core.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[col]
	for i := range recs {
		if recs[i].ID == rec.ID {
			recs[i] = rec.Clone()
			return nil
		}
	}
	s.records[col] = append(recs, rec.Clone())
	return nil
}

func (s *Store) DeleteRecord(_ context.Context, col ledger.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[col]
	for i := range recs {
		if recs[i].ID == id {
			s.records[col] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return nil // idempotent
}

func (s *Store) ListCharges(_ context.Context) ([]core.ChargeReviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ChargeReviewEntry, len(s.charges))
	copy(out, s.charges)
	return out, nil
}

func (s *Store) GetCharge(_ context.Context, id string) (core.ChargeReviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.charges {
		if c.ID == id {
			return c, nil
		}
	}
	return core.ChargeReviewEntry{}, ledger.ErrNotFound
}

func (s *Store) PutCharge(_ context.Context, entry core.ChargeReviewEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.charges {
		if s.charges[i].ID == entry.ID {
			s.charges[i] = entry
			return nil
		}
	}
	s.charges = append(s.charges, entry)
	return nil
}

func (s *Store) DeleteCharge(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.charges {
		if s.charges[i].ID == id {
			s.charges = append(s.charges[:i], s.charges[i+1:]...)
			return nil
		}
	}
	return nil // idempotent
}

func (s *Store) Close() error { return nil }
