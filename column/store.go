package column

import (
	"sync"

	"github.com/paiml/trueno-db/errs"
)

// MorselBytes is the fixed byte budget for a single morsel dispatch unit:
// 128 MiB, per spec §3/§6.
const MorselBytes = 128 * 1024 * 1024

// Store is an ordered, append-only sequence of batches sharing one schema.
// Batches are never mutated or removed once appended (spec §3 invariants).
type Store struct {
	mu      sync.RWMutex
	schema  Schema
	batches []*ColumnBatch
}

// NewStore creates an empty store bound to schema.
func NewStore(schema Schema) *Store {
	return &Store{schema: schema}
}

// Schema returns the store's fixed schema.
func (s *Store) Schema() Schema { return s.schema }

// Append adds a batch to the store. It fails with errs.SchemaMismatch when
// the batch's schema differs from the store's by field name or type;
// success is additive (spec §8 "Append soundness").
func (s *Store) Append(b *ColumnBatch) error {
	if b == nil {
		return errs.New(errs.SchemaMismatch, "cannot append a nil batch")
	}
	if !s.schema.Equal(b.Schema()) {
		return errs.New(errs.SchemaMismatch, "appended batch schema does not match store schema")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
	return nil
}

// UpdateRow unconditionally fails: this engine is columnar-OLAP by
// contract and never performs random row mutation (spec §4.1).
func (s *Store) UpdateRow(row int, vals ...any) error {
	return errs.New(errs.Unsupported, "random row updates are not supported; the store is append-only")
}

// Batches returns a snapshot slice of the store's batches in append order.
func (s *Store) Batches() []*ColumnBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ColumnBatch, len(s.batches))
	copy(out, s.batches)
	return out
}

// Rows returns the total row count across all batches.
func (s *Store) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.batches {
		n += b.Rows()
	}
	return n
}

// Bytes returns the total byte footprint across all batches.
func (s *Store) Bytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.batches {
		n += b.Bytes()
	}
	return n
}
