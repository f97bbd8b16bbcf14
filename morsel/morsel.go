// Package morsel implements lazy, bounded-size slicing of a column.Store
// into fixed-byte-budget chunks suitable for a single compute dispatch.
//
// Iteration is grounded on the teacher's own work-stealing MorselIterator
// (parallel.go) generalized from a flat row range into a store-spanning,
// batch-respecting sequence: a morsel never straddles two batches.
package morsel

import "github.com/paiml/trueno-db/column"

// Morsel is a zero-copy slice (contiguous row range) of exactly one
// underlying batch.
type Morsel struct {
	Batch      *column.ColumnBatch
	Start, End int // row range within Batch, end-exclusive
}

// Rows returns the number of rows in the morsel.
func (m Morsel) Rows() int { return m.End - m.Start }

// View returns the zero-copy column.ColumnBatch view for this morsel.
func (m Morsel) View() *column.ColumnBatch {
	if m.Start == 0 && m.End == m.Batch.Rows() {
		return m.Batch
	}
	return m.Batch.Slice(m.Start, m.End)
}

// Iterator produces a lazy, finite, non-restartable sequence of morsels
// over a store's batches, in store order. The global sequence is the
// concatenation across batches; within a batch, contiguous slices of
// rowsPerMorsel rows are emitted, with the remainder as the batch's last
// morsel (spec §4.1).
type Iterator struct {
	budgetBytes int
	batches     []*column.ColumnBatch
	batchIdx    int
	cursor      int
}

// NewIterator builds a morsel iterator over batches with the given byte
// budget per morsel. budgetBytes <= 0 defaults to column.MorselBytes.
func NewIterator(batches []*column.ColumnBatch, budgetBytes int) *Iterator {
	if budgetBytes <= 0 {
		budgetBytes = column.MorselBytes
	}
	return &Iterator{budgetBytes: budgetBytes, batches: batches}
}

// Next returns the next morsel and true, or a zero Morsel and false when
// the sequence is exhausted. An empty batch yields zero morsels; an empty
// store yields an empty sequence.
func (it *Iterator) Next() (Morsel, bool) {
	for it.batchIdx < len(it.batches) {
		b := it.batches[it.batchIdx]
		rows := b.Rows()
		if rows == 0 {
			it.batchIdx++
			it.cursor = 0
			continue
		}

		rowsPerMorsel := rowsPerMorsel(b.Bytes(), rows, it.budgetBytes)

		start := it.cursor
		end := start + rowsPerMorsel
		if end > rows {
			end = rows
		}
		it.cursor = end
		if it.cursor >= rows {
			it.batchIdx++
			it.cursor = 0
		}
		return Morsel{Batch: b, Start: start, End: end}, true
	}
	return Morsel{}, false
}

// rowsPerMorsel implements the exact sizing rule of spec §4.1:
// bytes_per_row = batch_bytes / batch_rows (treating 0 bytes_per_row as 1
// to avoid divide-by-zero), rows_per_morsel = budgetBytes / bytes_per_row,
// with a floor of 1 row so a budget smaller than one row still makes
// progress (one-row morsels).
func rowsPerMorsel(batchBytes, batchRows, budgetBytes int) int {
	bytesPerRow := 0
	if batchRows > 0 {
		bytesPerRow = batchBytes / batchRows
	}
	if bytesPerRow <= 0 {
		bytesPerRow = 1
	}
	n := budgetBytes / bytesPerRow
	if n < 1 {
		n = 1
	}
	return n
}

// All drains the iterator, returning every morsel. Convenience for callers
// that do not need to stream.
func (it *Iterator) All() []Morsel {
	var out []Morsel
	for {
		m, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}
