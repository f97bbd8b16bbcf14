// Package topk implements the bounded-heap order-preserving Top-K
// projection (spec §4.6): the k rows whose value in a designated column
// are extremal under a given order, in O(N log k) time and O(k) space.
package topk

import (
	"container/heap"
	"math"
	"sort"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
)

// Order selects the direction of extremal-ness.
type Order uint8

const (
	Ascending Order = iota
	Descending
)

// TopK returns the k rows of b whose value in column colIndex is extremal
// under order, preserving schema and row-parallel column structure (no
// column shearing). Degrades to a full sort when k >= N. Fails with
// errs.InvalidInput on k=0 or an out-of-range colIndex.
func TopK(b *column.ColumnBatch, colIndex, k int, order Order) (*column.ColumnBatch, error) {
	if k <= 0 {
		return nil, errs.New(errs.InvalidInput, "k must be > 0")
	}
	if colIndex < 0 || colIndex >= b.Width() {
		return nil, errs.Newf(errs.InvalidInput, "column index %d out of range for width %d", colIndex, b.Width())
	}

	n := b.Rows()
	keys := extractKeys(b.Column(colIndex))

	var selected []int
	if k >= n {
		selected = make([]int, n)
		for i := range selected {
			selected[i] = i
		}
		sortIndicesByKey(selected, keys, order)
	} else {
		selected = heapSelect(keys, k, order)
		sortIndicesByKey(selected, keys, order)
	}

	return projectRows(b, selected), nil
}

// key is the comparable form extractKeys builds for each row. Strings are
// kept as-is and compared lexicographically; ints/floats/booleans convert
// to a float64 (float64 has enough precision for Top-K's ordering
// purposes; ties within 2^53 integers are exact).
type key struct {
	f   float64
	s   string
	str bool
	nan bool
}

func extractKeys(c *column.Column) []key {
	n := c.Len()
	keys := make([]key, n)
	switch c.Type {
	case column.Int32:
		for i, v := range c.I32 {
			keys[i] = key{f: float64(v)}
		}
	case column.Int64:
		for i, v := range c.I64 {
			keys[i] = key{f: float64(v)}
		}
	case column.Float32:
		for i, v := range c.F32 {
			keys[i] = key{f: float64(v), nan: math.IsNaN(float64(v))}
		}
	case column.Float64:
		for i, v := range c.F64 {
			keys[i] = key{f: v, nan: math.IsNaN(v)}
		}
	case column.Utf8:
		for i, v := range c.Str {
			keys[i] = key{s: v, str: true}
		}
	case column.Boolean:
		for i, v := range c.Bln {
			if v {
				keys[i] = key{f: 1}
			}
		}
	}
	return keys
}

// less reports whether a sorts strictly before b. NaN is treated as
// "never wins a comparison" in either direction: it is deterministic
// across calls on the same input, but its placement relative to other
// values is implementation-defined (spec §4.6/§9 Open Question, decided:
// NaNs never win a heap replacement, so they are the first evicted under
// both orders — see DESIGN.md).
func less(a, b key) bool {
	if a.str || b.str {
		return a.s < b.s
	}
	if a.nan {
		return false
	}
	if b.nan {
		return true
	}
	return a.f < b.f
}

// worseUnder reports whether candidate is strictly worse than incumbent
// under order, i.e. would never replace it at the top of the bounded
// heap. NaN is always worse than anything, including another NaN.
func worseUnder(order Order, candidate, incumbent key) bool {
	if candidate.nan {
		return true
	}
	if incumbent.nan {
		return false
	}
	if order == Descending {
		return less(candidate, incumbent) || equalKey(candidate, incumbent)
	}
	return less(incumbent, candidate) || equalKey(candidate, incumbent)
}

func equalKey(a, b key) bool {
	if a.str || b.str {
		return a.s == b.s
	}
	return a.f == b.f
}

// heapSelect runs a single pass with a bounded heap of capacity k: a
// min-heap for Descending (smallest retained value at the top, replaced
// when a new value is strictly greater) and symmetrically a max-heap for
// Ascending.
func heapSelect(keys []key, k int, order Order) []int {
	h := &boundedHeap{order: order}
	for i, kv := range keys {
		if h.Len() < k {
			heap.Push(h, idxKey{idx: i, key: kv})
			continue
		}
		top := h.items[0]
		if !worseUnder(order, kv, top.key) {
			heap.Pop(h)
			heap.Push(h, idxKey{idx: i, key: kv})
		}
	}
	out := make([]int, h.Len())
	for i, it := range h.items {
		out[i] = it.idx
	}
	return out
}

type idxKey struct {
	idx int
	key key
}

// boundedHeap is a min-heap when order==Descending (smallest of the
// retained-top-k sits at the root, so it is the first to be evicted) and
// a max-heap when order==Ascending.
type boundedHeap struct {
	items []idxKey
	order Order
}

func (h *boundedHeap) Len() int { return len(h.items) }
func (h *boundedHeap) Less(i, j int) bool {
	a, b := h.items[i].key, h.items[j].key
	if a.nan != b.nan {
		// A NaN sits at the root under both orders, so it is evicted first.
		return a.nan
	}
	if h.order == Descending {
		return less(a, b)
	}
	return less(b, a)
}
func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedHeap) Push(x any)    { h.items = append(h.items, x.(idxKey)) }
func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

// sortIndicesByKey sorts row indices in place into the final presentation
// order: descending for Descending, ascending for Ascending.
func sortIndicesByKey(idx []int, keys []key, order Order) {
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if order == Descending {
			return less(b, a)
		}
		return less(a, b)
	})
}

// projectRows builds a new batch containing exactly the given row indices,
// in order, preserving the input schema (row integrity per spec §4.6).
func projectRows(b *column.ColumnBatch, rows []int) *column.ColumnBatch {
	schema := b.Schema()
	cols := make([]*column.Column, b.Width())
	for ci := 0; ci < b.Width(); ci++ {
		cols[ci] = projectColumn(b.Column(ci), rows)
	}
	out, err := column.NewColumnBatch(schema, cols)
	if err != nil {
		// rows are always in-range indices derived from b itself, and
		// schema/columns are unchanged, so this cannot fail.
		panic(err)
	}
	return out
}

func projectColumn(c *column.Column, rows []int) *column.Column {
	out := &column.Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	switch c.Type {
	case column.Int32:
		out.I32 = make([]int32, len(rows))
		for i, r := range rows {
			out.I32[i] = c.I32[r]
		}
	case column.Int64:
		out.I64 = make([]int64, len(rows))
		for i, r := range rows {
			out.I64[i] = c.I64[r]
		}
	case column.Float32:
		out.F32 = make([]float32, len(rows))
		for i, r := range rows {
			out.F32[i] = c.F32[r]
		}
	case column.Float64:
		out.F64 = make([]float64, len(rows))
		for i, r := range rows {
			out.F64[i] = c.F64[r]
		}
	case column.Utf8:
		out.Str = make([]string, len(rows))
		for i, r := range rows {
			out.Str[i] = c.Str[r]
		}
	case column.Boolean:
		out.Bln = make([]bool, len(rows))
		for i, r := range rows {
			out.Bln[i] = c.Bln[r]
		}
	}
	if c.Nullable {
		out.Valid = column.NewBitmap(len(rows))
		for i, r := range rows {
			out.Valid.Set(i, c.Valid.Get(r))
		}
	}
	return out
}
