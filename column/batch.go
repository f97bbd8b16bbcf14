package column

import (
	"fmt"

	"github.com/paiml/trueno-db/errs"
)

// Bitmap is a packed, LSB-first validity bitmap, one bit per row, matching
// the Arrow convention used by the teacher's Series.NewSeriesF64WithNulls.
type Bitmap []uint64

func NewBitmap(n int) Bitmap {
	return make(Bitmap, (n+63)/64)
}

func (b Bitmap) Set(i int, valid bool) {
	if valid {
		b[i/64] |= 1 << uint(i%64)
	}
}

func (b Bitmap) Get(i int) bool {
	if b == nil {
		return true
	}
	return b[i/64]&(1<<uint(i%64)) != 0
}

func (b Bitmap) bytes() int { return len(b) * 8 }

// Column is one typed array within a batch. Exactly one of the typed
// slices is populated, selected by Type — a closed variant set, not open
// dynamic dispatch, per the engine's design notes on polymorphic kernels.
type Column struct {
	Name     string
	Type     DType
	Nullable bool
	Valid    Bitmap // nil when Nullable is false

	I32 []int32
	I64 []int64
	F32 []float32
	F64 []float64
	Str []string
	Bln []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Type {
	case Int32:
		return len(c.I32)
	case Int64:
		return len(c.I64)
	case Float32:
		return len(c.F32)
	case Float64:
		return len(c.F64)
	case Utf8:
		return len(c.Str)
	case Boolean:
		return len(c.Bln)
	default:
		return 0
	}
}

// IsValid reports whether row i is non-null. Always true for non-nullable
// columns.
func (c *Column) IsValid(i int) bool {
	if !c.Nullable {
		return true
	}
	return c.Valid.Get(i)
}

// Bytes returns the exact memory footprint of the column: typed values plus
// any validity bitmap, matching the dispatcher's bytes input (spec §4.3)
// and morsel sizing (spec §4.1).
func (c *Column) Bytes() int {
	n := c.Len()
	var base int
	switch c.Type {
	case Utf8:
		for _, s := range c.Str {
			base += len(s)
		}
	default:
		base = n * c.Type.byteWidth()
	}
	return base + c.Valid.bytes()
}

// slice returns a zero-copy row-range view of the column (used by morsels
// and Top-K/filter projection). start/end are row indices, end-exclusive.
func (c *Column) slice(start, end int) *Column {
	out := &Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	if c.Nullable && c.Valid != nil {
		v := NewBitmap(end - start)
		for i := start; i < end; i++ {
			v.Set(i-start, c.Valid.Get(i))
		}
		out.Valid = v
	}
	switch c.Type {
	case Int32:
		out.I32 = c.I32[start:end]
	case Int64:
		out.I64 = c.I64[start:end]
	case Float32:
		out.F32 = c.F32[start:end]
	case Float64:
		out.F64 = c.F64[start:end]
	case Utf8:
		out.Str = c.Str[start:end]
	case Boolean:
		out.Bln = c.Bln[start:end]
	}
	return out
}

// ColumnBatch is a schema plus one typed array per field, all sharing the
// same row count N. Immutable after construction.
type ColumnBatch struct {
	schema  Schema
	columns []*Column
	rows    int
}

// NewColumnBatch validates that every column's length matches and that the
// set of columns agrees with schema, then returns an immutable batch.
func NewColumnBatch(schema Schema, columns []*Column) (*ColumnBatch, error) {
	if len(columns) != len(schema.Fields) {
		return nil, errs.Newf(errs.SchemaMismatch, "batch has %d columns, schema has %d fields", len(columns), len(schema.Fields))
	}
	rows := -1
	for i, f := range schema.Fields {
		c := columns[i]
		if c.Name != f.Name || c.Type != f.Type {
			return nil, errs.Newf(errs.SchemaMismatch, "column %d is %s:%s, schema expects %s:%s", i, c.Name, c.Type, f.Name, f.Type).WithColumn(f.Name)
		}
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, errs.Newf(errs.SchemaMismatch, "column %q has %d rows, batch has %d", c.Name, c.Len(), rows).WithColumn(c.Name)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &ColumnBatch{schema: schema, columns: columns, rows: rows}, nil
}

// Schema returns the batch's schema.
func (b *ColumnBatch) Schema() Schema { return b.schema }

// Rows returns the number of rows (N) in every column of the batch.
func (b *ColumnBatch) Rows() int { return b.rows }

// Column returns the i-th column.
func (b *ColumnBatch) Column(i int) *Column { return b.columns[i] }

// ColumnByName returns the named column, or nil if absent.
func (b *ColumnBatch) ColumnByName(name string) *Column {
	i := b.schema.IndexOf(name)
	if i < 0 {
		return nil
	}
	return b.columns[i]
}

// Width returns the number of columns.
func (b *ColumnBatch) Width() int { return len(b.columns) }

// Bytes returns the batch's total memory footprint, used by morsel sizing.
func (b *ColumnBatch) Bytes() int {
	total := 0
	for _, c := range b.columns {
		total += c.Bytes()
	}
	return total
}

// Slice returns a zero-copy row-range view [start, end) of the batch. It
// never straddles the source batch's own boundaries since start/end are
// always within [0, Rows()].
func (b *ColumnBatch) Slice(start, end int) *ColumnBatch {
	if start < 0 || end > b.rows || start > end {
		panic(fmt.Sprintf("column: slice [%d:%d) out of range for %d rows", start, end, b.rows))
	}
	cols := make([]*Column, len(b.columns))
	for i, c := range b.columns {
		cols[i] = c.slice(start, end)
	}
	return &ColumnBatch{schema: b.schema, columns: cols, rows: end - start}
}
