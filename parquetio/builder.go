package parquetio

import (
	"github.com/parquet-go/parquet-go"

	"github.com/paiml/trueno-db/column"
)

// builder accumulates one column's worth of parquet.Value rows into the
// typed slices column.Column expects, tracking nulls in a validity
// bitmap as it goes (parquet-go surfaces nullability per-value, so the
// bitmap is built incrementally rather than pre-sized).
type builder struct {
	dtype column.DType
	i32   []int32
	i64   []int64
	f32   []float32
	f64   []float64
	str   []string
	bln   []bool
	valid []bool
}

func newBuilder(dtype column.DType) *builder {
	return &builder{dtype: dtype}
}

func (b *builder) append(v parquet.Value) {
	if v.IsNull() {
		b.appendNull()
		return
	}
	switch b.dtype {
	case column.Int32:
		b.i32 = append(b.i32, v.Int32())
	case column.Int64:
		b.i64 = append(b.i64, v.Int64())
	case column.Float32:
		b.f32 = append(b.f32, v.Float())
	case column.Float64:
		b.f64 = append(b.f64, v.Double())
	case column.Utf8:
		b.str = append(b.str, string(v.ByteArray()))
	case column.Boolean:
		b.bln = append(b.bln, v.Boolean())
	}
	b.valid = append(b.valid, true)
}

func (b *builder) appendNull() {
	switch b.dtype {
	case column.Int32:
		b.i32 = append(b.i32, 0)
	case column.Int64:
		b.i64 = append(b.i64, 0)
	case column.Float32:
		b.f32 = append(b.f32, 0)
	case column.Float64:
		b.f64 = append(b.f64, 0)
	case column.Utf8:
		b.str = append(b.str, "")
	case column.Boolean:
		b.bln = append(b.bln, false)
	}
	b.valid = append(b.valid, false)
}

// rowCount returns the number of rows appended so far.
func (b *builder) rowCount() int { return len(b.valid) }

// copyRowInto appends row i of b onto dst, preserving its null/value state.
// Used to merge per-row-group builders (decoded concurrently) back into a
// single ordered result.
func (b *builder) copyRowInto(dst *builder, i int) {
	if !b.valid[i] {
		dst.appendNull()
		return
	}
	switch b.dtype {
	case column.Int32:
		dst.i32 = append(dst.i32, b.i32[i])
	case column.Int64:
		dst.i64 = append(dst.i64, b.i64[i])
	case column.Float32:
		dst.f32 = append(dst.f32, b.f32[i])
	case column.Float64:
		dst.f64 = append(dst.f64, b.f64[i])
	case column.Utf8:
		dst.str = append(dst.str, b.str[i])
	case column.Boolean:
		dst.bln = append(dst.bln, b.bln[i])
	}
	dst.valid = append(dst.valid, true)
}

func (b *builder) finish(name string) *column.Column {
	c := &column.Column{Name: name, Type: b.dtype, Nullable: true}
	switch b.dtype {
	case column.Int32:
		c.I32 = b.i32
	case column.Int64:
		c.I64 = b.i64
	case column.Float32:
		c.F32 = b.f32
	case column.Float64:
		c.F64 = b.f64
	case column.Utf8:
		c.Str = b.str
	case column.Boolean:
		c.Bln = b.bln
	}
	bm := column.NewBitmap(len(b.valid))
	for i, ok := range b.valid {
		bm.Set(i, ok)
	}
	c.Valid = bm
	return c
}
