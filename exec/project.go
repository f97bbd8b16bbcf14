package exec

import (
	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/sql"
)

// concat builds a single working batch out of a store's batches. Schema
// agreement is already guaranteed by Store.Append, so this never fails.
// Used for the non-streaming path (spec §4.8 step 1); stores large enough
// to warrant paging go through streamAggregates instead.
func concat(schema column.Schema, batches []*column.ColumnBatch) *column.ColumnBatch {
	if len(batches) == 1 {
		return batches[0]
	}
	total := 0
	for _, b := range batches {
		total += b.Rows()
	}
	if total == 0 {
		cols := make([]*column.Column, len(schema.Fields))
		for i, f := range schema.Fields {
			cols[i] = &column.Column{Name: f.Name, Type: f.Type, Nullable: f.Nullable}
		}
		out, _ := column.NewColumnBatch(schema, cols)
		return out
	}

	width := len(schema.Fields)
	cols := make([]*column.Column, width)
	for ci, f := range schema.Fields {
		cols[ci] = &column.Column{Name: f.Name, Type: f.Type, Nullable: f.Nullable}
		for _, b := range batches {
			appendColumn(cols[ci], b.Column(ci))
		}
	}
	out, _ := column.NewColumnBatch(schema, cols)
	return out
}

func appendColumn(dst, src *column.Column) {
	switch dst.Type {
	case column.Int32:
		dst.I32 = append(dst.I32, src.I32...)
	case column.Int64:
		dst.I64 = append(dst.I64, src.I64...)
	case column.Float32:
		dst.F32 = append(dst.F32, src.F32...)
	case column.Float64:
		dst.F64 = append(dst.F64, src.F64...)
	case column.Utf8:
		dst.Str = append(dst.Str, src.Str...)
	case column.Boolean:
		dst.Bln = append(dst.Bln, src.Bln...)
	}
	if dst.Nullable {
		start := dst.Len() - src.Len()
		v := column.NewBitmap(dst.Len())
		for i := 0; i < start; i++ {
			v.Set(i, dst.Valid.Get(i))
		}
		for i := 0; i < src.Len(); i++ {
			v.Set(start+i, src.IsValid(i))
		}
		dst.Valid = v
	}
}

// project returns a batch containing only the given row indices, in
// order, preserving column order and types (no shearing).
func project(b *column.ColumnBatch, rows []int) *column.ColumnBatch {
	schema := b.Schema()
	cols := make([]*column.Column, b.Width())
	for ci := 0; ci < b.Width(); ci++ {
		cols[ci] = projectColumn(b.Column(ci), rows)
	}
	out, err := column.NewColumnBatch(schema, cols)
	if err != nil {
		panic(err) // rows are always derived from b itself
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

// projectPlan builds the result batch for a non-aggregating SELECT: the
// wildcard passes the working batch through unchanged, otherwise only the
// named columns are kept, in the order named.
func projectPlan(b *column.ColumnBatch, plan *sql.Plan) (*column.ColumnBatch, error) {
	if plan.Wildcard {
		return b, nil
	}
	schema := b.Schema()
	fields := make([]column.Field, len(plan.Projection))
	cols := make([]*column.Column, len(plan.Projection))
	for i, name := range plan.Projection {
		idx := schema.IndexOf(name)
		if idx < 0 {
			return nil, errs.Newf(errs.InvalidInput, "unknown column %q in projection", name).WithColumn(name)
		}
		fields[i] = schema.Fields[idx]
		cols[i] = b.Column(idx)
	}
	return column.NewColumnBatch(column.NewSchema(fields...), cols)
}
