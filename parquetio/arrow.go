package parquetio

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
)

// ToArrow converts a ColumnBatch into an Arrow Record for interop with the
// wider Arrow ecosystem (grounded on the teacher's DataFrame.ToArrow). The
// caller owns the returned Record and must call Release() on it.
func ToArrow(b *column.ColumnBatch, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema := b.Schema()
	fields := make([]arrow.Field, b.Width())
	arrays := make([]arrow.Array, b.Width())

	for i, f := range schema.Fields {
		arrowType, err := dtypeToArrow(f.Type)
		if err != nil {
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, err
		}
		fields[i] = arrow.Field{Name: f.Name, Type: arrowType, Nullable: true}

		arr, err := columnToArrowArray(b.Column(i), mem)
		if err != nil {
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, err
		}
		arrays[i] = arr
	}

	record := array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(b.Rows()))
	for _, arr := range arrays {
		arr.Release()
	}
	return record, nil
}

func dtypeToArrow(t column.DType) (arrow.DataType, error) {
	switch t {
	case column.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case column.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case column.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case column.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case column.Utf8:
		return arrow.BinaryTypes.String, nil
	case column.Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, errs.Newf(errs.Unsupported, "column type %s has no Arrow mapping", t)
	}
}

func columnToArrowArray(c *column.Column, mem memory.Allocator) (arrow.Array, error) {
	switch c.Type {
	case column.Int32:
		bld := array.NewInt32Builder(mem)
		defer bld.Release()
		for i, v := range c.I32 {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	case column.Int64:
		bld := array.NewInt64Builder(mem)
		defer bld.Release()
		for i, v := range c.I64 {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	case column.Float32:
		bld := array.NewFloat32Builder(mem)
		defer bld.Release()
		for i, v := range c.F32 {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	case column.Float64:
		bld := array.NewFloat64Builder(mem)
		defer bld.Release()
		for i, v := range c.F64 {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	case column.Utf8:
		bld := array.NewStringBuilder(mem)
		defer bld.Release()
		for i, v := range c.Str {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	case column.Boolean:
		bld := array.NewBooleanBuilder(mem)
		defer bld.Release()
		for i, v := range c.Bln {
			if c.IsValid(i) {
				bld.Append(v)
			} else {
				bld.AppendNull()
			}
		}
		return bld.NewArray(), nil
	default:
		return nil, errs.Newf(errs.Unsupported, "column type %s has no Arrow mapping", c.Type)
	}
}
