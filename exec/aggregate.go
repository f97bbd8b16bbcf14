package exec

import (
	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/dispatch"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/simd"
	"github.com/paiml/trueno-db/sql"
)

// computeAggregates evaluates every aggregate in the plan against the
// working batch and returns the one-row result batch whose schema encodes
// each aggregate's result type and (alias or default) name (spec §4.8
// step 3b, §3 result-type promotion rules).
func computeAggregates(b *column.ColumnBatch, aggs []sql.Aggregate, o *options) (*column.ColumnBatch, error) {
	fields := make([]column.Field, len(aggs))
	cols := make([]*column.Column, len(aggs))

	for i, agg := range aggs {
		name := agg.Alias
		if name == "" {
			name = defaultAggName(agg)
		}

		col, resultType, err := evalAggregate(b, agg, o)
		if err != nil {
			return nil, err
		}
		col.Name = name
		fields[i] = column.Field{Name: name, Type: resultType}
		cols[i] = col
	}

	return column.NewColumnBatch(column.NewSchema(fields...), cols)
}

func defaultAggName(agg sql.Aggregate) string {
	col := agg.Column
	if col == "" {
		col = "star"
	}
	switch agg.Func {
	case sql.Sum:
		return "sum_" + col
	case sql.Avg:
		return "avg_" + col
	case sql.Count:
		return "count"
	case sql.Min:
		return "min_" + col
	case sql.Max:
		return "max_" + col
	default:
		return col
	}
}

// evalAggregate dispatches one aggregate to a kernel, selecting SIMD or
// GPU per spec §4.3/§4.8: bytes and FLOPs are computed from the target
// column, the dispatcher (or an explicit override) picks a backend, and
// GPU is only actually used where the Device interface offers a matching
// kernel the executor calls (Sum/Min/Max over Int32, Sum over Float32).
// Count is an element count and always runs on SIMD, as does every other
// (function, type) combination (SPEC_FULL.md §6.6).
func evalAggregate(b *column.ColumnBatch, agg sql.Aggregate, o *options) (*column.Column, column.DType, error) {
	if agg.Func == sql.Count {
		n := int64(b.Rows())
		if agg.Column != "" {
			idx := b.Schema().IndexOf(agg.Column)
			if idx < 0 {
				return nil, 0, errs.Newf(errs.InvalidInput, "unknown column %q", agg.Column).WithColumn(agg.Column)
			}
			n = simd.Count(b.Column(idx).Len())
		}
		o.observeSelection(dispatch.Simd)
		return &column.Column{Type: column.Int64, I64: []int64{n}}, column.Int64, nil
	}

	idx := b.Schema().IndexOf(agg.Column)
	if idx < 0 {
		return nil, 0, errs.Newf(errs.InvalidInput, "unknown column %q", agg.Column).WithColumn(agg.Column)
	}
	c := b.Column(idx)
	backend := o.selectBackend(c)
	o.observeSelection(backend)

	switch agg.Func {
	case sql.Sum:
		return evalSum(c, backend, o)
	case sql.Avg:
		return evalAvg(c)
	case sql.Min:
		return evalMin(c, backend, o)
	case sql.Max:
		return evalMax(c, backend, o)
	default:
		return nil, 0, errs.Newf(errs.Unsupported, "aggregate function %v is not supported", agg.Func)
	}
}

func evalSum(c *column.Column, backend dispatch.Backend, o *options) (*column.Column, column.DType, error) {
	switch c.Type {
	case column.Int32:
		if backend == dispatch.Gpu && o.gpuDevice != nil {
			v, err := o.gpuDevice.SumI32(c.I32)
			if err == nil {
				return &column.Column{Type: column.Int64, I64: []int64{v}}, column.Int64, nil
			}
			o.warnGPUFallback("SumI32", err)
		}
		return &column.Column{Type: column.Int64, I64: []int64{simd.SumI32(c.I32)}}, column.Int64, nil
	case column.Int64:
		return &column.Column{Type: column.Int64, I64: []int64{simd.SumI64(c.I64)}}, column.Int64, nil
	case column.Float32:
		if backend == dispatch.Gpu && o.gpuDevice != nil {
			v, err := o.gpuDevice.SumF32(c.F32)
			if err == nil {
				return &column.Column{Type: column.Float32, F32: []float32{v}}, column.Float32, nil
			}
			o.warnGPUFallback("SumF32", err)
		}
		return &column.Column{Type: column.Float32, F32: []float32{simd.SumF32(c.F32)}}, column.Float32, nil
	case column.Float64:
		return &column.Column{Type: column.Float64, F64: []float64{simd.SumF64(c.F64)}}, column.Float64, nil
	default:
		return nil, 0, errs.Newf(errs.Unsupported, "SUM is not defined over %s", c.Type).WithColumn(c.Name)
	}
}

func evalAvg(c *column.Column) (*column.Column, column.DType, error) {
	var v float64
	var ok bool
	switch c.Type {
	case column.Int32:
		v, ok = simd.AvgI32(c.I32)
	case column.Int64:
		v, ok = simd.AvgI64(c.I64)
	case column.Float32:
		v, ok = simd.AvgF32(c.F32)
	case column.Float64:
		v, ok = simd.AvgF64(c.F64)
	default:
		return nil, 0, errs.Newf(errs.Unsupported, "AVG is not defined over %s", c.Type).WithColumn(c.Name)
	}
	if !ok {
		// Avg on empty input is undefined; a zero-row result column
		// signals "absent" rather than fabricating a value. Only safe when
		// AVG is the query's sole aggregate: paired with any 1-row
		// aggregate in the same SELECT, NewColumnBatch rejects the
		// resulting row-count mismatch.
		return &column.Column{Type: column.Float64, F64: []float64{}}, column.Float64, nil
	}
	return &column.Column{Type: column.Float64, F64: []float64{v}}, column.Float64, nil
}

func evalMin(c *column.Column, backend dispatch.Backend, o *options) (*column.Column, column.DType, error) {
	if c.Len() == 0 {
		return nil, 0, errs.Newf(errs.InvalidInput, "MIN over an empty column %q is undefined", c.Name).WithColumn(c.Name)
	}
	switch c.Type {
	case column.Int32:
		if backend == dispatch.Gpu && o.gpuDevice != nil {
			v, err := o.gpuDevice.MinI32(c.I32)
			if err == nil {
				return &column.Column{Type: column.Int32, I32: []int32{v}}, column.Int32, nil
			}
			o.warnGPUFallback("MinI32", err)
		}
		return &column.Column{Type: column.Int32, I32: []int32{simd.MinI32(c.I32)}}, column.Int32, nil
	case column.Int64:
		return &column.Column{Type: column.Int64, I64: []int64{simd.MinI64(c.I64)}}, column.Int64, nil
	case column.Float32:
		return &column.Column{Type: column.Float32, F32: []float32{simd.MinF32(c.F32)}}, column.Float32, nil
	case column.Float64:
		return &column.Column{Type: column.Float64, F64: []float64{simd.MinF64(c.F64)}}, column.Float64, nil
	default:
		return nil, 0, errs.Newf(errs.Unsupported, "MIN is not defined over %s", c.Type).WithColumn(c.Name)
	}
}

func evalMax(c *column.Column, backend dispatch.Backend, o *options) (*column.Column, column.DType, error) {
	if c.Len() == 0 {
		return nil, 0, errs.Newf(errs.InvalidInput, "MAX over an empty column %q is undefined", c.Name).WithColumn(c.Name)
	}
	switch c.Type {
	case column.Int32:
		if backend == dispatch.Gpu && o.gpuDevice != nil {
			v, err := o.gpuDevice.MaxI32(c.I32)
			if err == nil {
				return &column.Column{Type: column.Int32, I32: []int32{v}}, column.Int32, nil
			}
			o.warnGPUFallback("MaxI32", err)
		}
		return &column.Column{Type: column.Int32, I32: []int32{simd.MaxI32(c.I32)}}, column.Int32, nil
	case column.Int64:
		return &column.Column{Type: column.Int64, I64: []int64{simd.MaxI64(c.I64)}}, column.Int64, nil
	case column.Float32:
		return &column.Column{Type: column.Float32, F32: []float32{simd.MaxF32(c.F32)}}, column.Float32, nil
	case column.Float64:
		return &column.Column{Type: column.Float64, F64: []float64{simd.MaxF64(c.F64)}}, column.Float64, nil
	default:
		return nil, 0, errs.Newf(errs.Unsupported, "MAX is not defined over %s", c.Type).WithColumn(c.Name)
	}
}
