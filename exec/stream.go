package exec

import (
	"context"
	"math"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/dispatch"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/morsel"
	"github.com/paiml/trueno-db/sql"
	"github.com/paiml/trueno-db/xferqueue"
)

// shouldStream reports whether a store is large enough, and the dispatcher
// GPU-leaning enough, to warrant paging it through the morsel iterator and
// bounded transfer queue instead of concatenating every batch up front
// (spec §4.1/§4.2, §6.9). Below one morsel's byte budget, concatenation is
// cheaper than the goroutine/channel overhead of streaming.
func shouldStream(store *column.Store, o *options) bool {
	totalBytes := int64(store.Bytes())
	if totalBytes <= column.MorselBytes {
		return false
	}
	if o.forcedBackend != nil {
		return *o.forcedBackend == dispatch.Gpu
	}
	flops := dispatch.EstimateSimpleAggFLOPs(int64(store.Rows()))
	return dispatch.Select(totalBytes, flops) == dispatch.Gpu
}

// streamAggregates evaluates aggs against store without ever materializing
// every batch at once: a producer goroutine walks a morsel.Iterator and
// feeds morsel views through a bounded xferqueue.Queue (capacity
// xferqueue.DefaultCapacity, the same 2-in-flight bound the GPU transfer
// path is specified to respect), while the consumer applies the filter
// and folds each morsel into a running accumulator per aggregate.
func streamAggregates(ctx context.Context, store *column.Store, filter *sql.Filter, aggs []sql.Aggregate, o *options) (*column.ColumnBatch, error) {
	it := morsel.NewIterator(store.Batches(), 0)
	q := xferqueue.New(xferqueue.DefaultCapacity)

	produceErr := make(chan error, 1)
	go func() {
		defer q.Close()
		for {
			m, ok := it.Next()
			if !ok {
				return
			}
			if err := q.Enqueue(ctx, m.View()); err != nil {
				produceErr <- err
				return
			}
		}
	}()

	accs := make([]*accumulator, len(aggs))
	for i, agg := range aggs {
		accs[i] = &accumulator{agg: agg}
	}

	for {
		b, ok := q.Dequeue(ctx)
		if !ok {
			break
		}
		o.observeQueueDepth(q.Len())

		working := b
		if filter != nil {
			filtered, err := applyFilter(b, filter)
			if err != nil {
				return nil, err
			}
			working = filtered
		}
		if working.Rows() == 0 {
			continue
		}
		for _, acc := range accs {
			if err := acc.addMorsel(working, o); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case err := <-produceErr:
		return nil, err
	default:
	}

	fields := make([]column.Field, len(accs))
	cols := make([]*column.Column, len(accs))
	for i, acc := range accs {
		name := acc.agg.Alias
		if name == "" {
			name = defaultAggName(acc.agg)
		}
		c, dtype, err := acc.finish()
		if err != nil {
			return nil, err
		}
		c.Name = name
		fields[i] = column.Field{Name: name, Type: dtype}
		cols[i] = c
	}
	return column.NewColumnBatch(column.NewSchema(fields...), cols)
}

// accumulator folds successive per-morsel partial aggregate results
// (themselves SIMD/GPU-dispatched via evalAggregate) into one running
// value per aggregate. Combining happens in plain Go, not through a
// kernel, since the partial results are already scalars.
type accumulator struct {
	agg sql.Aggregate

	dtype column.DType // promoted result type, set by the first morsel seen

	// Sum / Count
	i64 int64
	f32 float32
	f64 float64

	// Min / Max
	haveValue bool
	anyNaN    bool
	intVal    int64
	floatVal  float64

	// Avg
	sumF64 float64
	count  int64
}

func (a *accumulator) addMorsel(working *column.ColumnBatch, o *options) error {
	switch a.agg.Func {
	case sql.Sum:
		col, dtype, err := evalAggregate(working, sql.Aggregate{Func: sql.Sum, Column: a.agg.Column}, o)
		if err != nil {
			return err
		}
		a.dtype = dtype
		switch dtype {
		case column.Int64:
			a.i64 += col.I64[0]
		case column.Float32:
			a.f32 += col.F32[0]
		case column.Float64:
			a.f64 += col.F64[0]
		}
		return nil

	case sql.Count:
		col, dtype, err := evalAggregate(working, sql.Aggregate{Func: sql.Count, Column: a.agg.Column}, o)
		if err != nil {
			return err
		}
		a.dtype = dtype
		a.i64 += col.I64[0]
		return nil

	case sql.Min, sql.Max:
		col, dtype, err := evalAggregate(working, sql.Aggregate{Func: a.agg.Func, Column: a.agg.Column}, o)
		if err != nil {
			return err
		}
		a.dtype = dtype
		switch dtype {
		case column.Int32:
			a.combineInt(int64(col.I32[0]))
		case column.Int64:
			a.combineInt(col.I64[0])
		case column.Float32:
			a.combineFloat(float64(col.F32[0]))
		case column.Float64:
			a.combineFloat(col.F64[0])
		}
		return nil

	case sql.Avg:
		idx := working.Schema().IndexOf(a.agg.Column)
		if idx < 0 {
			return errs.Newf(errs.InvalidInput, "unknown column %q", a.agg.Column).WithColumn(a.agg.Column)
		}
		sumCol, dtype, err := evalAggregate(working, sql.Aggregate{Func: sql.Sum, Column: a.agg.Column}, o)
		if err != nil {
			return err
		}
		var sumVal float64
		switch dtype {
		case column.Int64:
			sumVal = float64(sumCol.I64[0])
		case column.Float32:
			sumVal = float64(sumCol.F32[0])
		case column.Float64:
			sumVal = sumCol.F64[0]
		}
		a.sumF64 += sumVal
		a.count += int64(working.Column(idx).Len())
		return nil

	default:
		return errs.Newf(errs.Unsupported, "aggregate function %v is not supported", a.agg.Func)
	}
}

func (a *accumulator) combineInt(v int64) {
	if !a.haveValue {
		a.intVal = v
		a.haveValue = true
		return
	}
	if a.agg.Func == sql.Min {
		if v < a.intVal {
			a.intVal = v
		}
	} else if v > a.intVal {
		a.intVal = v
	}
}

// combineFloat mirrors simd.MinF64/MaxF64's NaN propagation across the
// whole stream: once any morsel's partial result is NaN, the final value
// is NaN regardless of what other morsels contain.
func (a *accumulator) combineFloat(v float64) {
	if math.IsNaN(v) {
		a.anyNaN = true
	}
	if !a.haveValue {
		a.floatVal = v
		a.haveValue = true
		return
	}
	if a.agg.Func == sql.Min {
		if v < a.floatVal {
			a.floatVal = v
		}
	} else if v > a.floatVal {
		a.floatVal = v
	}
}

func (a *accumulator) finish() (*column.Column, column.DType, error) {
	switch a.agg.Func {
	case sql.Sum:
		switch a.dtype {
		case column.Float32:
			return &column.Column{Type: column.Float32, F32: []float32{a.f32}}, column.Float32, nil
		case column.Float64:
			return &column.Column{Type: column.Float64, F64: []float64{a.f64}}, column.Float64, nil
		default:
			return &column.Column{Type: column.Int64, I64: []int64{a.i64}}, column.Int64, nil
		}

	case sql.Count:
		return &column.Column{Type: column.Int64, I64: []int64{a.i64}}, column.Int64, nil

	case sql.Min, sql.Max:
		if !a.haveValue {
			return nil, 0, errs.Newf(errs.InvalidInput, "%s over an empty column %q is undefined", a.agg.Func, a.agg.Column).WithColumn(a.agg.Column)
		}
		switch a.dtype {
		case column.Int32:
			return &column.Column{Type: column.Int32, I32: []int32{int32(a.intVal)}}, column.Int32, nil
		case column.Int64:
			return &column.Column{Type: column.Int64, I64: []int64{a.intVal}}, column.Int64, nil
		case column.Float32:
			v := a.floatVal
			if a.anyNaN {
				v = math.NaN()
			}
			return &column.Column{Type: column.Float32, F32: []float32{float32(v)}}, column.Float32, nil
		default:
			v := a.floatVal
			if a.anyNaN {
				v = math.NaN()
			}
			return &column.Column{Type: column.Float64, F64: []float64{v}}, column.Float64, nil
		}

	case sql.Avg:
		// Same "absent on empty input" contract as the non-streaming path
		// (evalAvg): a zero-row column rather than a fabricated zero. As
		// there, this only composes safely with a single aggregate per
		// query: mixed with a non-empty aggregate in the same SELECT,
		// NewColumnBatch's row-count check would reject the batch.
		if a.count == 0 {
			return &column.Column{Type: column.Float64, F64: []float64{}}, column.Float64, nil
		}
		return &column.Column{Type: column.Float64, F64: []float64{a.sumF64 / float64(a.count)}}, column.Float64, nil

	default:
		return nil, 0, errs.Newf(errs.Unsupported, "aggregate function %v is not supported", a.agg.Func)
	}
}
