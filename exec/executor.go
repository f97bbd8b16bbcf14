// Package exec implements the five-step query pipeline of spec §4.8:
// concatenate, filter, aggregate-or-project, order, limit.
package exec

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/dispatch"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/gpu"
	"github.com/paiml/trueno-db/metrics"
	"github.com/paiml/trueno-db/sql"
	"github.com/paiml/trueno-db/topk"
)

// options holds the resolved state assembled from Option values.
type options struct {
	forcedBackend *dispatch.Backend
	logger        *logrus.Logger
	gpuDevice     gpu.Device
	metrics       *metrics.Metrics
}

// Option configures a single Execute call.
type Option func(*options)

// WithBackend forces every aggregate in this query onto backend, bypassing
// the cost-based dispatcher entirely.
func WithBackend(b dispatch.Backend) Option {
	return func(o *options) { o.forcedBackend = &b }
}

// WithLogger supplies a structured logger for backend-selection and
// GPU-fallback diagnostics. A nil logger (the default) uses
// logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGPUDevice supplies the gpu.Device used when the dispatcher selects
// Gpu. Without this option, aggregates that would select Gpu silently run
// on SIMD instead (no device to run them on).
func WithGPUDevice(d gpu.Device) Option {
	return func(o *options) { o.gpuDevice = d }
}

// WithMetrics attaches a metrics.Metrics instance that records backend
// selections and query duration.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) *options {
	o := &options{logger: logrus.StandardLogger()}
	for _, apply := range opts {
		apply(o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	return o
}

func (o *options) selectBackend(c *column.Column) dispatch.Backend {
	if o.forcedBackend != nil {
		return *o.forcedBackend
	}
	bytes := int64(c.Bytes())
	flops := dispatch.EstimateSimpleAggFLOPs(int64(c.Len()))
	b := dispatch.Select(bytes, flops)
	o.logger.WithFields(logrus.Fields{"column": c.Name, "bytes": bytes, "flops": flops, "backend": b}).Debug("dispatcher selected backend")
	return b
}

func (o *options) observeSelection(b dispatch.Backend) {
	if o.metrics != nil {
		o.metrics.ObserveSelection(b)
	}
}

func (o *options) observeQueueDepth(n int) {
	if o.metrics != nil {
		o.metrics.SetQueueDepth(n)
	}
}

func (o *options) warnGPUFallback(kernel string, err error) {
	o.logger.WithFields(logrus.Fields{"kernel": kernel, "error": err}).Warn("GPU kernel declined, falling back to SIMD")
}

// Execute runs plan against store's current contents, implementing spec
// §4.8's five-step pipeline. The context is honored between pipeline
// stages; cancellation never yields a partial result (spec §5/§7).
func Execute(ctx context.Context, plan *sql.Plan, store *column.Store, opts ...Option) (*column.ColumnBatch, error) {
	o := newOptions(opts)
	if o.metrics != nil {
		start := time.Now()
		defer func() { o.metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *column.ColumnBatch
	var err error

	switch {
	case len(plan.Aggregates) > 0 && len(plan.GroupBy) > 0:
		return nil, errs.New(errs.Unsupported, "GROUP BY hash aggregation is not supported in the core engine")

	case len(plan.Aggregates) > 0 && shouldStream(store, o):
		// For stores whose total bytes exceed one morsel on the
		// GPU-leaning dispatch path, page through the morsel iterator and
		// bounded transfer queue (spec §4.1/§4.2) instead of
		// concatenating every batch up front.
		result, err = streamAggregates(ctx, store, plan.Filter, plan.Aggregates, o)

	default:
		working := concat(store.Schema(), store.Batches())

		if plan.Filter != nil {
			filtered, filterErr := applyFilter(working, plan.Filter)
			if filterErr != nil {
				return nil, filterErr
			}
			working = filtered
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if len(plan.Aggregates) > 0 {
			result, err = computeAggregates(working, plan.Aggregates, o)
		} else {
			result, err = projectPlan(working, plan)
		}
	}
	if err != nil {
		return nil, err
	}

	if len(plan.OrderBy) > 0 {
		k := result.Rows()
		if plan.Limit != nil {
			k = *plan.Limit
		}
		if k <= 0 {
			k = result.Rows()
		}
		colIdx := result.Schema().IndexOf(plan.OrderBy[0].Column)
		if colIdx < 0 {
			return nil, errs.Newf(errs.InvalidInput, "unknown ORDER BY column %q", plan.OrderBy[0].Column).WithColumn(plan.OrderBy[0].Column)
		}
		order := topk.Ascending
		if plan.OrderBy[0].Direction == sql.Desc {
			order = topk.Descending
		}
		result, err = topk.TopK(result, colIdx, k, order)
		if err != nil {
			return nil, err
		}
	} else if plan.Limit != nil {
		n := *plan.Limit
		if n < 0 {
			n = 0
		}
		if n > result.Rows() {
			n = result.Rows()
		}
		result = result.Slice(0, n)
	}

	return result, nil
}
