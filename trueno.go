// Package truenodb is the embedded columnar OLAP engine's root facade: a
// single Engine type wrapping the column store, SQL front-end, executor,
// and GPU device selection described in SPEC_FULL.md §6.
package truenodb

import (
	"context"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/config"
	"github.com/paiml/trueno-db/dispatch"
	"github.com/paiml/trueno-db/exec"
	"github.com/paiml/trueno-db/gpu"
	"github.com/paiml/trueno-db/metrics"
	"github.com/paiml/trueno-db/morsel"
	"github.com/paiml/trueno-db/sql"
	"github.com/paiml/trueno-db/topk"
	"github.com/paiml/trueno-db/xferqueue"
)

// Engine binds one column.Store to its schema and, optionally, a GPU
// device and metrics registry. It is the library's single entry point:
// construct one per logical table.
type Engine struct {
	store     *column.Store
	gpuDevice gpu.Device
	metrics   *metrics.Metrics
	cfg       config.Config
}

// EngineOption configures a new Engine.
type EngineOption func(*Engine)

// WithGPU attaches a gpu.Device the engine will offer to the executor.
// Without this option, queries that would select Gpu run on Simd instead.
func WithGPU(d gpu.Device) EngineOption {
	return func(e *Engine) { e.gpuDevice = d }
}

// WithMetrics attaches a metrics.Metrics instance for instrumentation.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithConfig overrides the tunables used by SelectBackend and by
// TransferQueue's default capacity (defaults to config.Default()). Query
// execution and Morsels use the fixed package constants instead.
func WithConfig(cfg config.Config) EngineOption {
	return func(e *Engine) { e.cfg = cfg }
}

// New constructs an Engine over an empty store bound to schema.
func New(schema column.Schema, opts ...EngineOption) *Engine {
	e := &Engine{store: column.NewStore(schema), cfg: config.Default()}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// OpenGPU attempts to acquire a real hardware GPU device, falling back to
// the pure-Go software reference device on failure (spec §4.10: GPU
// device creation failure is recoverable, never fatal).
func OpenGPU() gpu.Device {
	d, err := gpu.OpenHardware()
	if err != nil {
		return gpu.NewRefDevice()
	}
	return d
}

// Store exposes the underlying column store for direct Append/Batches use.
func (e *Engine) Store() *column.Store { return e.store }

// Morsels returns a fresh iterator over the engine's current batches, paged
// at the store's fixed morsel byte budget (spec §6 Store API: morsels()).
// Exposed on Engine rather than column.Store directly: morsel imports
// column, so a Store-returning-morsel.Iterator method would cycle.
func (e *Engine) Morsels() *morsel.Iterator {
	return morsel.NewIterator(e.store.Batches(), column.MorselBytes)
}

// TransferQueue opens a bounded transfer queue sized capacity (or the
// configured default when capacity <= 0), for callers driving their own
// producer/consumer pair over the engine's morsels (spec §6 Store API:
// transfer_queue()). Exposed on Engine for the same import-cycle reason as
// Morsels.
func (e *Engine) TransferQueue(capacity int) *xferqueue.Queue {
	if capacity <= 0 {
		capacity = e.cfg.TransferCapacity
	}
	return xferqueue.New(capacity)
}

// Append adds a batch to the engine's store (column.Store.Append).
func (e *Engine) Append(b *column.ColumnBatch) error {
	return e.store.Append(b)
}

// Query parses and executes one SQL statement against the engine's store.
func (e *Engine) Query(ctx context.Context, text string, opts ...exec.Option) (*column.ColumnBatch, error) {
	plan, err := sql.Parse(text)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, plan, opts...)
}

// Execute runs an already-parsed plan against the engine's store,
// threading through the engine's configured GPU device and metrics
// unless overridden by opts.
func (e *Engine) Execute(ctx context.Context, plan *sql.Plan, opts ...exec.Option) (*column.ColumnBatch, error) {
	full := make([]exec.Option, 0, len(opts)+2)
	if e.gpuDevice != nil {
		full = append(full, exec.WithGPUDevice(e.gpuDevice))
	}
	if e.metrics != nil {
		full = append(full, exec.WithMetrics(e.metrics))
	}
	full = append(full, opts...)
	return exec.Execute(ctx, plan, e.store, full...)
}

// TopK runs the Top-K selector directly against a batch (bypassing SQL),
// for callers that already hold a ColumnBatch (spec §6 Top-K API).
func TopK(b *column.ColumnBatch, colIndex, k int, order topk.Order) (*column.ColumnBatch, error) {
	return topk.TopK(b, colIndex, k, order)
}

// SelectBackend exposes the engine's configured dispatcher directly (spec
// §6 Dispatcher API), for callers that want a backend decision without
// running a full query.
func (e *Engine) SelectBackend(bytes int64, flops float64) dispatch.Backend {
	return e.cfg.Select(bytes, flops)
}
