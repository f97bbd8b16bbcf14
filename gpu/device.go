// Package gpu implements the compute-shader execution path: one- or
// two-pass parallel reductions with a workgroup size of 256 threads and a
// shared-memory scratch array of 256 elements (spec §4.5), plus the JIT
// fused filter+sum kernel keyed by predicate signature.
//
// Backend identity is irrelevant to correctness (spec §6): Device is
// implemented both by RefDevice, a pure-Go software reference that
// truenodb.OpenGPU returns when no real adapter can be opened, and by
// WebGPUDevice, a thin adapter over
// cogentcore.org/core/gpu for real hardware.
package gpu

// WorkgroupSize is the fixed thread count per workgroup (spec §4.5/§6).
const WorkgroupSize = 256

// Device is the compute-shader device abstraction every kernel backend
// implements. Reductions over int32 must match the simd package's
// results bit-exactly; float32 sum is optional per backend and must fail
// with errs.NotImplemented rather than produce a wrong answer when absent.
type Device interface {
	// Name identifies the device for diagnostics (e.g. "ref", "webgpu:Foo").
	Name() string

	SumI32(data []int32) (int64, error)
	MinI32(data []int32) (int32, error)
	MaxI32(data []int32) (int32, error)
	CountI32(data []int32) (int64, error)

	// SumF32 is optional: implementations that cannot offer a portable
	// atomic float add must return errs.NotImplemented.
	SumF32(data []float32) (float32, error)

	// FusedFilterSum evaluates `sum of v where v OP literal` in one pass,
	// synthesizing (and caching) a specialized kernel keyed by the
	// predicate signature (spec §4.5 "JIT fused filter+sum").
	FusedFilterSum(op Op, literal float64, values []float32) (float64, error)

	// Release frees any device-owned resources (buffers, pipelines).
	// Safe to call on a device that allocated nothing.
	Release()
}
