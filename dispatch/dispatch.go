// Package dispatch implements the pure, synchronous, total backend
// dispatcher: a cost model mapping (bytes, FLOPs) to a Backend under the
// 5x rule (spec §4.3).
package dispatch

import "fmt"

// Backend identifies a concrete execution engine for kernels.
type Backend uint8

const (
	// Simd executes kernels vectorized on the CPU.
	Simd Backend = iota
	// Gpu executes kernels as compute shaders on a GPU-class device.
	Gpu
)

func (b Backend) String() string {
	switch b {
	case Simd:
		return "Simd"
	case Gpu:
		return "Gpu"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// The five constants that are the entire dispatcher policy (spec §4.3/§6).
const (
	MinGPUBytes        int64   = 10_000_000 // 10 MB
	PCIeGBps           float64 = 32.0
	GPUGFLOPs          float64 = 100.0
	OverheadMultiplier float64 = 5.0
)

// Select is the pure, deterministic dispatcher: bytes < MIN_GPU_BYTES
// always selects Simd; otherwise Gpu is selected only when estimated GPU
// compute time exceeds OverheadMultiplier times estimated PCIe transfer
// time (spec §4.3 steps 1-4).
func Select(bytes int64, flops float64) Backend {
	if bytes < MinGPUBytes {
		return Simd
	}
	transferMs := float64(bytes) / (PCIeGBps * 1e9) * 1000
	computeMs := flops / (GPUGFLOPs * 1e9) * 1000
	if computeMs > OverheadMultiplier*transferMs {
		return Gpu
	}
	return Simd
}

// EstimateSimpleAggFLOPs estimates FLOPs for a simple reduction (Sum, Min,
// Max, Count, Avg) over n elements: one op per element.
func EstimateSimpleAggFLOPs(n int64) float64 { return float64(n) }

// EstimateFilterFLOPs estimates FLOPs for a predicate scan over n
// elements: one compare plus one branch/select per element.
func EstimateFilterFLOPs(n int64) float64 { return 2 * float64(n) }

// EstimateGroupByFLOPs estimates FLOPs for a hash-based group-by over n
// elements: hash, probe, compare, and accumulate.
func EstimateGroupByFLOPs(n int64) float64 { return 6 * float64(n) }

// EstimateHashJoinFLOPs estimates FLOPs for a hash join between a left
// table of `left` rows and a right table of `right` rows.
func EstimateHashJoinFLOPs(left, right int64) float64 {
	return 5 * float64(left+right)
}

// ArithmeticIntensity returns flops/bytes, the standard roofline-model
// metric a caller can use alongside Select to reason about a workload.
func ArithmeticIntensity(flops float64, bytes int64) float64 {
	if bytes == 0 {
		return 0
	}
	return flops / float64(bytes)
}
