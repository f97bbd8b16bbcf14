package gpu

import (
	"math"

	"github.com/paiml/trueno-db/errs"
)

// RefDevice is a pure-Go software reference implementing the exact
// execution model of spec §4.5 sequentially: each workgroup of
// WorkgroupSize threads loads into a shared-memory scratch array (with an
// identity element for out-of-range threads), performs a tree reduction
// halving the active stride until 1, then combines workgroup results with
// an atomic-style combine into a single accumulator. It requires no real
// hardware, so truenodb.OpenGPU returns it when no hardware adapter can be
// opened, and it is the Device implementation
// contractually bound to bit-exact agreement with package simd for I32.
type RefDevice struct {
	cache *shaderCache
}

// NewRefDevice constructs a ready-to-use software reference device.
func NewRefDevice() *RefDevice {
	return &RefDevice{cache: newShaderCache()}
}

func (d *RefDevice) Name() string { return "ref" }

func (d *RefDevice) Release() {}

// workgroupReduceI32 simulates one kernel dispatch: partition data into
// workgroups of WorkgroupSize, tree-reduce each workgroup against
// identity-padded shared memory, then atomically combine every
// workgroup's partial result into the single output element. Integer
// addition/min/max are associative under Go's wrapping semantics, so the
// workgroup partition never changes the final value versus a flat scan —
// it exists to mirror the real kernel's dispatch shape, not to change the
// arithmetic.
func workgroupReduceI32(data []int32, identity int32, combine func(a, b int32) int32) int32 {
	acc := identity
	scratch := make([]int32, WorkgroupSize)
	for base := 0; base < len(data) || base == 0; base += WorkgroupSize {
		end := base + WorkgroupSize
		if end > len(data) {
			end = len(data)
		}
		for i := range scratch {
			idx := base + i
			if idx < end {
				scratch[i] = data[idx]
			} else {
				scratch[i] = identity
			}
		}
		// Tree reduction: halve the active stride until 1.
		for stride := WorkgroupSize / 2; stride > 0; stride /= 2 {
			for i := 0; i < stride; i++ {
				scratch[i] = combine(scratch[i], scratch[i+stride])
			}
		}
		acc = combine(acc, scratch[0])
		if len(data) == 0 {
			break
		}
	}
	return acc
}

func (d *RefDevice) SumI32(data []int32) (int64, error) {
	sum := workgroupReduceI32(data, 0, func(a, b int32) int32 { return a + b })
	return int64(sum), nil
}

func (d *RefDevice) MinI32(data []int32) (int32, error) {
	if len(data) == 0 {
		return 0, errs.New(errs.InvalidInput, "MinI32 on empty input")
	}
	return workgroupReduceI32(data, math.MaxInt32, func(a, b int32) int32 {
		if a < b {
			return a
		}
		return b
	}), nil
}

func (d *RefDevice) MaxI32(data []int32) (int32, error) {
	if len(data) == 0 {
		return 0, errs.New(errs.InvalidInput, "MaxI32 on empty input")
	}
	return workgroupReduceI32(data, math.MinInt32, func(a, b int32) int32 {
		if a > b {
			return a
		}
		return b
	}), nil
}

func (d *RefDevice) CountI32(data []int32) (int64, error) {
	return int64(len(data)), nil
}

// SumF32 is implemented on the software reference (it costs nothing extra
// here), even though spec mandates real GPU backends may decline with
// NotImplemented since WGSL has no portable atomic float add (see
// WebGPUDevice.SumF32 and SPEC_FULL.md open question #4).
// It accumulates in float64 and rounds to float32 once, like simd.SumF32.
func (d *RefDevice) SumF32(data []float32) (float32, error) {
	var s, c float64
	naive, naiveSum := false, float64(0)
	for _, v32 := range data {
		v := float64(v32)
		nonFinite := math.IsNaN(v) || math.IsInf(v, 0)
		if naive || nonFinite {
			if !naive {
				naive = true
				naiveSum = s
			}
			naiveSum += v
			continue
		}
		y := v - c
		t := s + y
		c = (t - s) - y
		s = t
	}
	if naive {
		return float32(naiveSum), nil
	}
	return float32(s), nil
}

// FusedFilterSum synthesizes (and caches) a specialized kernel computing
// sum of v where v OP literal in one pass, with predicate-failing lanes
// contributing 0 (spec §4.5).
func (d *RefDevice) FusedFilterSum(op Op, literal float64, values []float32) (float64, error) {
	key := cacheKey(op, literal)
	source := fusedFilterSumWGSL(op, literal)
	shader := d.cache.getOrInsert(key, source, func() any {
		return func(vals []float32) float64 {
			var sum float64
			for _, v := range vals {
				if op.apply(float64(v), literal) {
					sum += float64(v)
				}
			}
			return sum
		}
	})
	fn := shader.Handle.(func([]float32) float64)
	return fn(values), nil
}

// CacheSize exposes the JIT shader cache's current cardinality; callers
// can report it through metrics.Metrics.SetShaderCacheSize.
func (d *RefDevice) CacheSize() int { return d.cache.size() }
