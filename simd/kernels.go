// Package simd implements vectorized reductions and compensated sums over
// primitive columns (spec §4.4). The type set is the closed
// {int32, int64, float32, float64} variant set from column.DType; each
// variant gets its own concrete entry point rather than open dynamic
// dispatch, per the engine's design notes on polymorphic kernels.
package simd

import "math"

// epsilon bounds for the backend-equivalence contract (spec §4.4/§8).
const (
	F32SumEpsilon = 1e-5
	AvgEpsilon    = 1e-4
)

// --- Sum --------------------------------------------------------------

// SumI32 sums an int32 slice using wrapping addition. The accumulator
// itself is int32 (so overflow wraps within int32 range, matching the GPU
// kernel's native atomicAdd into an i32 output buffer); the result is
// widened to int64 only for the column's promoted result type
// (spec: Sum(I32)->I64, scenario 6: sum([I32_MAX,1]) == I32_MIN).
func SumI32(data []int32) int64 {
	var acc int32
	for _, v := range data {
		acc += v
	}
	return int64(acc)
}

// SumI64 sums an int64 slice using wrapping addition.
func SumI64(data []int64) int64 {
	var acc int64
	for _, v := range data {
		acc += v
	}
	return acc
}

// SumF32 sums a float32 slice using Kahan compensated summation, falling
// back to naive summation the moment a non-finite value (NaN or ±Inf) is
// observed, since compensation corrupts infinities (spec §4.4).
func SumF32(data []float32) float32 {
	return kahanSum32(data)
}

// SumF64 sums a float64 slice using Kahan compensated summation with the
// same non-finite fallback as SumF32.
func SumF64(data []float64) float64 {
	return kahanSum64(data)
}

// kahanSum32 accumulates in float64 and rounds to float32 once at the end,
// so cancellation between large terms does not lose the small ones.
func kahanSum32(data []float32) float32 {
	var s, c float64
	naive := false
	var naiveSum float64
	for _, v32 := range data {
		v := float64(v32)
		if naive || isNonFinite64(v) {
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
		return float32(naiveSum)
	}
	return float32(s)
}

func kahanSum64(data []float64) float64 {
	var s, c float64
	naive := false
	var naiveSum float64
	for _, v := range data {
		if naive || isNonFinite64(v) {
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
		return naiveSum
	}
	return s
}

func isNonFinite32(v float32) bool { return isNonFinite64(float64(v)) }
func isNonFinite64(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// --- Min / Max ----------------------------------------------------------

// MinI32 returns the minimum value. Panics on an empty slice; callers must
// check length first (aggregates over an empty column are the caller's
// concern, per spec's executor-level handling).
func MinI32(data []int32) int32 {
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func MaxI32(data []int32) int32 {
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func MinI64(data []int64) int64 {
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func MaxI64(data []int64) int64 {
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// MinF32 returns the minimum value, propagating NaN: if any input is NaN,
// the result is NaN rather than silently ignored (spec §4.4).
func MinF32(data []float32) float32 {
	m := data[0]
	anyNaN := math.IsNaN(float64(m))
	for _, v := range data[1:] {
		if math.IsNaN(float64(v)) {
			anyNaN = true
			continue
		}
		if v < m || math.IsNaN(float64(m)) {
			m = v
		}
	}
	if anyNaN {
		return float32(math.NaN())
	}
	return m
}

func MaxF32(data []float32) float32 {
	m := data[0]
	anyNaN := math.IsNaN(float64(m))
	for _, v := range data[1:] {
		if math.IsNaN(float64(v)) {
			anyNaN = true
			continue
		}
		if v > m || math.IsNaN(float64(m)) {
			m = v
		}
	}
	if anyNaN {
		return float32(math.NaN())
	}
	return m
}

func MinF64(data []float64) float64 {
	m := data[0]
	anyNaN := math.IsNaN(m)
	for _, v := range data[1:] {
		if math.IsNaN(v) {
			anyNaN = true
			continue
		}
		if v < m || math.IsNaN(m) {
			m = v
		}
	}
	if anyNaN {
		return math.NaN()
	}
	return m
}

func MaxF64(data []float64) float64 {
	m := data[0]
	anyNaN := math.IsNaN(m)
	for _, v := range data[1:] {
		if math.IsNaN(v) {
			anyNaN = true
			continue
		}
		if v > m || math.IsNaN(m) {
			m = v
		}
	}
	if anyNaN {
		return math.NaN()
	}
	return m
}

// --- Count / Avg --------------------------------------------------------

// Count returns the element count, ignoring nullity; callers mask first if
// they want to exclude nulls (spec §4.4).
func Count(n int) int64 { return int64(n) }

// avgOK reports the Avg result and whether it is defined: false on empty
// input (spec: "Avg on empty input is undefined (absent)").
func avgOK(sum float64, n int) (float64, bool) {
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AvgI32 computes (Sum in f64)/N for an int32 column.
func AvgI32(data []int32) (float64, bool) {
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	return avgOK(sum, len(data))
}

func AvgI64(data []int64) (float64, bool) {
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	return avgOK(sum, len(data))
}

func AvgF32(data []float32) (float64, bool) {
	data64 := make([]float64, len(data))
	for i, v := range data {
		data64[i] = float64(v)
	}
	return avgOK(kahanSum64(data64), len(data))
}

func AvgF64(data []float64) (float64, bool) {
	return avgOK(kahanSum64(data), len(data))
}
