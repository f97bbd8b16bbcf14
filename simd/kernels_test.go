package simd

import (
	"math"
	"testing"
)

func TestSumI32Wraps(t *testing.T) {
	got := SumI32([]int32{math.MaxInt32, 1})
	want := int64(math.MinInt32)
	if got != want {
		t.Fatalf("SumI32(MaxInt32,1) = %d, want %d", got, want)
	}
}

func TestSumI64(t *testing.T) {
	got := SumI64([]int64{1, 2, 3, 4, 5})
	if got != 15 {
		t.Fatalf("SumI64 = %d, want 15", got)
	}
}

func TestSumF32Kahan(t *testing.T) {
	data := []float32{1e10, 1.0, -1e10, 2.0, 3.0}
	got := SumF32(data)
	want := float32(6.0)
	if math.Abs(float64(got-want)) > F32SumEpsilon {
		t.Fatalf("SumF32 = %v, want %v +/- %v", got, want, F32SumEpsilon)
	}
}

func TestSumFloatNonFiniteFallsBackToNaive(t *testing.T) {
	data := []float64{1, math.Inf(1), 2, -3}
	got := SumF64(data)
	if !math.IsInf(got, 1) {
		t.Fatalf("SumF64 with +Inf input = %v, want +Inf", got)
	}

	nanData := []float64{1, 2, math.NaN(), 3}
	got = SumF64(nanData)
	if !math.IsNaN(got) {
		t.Fatalf("SumF64 with NaN input = %v, want NaN", got)
	}
}

func TestMinMaxPropagateNaN(t *testing.T) {
	data := []float64{1, 2, math.NaN(), -5}
	if !math.IsNaN(MinF64(data)) {
		t.Fatalf("MinF64 with NaN input did not propagate NaN")
	}
	if !math.IsNaN(MaxF64(data)) {
		t.Fatalf("MaxF64 with NaN input did not propagate NaN")
	}
}

func TestMinMaxInt(t *testing.T) {
	if got := MinI32([]int32{3, -1, 7}); got != -1 {
		t.Fatalf("MinI32 = %d, want -1", got)
	}
	if got := MaxI32([]int32{3, -1, 7}); got != 7 {
		t.Fatalf("MaxI32 = %d, want 7", got)
	}
	if got := MinI64([]int64{3, -1, 7}); got != -1 {
		t.Fatalf("MinI64 = %d, want -1", got)
	}
	if got := MaxI64([]int64{3, -1, 7}); got != 7 {
		t.Fatalf("MaxI64 = %d, want 7", got)
	}
}

func TestAvgEmptyIsUndefined(t *testing.T) {
	if _, ok := AvgF64(nil); ok {
		t.Fatalf("AvgF64(nil) should be undefined")
	}
	if _, ok := AvgI32(nil); ok {
		t.Fatalf("AvgI32(nil) should be undefined")
	}
}

func TestAvgF64(t *testing.T) {
	got, ok := AvgF64([]float64{1, 5, 3, 9, 2})
	if !ok {
		t.Fatalf("AvgF64 should be defined for non-empty input")
	}
	want := 4.0
	if math.Abs(got-want) > AvgEpsilon {
		t.Fatalf("AvgF64 = %v, want %v", got, want)
	}
}

func TestCountIgnoresNullity(t *testing.T) {
	if got := Count(5); got != 5 {
		t.Fatalf("Count = %d, want 5", got)
	}
}
