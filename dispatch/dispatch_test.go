package dispatch

import "testing"

func TestSelectBelowMinAlwaysSimd(t *testing.T) {
	if got := Select(MinGPUBytes-1, 1e15); got != Simd {
		t.Fatalf("Select below MinGPUBytes = %v, want Simd", got)
	}
}

func TestSelectLowIntensitySimd(t *testing.T) {
	// 10 MB transfer, trivial FLOPs: compute time is negligible compared
	// to transfer time, so the 5x rule keeps it on Simd.
	got := Select(10_000_000, EstimateSimpleAggFLOPs(10_000_000))
	if got != Simd {
		t.Fatalf("Select with simple-agg FLOPs = %v, want Simd", got)
	}
}

func TestSelectHighIntensityGpu(t *testing.T) {
	// Large buffer, compute-heavy workload: estimated compute time should
	// swamp transfer time by more than 5x.
	got := Select(1_000_000_000, EstimateGroupByFLOPs(50_000_000_000))
	if got != Gpu {
		t.Fatalf("Select with heavy group-by FLOPs = %v, want Gpu", got)
	}
}

func TestSelectIsMonotonicInFLOPs(t *testing.T) {
	bytes := int64(100_000_000)
	low := Select(bytes, 1)
	high := Select(bytes, 1e18)
	if low == Gpu && high == Simd {
		t.Fatal("increasing FLOPs at fixed bytes must not flip Gpu->Simd")
	}
}

func TestSelectIsPureAndDeterministic(t *testing.T) {
	a := Select(50_000_000, 1e12)
	b := Select(50_000_000, 1e12)
	if a != b {
		t.Fatal("Select must be a pure function of its inputs")
	}
}

func TestArithmeticIntensityZeroBytes(t *testing.T) {
	if got := ArithmeticIntensity(100, 0); got != 0 {
		t.Fatalf("ArithmeticIntensity with 0 bytes = %v, want 0", got)
	}
}

func TestBackendString(t *testing.T) {
	if Simd.String() != "Simd" || Gpu.String() != "Gpu" {
		t.Fatal("unexpected Backend.String() output")
	}
}
