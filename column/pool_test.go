package column

import "testing"

func TestAcquireBoolMaskSizedAndZeroed(t *testing.T) {
	m := AcquireBoolMask(5)
	if len(m.Data) != 5 {
		t.Fatalf("len(Data) = %d, want 5", len(m.Data))
	}
	for i, v := range m.Data {
		if v {
			t.Fatalf("Data[%d] = true, want zeroed false on acquire", i)
		}
	}
}

func TestBoolMaskReleaseThenReacquireIsZeroed(t *testing.T) {
	m := AcquireBoolMask(8)
	for i := range m.Data {
		m.Data[i] = true
	}
	m.Release()

	m2 := AcquireBoolMask(8)
	for i, v := range m2.Data {
		if v {
			t.Fatalf("reacquired Data[%d] = true, want false after Release", i)
		}
	}
}

func TestAcquireBoolMaskLargeSize(t *testing.T) {
	n := 5_000_000
	m := AcquireBoolMask(n)
	if len(m.Data) != n {
		t.Fatalf("len(Data) = %d, want %d", len(m.Data), n)
	}
}
