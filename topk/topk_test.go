package topk

import (
	"testing"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
)

func makeScoreBatch(t *testing.T) *column.ColumnBatch {
	t.Helper()
	schema := column.NewSchema(
		column.Field{Name: "id", Type: column.Int32},
		column.Field{Name: "score", Type: column.Float64},
	)
	cols := []*column.Column{
		{Name: "id", Type: column.Int32, I32: []int32{0, 1, 2, 3, 4}},
		{Name: "score", Type: column.Float64, F64: []float64{1, 5, 3, 9, 2}},
	}
	b, err := column.NewColumnBatch(schema, cols)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestTopKDescendingScenario(t *testing.T) {
	b := makeScoreBatch(t)
	out, err := TopK(b, 1, 3, Descending)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", out.Rows())
	}
	wantIDs := []int32{3, 1, 2}
	wantScores := []float64{9, 5, 3}
	for i := 0; i < 3; i++ {
		if out.Column(0).I32[i] != wantIDs[i] || out.Column(1).F64[i] != wantScores[i] {
			t.Fatalf("row %d = (%d,%v), want (%d,%v)", i, out.Column(0).I32[i], out.Column(1).F64[i], wantIDs[i], wantScores[i])
		}
	}
}

func TestTopKAscending(t *testing.T) {
	b := makeScoreBatch(t)
	out, err := TopK(b, 1, 2, Ascending)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2}
	for i, w := range want {
		if out.Column(1).F64[i] != w {
			t.Fatalf("row %d score = %v, want %v", i, out.Column(1).F64[i], w)
		}
	}
}

func TestTopKDegradesToFullSortWhenKGEN(t *testing.T) {
	b := makeScoreBatch(t)
	out, err := TopK(b, 1, 100, Descending)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 5 {
		t.Fatalf("rows = %d, want 5 (min(k,N))", out.Rows())
	}
}

func TestTopKInvalidInput(t *testing.T) {
	b := makeScoreBatch(t)
	if _, err := TopK(b, 1, 0, Descending); !errs.Of(err, errs.InvalidInput) {
		t.Fatalf("k=0 should be InvalidInput, got %v", err)
	}
	if _, err := TopK(b, 99, 1, Descending); !errs.Of(err, errs.InvalidInput) {
		t.Fatalf("out-of-range column index should be InvalidInput, got %v", err)
	}
}

func TestTopKIdempotence(t *testing.T) {
	b := makeScoreBatch(t)
	first, err := TopK(b, 1, 4, Descending)
	if err != nil {
		t.Fatal(err)
	}
	second, err := TopK(first, 1, 2, Descending)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if second.Column(1).F64[i] != first.Column(1).F64[i] {
			t.Fatalf("idempotence violated at row %d: %v != %v", i, second.Column(1).F64[i], first.Column(1).F64[i])
		}
	}
}

func TestTopKRowIntegrityNoShearing(t *testing.T) {
	b := makeScoreBatch(t)
	out, err := TopK(b, 1, 3, Descending)
	if err != nil {
		t.Fatal(err)
	}
	// Every (id, score) pair in the output must also appear paired in the input.
	for i := 0; i < out.Rows(); i++ {
		id := out.Column(0).I32[i]
		score := out.Column(1).F64[i]
		found := false
		for j := 0; j < b.Rows(); j++ {
			if b.Column(0).I32[j] == id && b.Column(1).F64[j] == score {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("row (%d, %v) does not correspond to any input row", id, score)
		}
	}
}
