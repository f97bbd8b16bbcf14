package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/sql"
)

func storeOf(t *testing.T, schema column.Schema, cols []*column.Column) *column.Store {
	t.Helper()
	b, err := column.NewColumnBatch(schema, cols)
	require.NoError(t, err)
	s := column.NewStore(schema)
	require.NoError(t, s.Append(b))
	return s
}

func TestExecuteSumI32Scenario(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1, 2, 3, 4, 5}}})

	plan, err := sql.Parse("SELECT SUM(id) FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	require.Equal(t, 1, out.Rows())
	assert.Equal(t, column.Int64, out.Column(0).Type)
	assert.Equal(t, int64(15), out.Column(0).I64[0])
}

func TestExecuteSumF32KahanScenario(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "v", Type: column.Float32})
	s := storeOf(t, schema, []*column.Column{{Name: "v", Type: column.Float32, F32: []float32{1e10, 1.0, -1e10, 2.0, 3.0}}})

	plan, err := sql.Parse("SELECT SUM(v) FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, float64(out.Column(0).F32[0]), 1e-5)
}

func TestExecuteOrderByDescLimitScenario(t *testing.T) {
	schema := column.NewSchema(
		column.Field{Name: "id", Type: column.Int32},
		column.Field{Name: "score", Type: column.Float64},
	)
	s := storeOf(t, schema, []*column.Column{
		{Name: "id", Type: column.Int32, I32: []int32{0, 1, 2, 3, 4}},
		{Name: "score", Type: column.Float64, F64: []float64{1, 5, 3, 9, 2}},
	})

	plan, err := sql.Parse("SELECT id, score FROM t ORDER BY score DESC LIMIT 3")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	require.Equal(t, 3, out.Rows())
	wantIDs := []int32{3, 1, 2}
	wantScores := []float64{9, 5, 3}
	for i := range wantIDs {
		assert.Equal(t, wantIDs[i], out.Column(0).I32[i])
		assert.Equal(t, wantScores[i], out.Column(1).F64[i])
	}
}

func TestExecuteSumI32OverflowScenario(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "v", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "v", Type: column.Int32, I32: []int32{2147483647, 1}}})

	plan, err := sql.Parse("SELECT SUM(v) FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	assert.Equal(t, int64(-2147483648), out.Column(0).I64[0])
}

func TestExecuteWhereFilter(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1, 2, 3, 4, 5}}})

	plan, err := sql.Parse("SELECT id FROM t WHERE id > 3")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	require.Equal(t, 2, out.Rows())
	assert.Equal(t, []int32{4, 5}, out.Column(0).I32)
}

func TestExecuteGroupByRejected(t *testing.T) {
	schema := column.NewSchema(
		column.Field{Name: "k", Type: column.Int32},
		column.Field{Name: "v", Type: column.Int32},
	)
	s := storeOf(t, schema, []*column.Column{
		{Name: "k", Type: column.Int32, I32: []int32{1}},
		{Name: "v", Type: column.Int32, I32: []int32{1}},
	})

	plan, err := sql.Parse("SELECT SUM(v) FROM t GROUP BY k")
	require.NoError(t, err)

	_, err = Execute(context.Background(), plan, s)
	assert.True(t, errs.Of(err, errs.Unsupported))
}

func TestExecuteUnknownColumnIsInvalidInput(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1}}})

	plan, err := sql.Parse("SELECT SUM(missing) FROM t")
	require.NoError(t, err)

	_, err = Execute(context.Background(), plan, s)
	assert.True(t, errs.Of(err, errs.InvalidInput))
}

func TestExecuteWildcardPassesThrough(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1, 2, 3}}})

	plan, err := sql.Parse("SELECT * FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
}

func TestExecuteCountStar(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := storeOf(t, schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1, 2, 3}}})

	plan, err := sql.Parse("SELECT COUNT(*) FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Column(0).I64[0])
}

func TestExecuteConcatenatesMultipleBatches(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "id", Type: column.Int32})
	s := column.NewStore(schema)
	b1, _ := column.NewColumnBatch(schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{1, 2}}})
	b2, _ := column.NewColumnBatch(schema, []*column.Column{{Name: "id", Type: column.Int32, I32: []int32{3, 4, 5}}})
	require.NoError(t, s.Append(b1))
	require.NoError(t, s.Append(b2))

	plan, err := sql.Parse("SELECT SUM(id) FROM t")
	require.NoError(t, err)

	out, err := Execute(context.Background(), plan, s)
	require.NoError(t, err)
	assert.Equal(t, int64(15), out.Column(0).I64[0])
}
