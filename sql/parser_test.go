package sql

import (
	"testing"

	"github.com/paiml/trueno-db/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyInputYieldsSentinel(t *testing.T) {
	p, err := Parse("   ")
	require.NoError(t, err)
	assert.Equal(t, "", p.Table)
	assert.False(t, p.Wildcard)
	assert.Empty(t, p.Projection)
}

func TestParseSimpleAggregateScenario(t *testing.T) {
	p, err := Parse("SELECT SUM(id) FROM t")
	require.NoError(t, err)
	assert.Equal(t, "t", p.Table)
	require.Len(t, p.Aggregates, 1)
	assert.Equal(t, Sum, p.Aggregates[0].Func)
	assert.Equal(t, "id", p.Aggregates[0].Column)
}

func TestParseOrderByDescLimitScenario(t *testing.T) {
	p, err := Parse("SELECT id, score FROM t ORDER BY score DESC LIMIT 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "score"}, p.Projection)
	require.Len(t, p.OrderBy, 1)
	assert.Equal(t, "score", p.OrderBy[0].Column)
	assert.Equal(t, Desc, p.OrderBy[0].Direction)
	require.NotNil(t, p.Limit)
	assert.Equal(t, 3, *p.Limit)
}

func TestParseWildcard(t *testing.T) {
	p, err := Parse("SELECT * FROM t")
	require.NoError(t, err)
	assert.True(t, p.Wildcard)
}

func TestParseWhereClause(t *testing.T) {
	p, err := Parse("SELECT * FROM t WHERE score > 5")
	require.NoError(t, err)
	require.NotNil(t, p.Filter)
	assert.Equal(t, "score", p.Filter.Column)
	assert.Equal(t, ">", p.Filter.Op)
	assert.Equal(t, "5", p.Filter.Literal)
}

func TestParseGroupByIsAccepted(t *testing.T) {
	p, err := Parse("SELECT SUM(v) FROM t GROUP BY k")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, p.GroupBy)
}

func TestParseCountStar(t *testing.T) {
	p, err := Parse("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	require.Len(t, p.Aggregates, 1)
	assert.Equal(t, Count, p.Aggregates[0].Func)
	assert.Equal(t, "", p.Aggregates[0].Column)
}

func TestParseAggregateAlias(t *testing.T) {
	p, err := Parse("SELECT AVG(v) AS mean FROM t")
	require.NoError(t, err)
	assert.Equal(t, "mean", p.Aggregates[0].Alias)
}

func TestParseRejectsNonSelect(t *testing.T) {
	_, err := Parse("DELETE FROM t")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsMultipleStatements(t *testing.T) {
	_, err := Parse("SELECT * FROM t; SELECT * FROM u")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsJoin(t *testing.T) {
	_, err := Parse("SELECT * FROM t JOIN u")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsMultipleFromTargets(t *testing.T) {
	_, err := Parse("SELECT * FROM t, u")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsQualifiedWildcard(t *testing.T) {
	_, err := Parse("SELECT t.* FROM t")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsSubquery(t *testing.T) {
	_, err := Parse("SELECT SUM(SELECT 1) FROM t")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseRejectsMixedProjectionAndAggregate(t *testing.T) {
	_, err := Parse("SELECT id, SUM(v) FROM t")
	assert.True(t, errs.Of(err, errs.ParseError))
}

func TestParseStringLiteralFilter(t *testing.T) {
	p, err := Parse("SELECT * FROM t WHERE name = 'bob'")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Filter.Literal)
}
