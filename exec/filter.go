package exec

import (
	"strconv"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
	"github.com/paiml/trueno-db/sql"
)

// applyFilter re-types the plan's three-token filter tuple against the
// runtime type of the named column, then returns a new batch containing
// only the matching rows. Unknown columns are InvalidInput; literals that
// do not parse against the column's type are ParseError (spec §4.7).
func applyFilter(b *column.ColumnBatch, f *sql.Filter) (*column.ColumnBatch, error) {
	idx := b.Schema().IndexOf(f.Column)
	if idx < 0 {
		return nil, errs.Newf(errs.InvalidInput, "unknown column %q in WHERE clause", f.Column).WithColumn(f.Column)
	}
	c := b.Column(idx)

	keep, err := matchMask(c, f)
	if err != nil {
		return nil, err
	}
	defer keep.Release()

	rows := make([]int, 0, len(keep.Data))
	for i, ok := range keep.Data {
		if ok {
			rows = append(rows, i)
		}
	}
	return project(b, rows), nil
}

func matchMask(c *column.Column, f *sql.Filter) (*column.BoolMask, error) {
	n := c.Len()
	m := column.AcquireBoolMask(n)
	mask := m.Data
	switch c.Type {
	case column.Int32:
		lit, err := strconv.ParseInt(f.Literal, 10, 32)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "WHERE literal is not a valid Int32").WithColumn(f.Column)
		}
		for i, v := range c.I32 {
			mask[i] = compareInt(int64(v), lit, f.Op)
		}
	case column.Int64:
		lit, err := strconv.ParseInt(f.Literal, 10, 64)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "WHERE literal is not a valid Int64").WithColumn(f.Column)
		}
		for i, v := range c.I64 {
			mask[i] = compareInt(v, lit, f.Op)
		}
	case column.Float32:
		lit, err := strconv.ParseFloat(f.Literal, 32)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "WHERE literal is not a valid Float32").WithColumn(f.Column)
		}
		for i, v := range c.F32 {
			mask[i] = compareFloat(float64(v), lit, f.Op)
		}
	case column.Float64:
		lit, err := strconv.ParseFloat(f.Literal, 64)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "WHERE literal is not a valid Float64").WithColumn(f.Column)
		}
		for i, v := range c.F64 {
			mask[i] = compareFloat(v, lit, f.Op)
		}
	case column.Utf8:
		for i, v := range c.Str {
			mask[i] = compareString(v, f.Literal, f.Op)
		}
	case column.Boolean:
		lit, err := strconv.ParseBool(f.Literal)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "WHERE literal is not a valid Boolean").WithColumn(f.Column)
		}
		for i, v := range c.Bln {
			mask[i] = compareBool(v, lit, f.Op)
		}
	}
	return m, nil
}

func compareInt(v, lit int64, op string) bool {
	switch op {
	case "=":
		return v == lit
	case "!=":
		return v != lit
	case "<":
		return v < lit
	case "<=":
		return v <= lit
	case ">":
		return v > lit
	case ">=":
		return v >= lit
	default:
		return false
	}
}

func compareFloat(v, lit float64, op string) bool {
	switch op {
	case "=":
		return v == lit
	case "!=":
		return v != lit
	case "<":
		return v < lit
	case "<=":
		return v <= lit
	case ">":
		return v > lit
	case ">=":
		return v >= lit
	default:
		return false
	}
}

func compareString(v, lit, op string) bool {
	switch op {
	case "=":
		return v == lit
	case "!=":
		return v != lit
	case "<":
		return v < lit
	case "<=":
		return v <= lit
	case ">":
		return v > lit
	case ">=":
		return v >= lit
	default:
		return false
	}
}

func compareBool(v, lit bool, op string) bool {
	switch op {
	case "=":
		return v == lit
	case "!=":
		return v != lit
	default:
		return false
	}
}
