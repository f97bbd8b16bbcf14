package gpu

import "fmt"

// Op is a filter comparison operator usable in the JIT fused filter+sum
// kernel (spec §4.5).
type Op uint8

const (
	OpGT Op = iota
	OpLT
	OpGE
	OpLE
	OpEQ
	OpNE
)

// String renders the operator's cache-key spelling, which is also its WGSL
// spelling except for OpEQ ("=", emitted as "==" by fusedFilterSumWGSL).
// Values outside the six constants render as ">" per spec §4.5 step 1.
func (o Op) String() string {
	switch o {
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpGE:
		return ">="
	case OpLE:
		return "<="
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	default:
		return ">"
	}
}

// ParseOp maps a SQL-surface operator token to an Op. Unrecognized tokens
// default to OpGT, matching the JIT compiler's "unknown OPs default to >"
// rule (spec §4.5).
func ParseOp(token string) Op {
	switch token {
	case ">":
		return OpGT
	case "<":
		return OpLT
	case ">=":
		return OpGE
	case "<=":
		return OpLE
	case "=", "==":
		return OpEQ
	case "!=", "<>":
		return OpNE
	default:
		return OpGT
	}
}

// apply evaluates v OP literal.
func (o Op) apply(v, literal float64) bool {
	switch o {
	case OpGT:
		return v > literal
	case OpLT:
		return v < literal
	case OpGE:
		return v >= literal
	case OpLE:
		return v <= literal
	case OpEQ:
		return v == literal
	case OpNE:
		return v != literal
	default:
		return v > literal
	}
}

// cacheKey returns the literal cache-key string `filter_{op}_{K}_sum`
// (spec §4.5/§9).
func cacheKey(op Op, literal float64) string {
	return fmt.Sprintf("filter_%s_%v_sum", op, literal)
}
