// Package sql implements the restricted SELECT front-end of spec §4.7: a
// hand-rolled lexer and recursive-descent parser that produce a deferred-
// typed Plan, never a typed predicate (the executor re-types filters at
// execution time against the column's runtime type).
package sql

// TokenType enumerates the lexical tokens of the restricted grammar,
// grounded on the pack's own T-SQL token-type style (token.go): a single
// flat iota block, special/literal/operator/keyword tokens in one enum
// rather than several.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT  // column or table name
	NUMBER // integer or float literal
	STRING // 'quoted literal'
	STAR   // *

	COMMA
	LPAREN
	RPAREN
	DOT

	EQ  // =
	NEQ // != or <>
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	SEMICOLON

	keywordBeg
	SELECT
	FROM
	WHERE
	GROUP
	BY
	ORDER
	ASC
	DESC
	LIMIT
	AS
	AND
	keywordEnd

	SUM
	AVG
	COUNT
	MIN
	MAX
)

var keywords = map[string]TokenType{
	"SELECT": SELECT,
	"FROM":   FROM,
	"WHERE":  WHERE,
	"GROUP":  GROUP,
	"BY":     BY,
	"ORDER":  ORDER,
	"ASC":    ASC,
	"DESC":   DESC,
	"LIMIT":  LIMIT,
	"AS":     AS,
	"AND":    AND,
	"SUM":    SUM,
	"AVG":    AVG,
	"COUNT":  COUNT,
	"MIN":    MIN,
	"MAX":    MAX,
}

// Token is one lexical unit with its literal text.
type Token struct {
	Type TokenType
	Lit  string
}

func (t TokenType) isAggFunc() bool {
	return t == SUM || t == AVG || t == COUNT || t == MIN || t == MAX
}
