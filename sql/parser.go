package sql

import (
	"strconv"
	"strings"

	"github.com/paiml/trueno-db/errs"
)

// Parser is a recursive-descent parser over the restricted SELECT grammar
// of spec §4.7.
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

// Parse parses a single SQL statement into a Plan. Empty (all-whitespace)
// input returns the documented sentinel plan. Multiple statements,
// non-SELECT statements, JOINs, multiple FROM targets, qualified
// wildcards, and subqueries all fail with errs.ParseError.
func Parse(text string) (*Plan, error) {
	if strings.TrimSpace(text) == "" {
		return emptyPlan(), nil
	}
	p := &Parser{lex: NewLexer(text)}
	p.next()
	p.next()
	return p.parseSelect()
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) parseSelect() (*Plan, error) {
	if p.cur.Type != SELECT {
		return nil, errs.Newf(errs.ParseError, "expected SELECT, got %q", p.cur.Lit)
	}
	p.next()

	plan := &Plan{}
	if err := p.parseSelectList(plan); err != nil {
		return nil, err
	}

	if p.cur.Type != FROM {
		return nil, errs.Newf(errs.ParseError, "expected FROM, got %q", p.cur.Lit)
	}
	p.next()
	if err := p.parseFrom(plan); err != nil {
		return nil, err
	}

	if p.cur.Type == WHERE {
		p.next()
		f, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		plan.Filter = f
	}

	if p.cur.Type == GROUP {
		p.next()
		if p.cur.Type != BY {
			return nil, errs.New(errs.ParseError, "expected BY after GROUP")
		}
		p.next()
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		plan.GroupBy = cols
	}

	if p.cur.Type == ORDER {
		p.next()
		if p.cur.Type != BY {
			return nil, errs.New(errs.ParseError, "expected BY after ORDER")
		}
		p.next()
		terms, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		plan.OrderBy = terms
	}

	if p.cur.Type == LIMIT {
		p.next()
		if p.cur.Type != NUMBER {
			return nil, errs.New(errs.ParseError, "expected a number after LIMIT")
		}
		n, err := strconv.Atoi(p.cur.Lit)
		if err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "invalid LIMIT value")
		}
		plan.Limit = &n
		p.next()
	}

	if p.cur.Type == SEMICOLON {
		p.next()
	}
	if p.cur.Type != EOF {
		return nil, errs.Newf(errs.ParseError, "unexpected trailing input starting at %q (multiple statements are not supported)", p.cur.Lit)
	}

	return plan, nil
}

// parseSelectList parses either "*" or a comma-separated projection list,
// or a comma-separated aggregate-function list. Mixing plain columns and
// aggregates is rejected, matching the grammar's "(projection | aggregates)"
// either/or.
func (p *Parser) parseSelectList(plan *Plan) error {
	if p.cur.Type == STAR {
		if p.peek.Type == DOT {
			return errs.New(errs.ParseError, "qualified wildcards (table.*) are not supported")
		}
		plan.Wildcard = true
		p.next()
		return nil
	}

	for {
		if p.cur.Type.isAggFunc() {
			agg, err := p.parseAggregate()
			if err != nil {
				return err
			}
			if len(plan.Projection) > 0 {
				return errs.New(errs.ParseError, "cannot mix plain columns with aggregate functions")
			}
			plan.Aggregates = append(plan.Aggregates, agg)
		} else if p.cur.Type == IDENT {
			if len(plan.Aggregates) > 0 {
				return errs.New(errs.ParseError, "cannot mix plain columns with aggregate functions")
			}
			col, err := p.parseQualifiableIdent()
			if err != nil {
				return err
			}
			plan.Projection = append(plan.Projection, col)
		} else {
			return errs.Newf(errs.ParseError, "expected a column name or aggregate function, got %q", p.cur.Lit)
		}

		if p.cur.Type != COMMA {
			break
		}
		p.next()
	}
	return nil
}

func (p *Parser) parseAggregate() (Aggregate, error) {
	fn := aggFuncOf(p.cur.Type)
	p.next()
	if p.cur.Type != LPAREN {
		return Aggregate{}, errs.New(errs.ParseError, "expected ( after aggregate function name")
	}
	p.next()

	var col string
	if p.cur.Type == STAR {
		if fn != Count {
			return Aggregate{}, errs.Newf(errs.ParseError, "%s(*) is not supported; only COUNT(*) is", fn)
		}
		p.next()
	} else if p.cur.Type == IDENT {
		col = p.cur.Lit
		p.next()
	} else if p.cur.Type == SELECT {
		return Aggregate{}, errs.New(errs.ParseError, "subqueries are not supported")
	} else {
		return Aggregate{}, errs.New(errs.ParseError, "expected a column name or * inside aggregate function")
	}

	if p.cur.Type != RPAREN {
		return Aggregate{}, errs.New(errs.ParseError, "expected ) to close aggregate function")
	}
	p.next()

	alias := ""
	if p.cur.Type == AS {
		p.next()
		if p.cur.Type != IDENT {
			return Aggregate{}, errs.New(errs.ParseError, "expected an alias name after AS")
		}
		alias = p.cur.Lit
		p.next()
	}

	return Aggregate{Func: fn, Column: col, Alias: alias}, nil
}

func aggFuncOf(t TokenType) AggFunc {
	switch t {
	case SUM:
		return Sum
	case AVG:
		return Avg
	case COUNT:
		return Count
	case MIN:
		return Min
	case MAX:
		return Max
	default:
		return NoFunc
	}
}

// parseFrom parses exactly one table name. A comma or JOIN keyword
// immediately after it indicates multiple FROM targets / a join, both
// rejected by the restricted grammar.
func (p *Parser) parseFrom(plan *Plan) error {
	if p.cur.Type != IDENT {
		return errs.Newf(errs.ParseError, "expected a table name after FROM, got %q", p.cur.Lit)
	}
	plan.Table = p.cur.Lit
	p.next()

	if p.cur.Type == COMMA {
		return errs.New(errs.ParseError, "multiple FROM targets are not supported")
	}
	if p.cur.Type == IDENT && isJoinKeyword(p.cur.Lit) {
		return errs.New(errs.ParseError, "JOINs are not supported")
	}
	return nil
}

func isJoinKeyword(lit string) bool {
	switch strings.ToUpper(lit) {
	case "JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS":
		return true
	default:
		return false
	}
}

// parseQualifiableIdent parses a column name, rejecting table.column
// qualification (the restricted grammar only names bare columns).
func (p *Parser) parseQualifiableIdent() (string, error) {
	name := p.cur.Lit
	p.next()
	if p.cur.Type == DOT {
		return "", errs.New(errs.ParseError, "qualified column references are not supported")
	}
	return name, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var out []string
	for {
		if p.cur.Type != IDENT {
			return nil, errs.Newf(errs.ParseError, "expected a column name, got %q", p.cur.Lit)
		}
		out = append(out, p.cur.Lit)
		p.next()
		if p.cur.Type != COMMA {
			break
		}
		p.next()
	}
	return out, nil
}

func (p *Parser) parseOrderByList() ([]OrderTerm, error) {
	var out []OrderTerm
	for {
		if p.cur.Type != IDENT {
			return nil, errs.Newf(errs.ParseError, "expected a column name in ORDER BY, got %q", p.cur.Lit)
		}
		term := OrderTerm{Column: p.cur.Lit, Direction: Asc}
		p.next()
		if p.cur.Type == ASC {
			p.next()
		} else if p.cur.Type == DESC {
			term.Direction = Desc
			p.next()
		}
		out = append(out, term)
		if p.cur.Type != COMMA {
			break
		}
		p.next()
	}
	return out, nil
}

// parseFilter parses the three-token tuple "column OP literal" without
// interpreting the literal's type; that happens at execution time.
func (p *Parser) parseFilter() (*Filter, error) {
	if p.cur.Type != IDENT {
		return nil, errs.Newf(errs.ParseError, "expected a column name in WHERE, got %q", p.cur.Lit)
	}
	col := p.cur.Lit
	p.next()

	op, err := opTokenString(p.cur.Type)
	if err != nil {
		return nil, err
	}
	p.next()

	if p.cur.Type == SELECT {
		return nil, errs.New(errs.ParseError, "subqueries are not supported")
	}
	if p.cur.Type != NUMBER && p.cur.Type != STRING && p.cur.Type != IDENT {
		return nil, errs.Newf(errs.ParseError, "expected a literal in WHERE clause, got %q", p.cur.Lit)
	}
	lit := p.cur.Lit
	p.next()

	return &Filter{Column: col, Op: op, Literal: lit}, nil
}

func opTokenString(t TokenType) (string, error) {
	switch t {
	case EQ:
		return "=", nil
	case NEQ:
		return "!=", nil
	case LT:
		return "<", nil
	case LTE:
		return "<=", nil
	case GT:
		return ">", nil
	case GTE:
		return ">=", nil
	default:
		return "", errs.New(errs.ParseError, "expected a comparison operator in WHERE clause")
	}
}
