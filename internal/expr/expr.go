// Package expr implements a small integer expression sub-language used to
// compute user variables, kept entirely separate from the process-algebra
// parser in internal/parser. Parsing follows a Pratt (nud/led,
// binding-power) shape.
package expr

import (
	"fmt"

	"github.com/dekarrin/ltsc/internal/compileerr"
)

// Env resolves a variable name to its current value, for variable lookup
// within an expression.
type Env interface {
	Lookup(name string) (int32, bool)
}

// MapEnv is the simplest Env: a plain map of variable name to value.
type MapEnv map[string]int32

func (m MapEnv) Lookup(name string) (int32, bool) {
	v, ok := m[name]
	return v, ok
}

// Expr is a parsed expression ready for repeated evaluation against
// different Envs.
type Expr interface {
	Eval(env Env) (int32, error)
}

// Parse tokenizes and parses src as a single expression.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, compileerr.NewExpressionError("unexpected trailing input %q", p.peek().text)
	}
	return e, nil
}

type literal int32

func (l literal) Eval(Env) (int32, error) { return int32(l), nil }

type variable string

func (v variable) Eval(env Env) (int32, error) {
	val, ok := env.Lookup(string(v))
	if !ok {
		return 0, compileerr.NewExpressionError("unknown variable %q", string(v))
	}
	return val, nil
}

type binary struct {
	op          string
	left, right Expr
}

func (b binary) Eval(env Env) (int32, error) {
	l, err := b.left.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := b.right.Eval(env)
	if err != nil {
		return 0, err
	}

	switch b.op {
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, compileerr.NewExpressionError("division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, compileerr.NewExpressionError("modulo by zero")
		}
		return l % r, nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "<<":
		return l << uint32(r), nil
	case ">>":
		return l >> uint32(r), nil
	case "<":
		return boolInt(l < r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">":
		return boolInt(l > r), nil
	case ">=":
		return boolInt(l >= r), nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil
	case "&":
		return l & r, nil
	case "^":
		return l ^ r, nil
	case "|":
		return l | r, nil
	case "&&":
		return boolInt(toBool(l) && toBool(r)), nil
	case "||":
		return boolInt(toBool(l) || toBool(r)), nil
	default:
		return 0, fmt.Errorf("expr: unrecognised operator %q", b.op)
	}
}

func toBool(v int32) bool { return v != 0 }

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
