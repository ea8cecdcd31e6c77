package expr

import (
	"strconv"

	"github.com/dekarrin/ltsc/internal/compileerr"
)

// bindingPower gives each binary operator's left binding power, highest
// first (*, /, % ... down to ||). Higher numbers bind tighter.
var bindingPower = map[string]int{
	"||": 10,
	"&&": 20,
	"|":  30,
	"^":  40,
	"&":  50,
	"==": 60,
	"!=": 60,
	"<":  70,
	"<=": 70,
	">":  70,
	">=": 70,
	"<<": 80,
	">>": 80,
	"+":  90,
	"-":  90,
	"*":  100,
	"/":  100,
	"%":  100,
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expression parses via Pratt's algorithm: an atom (nud), then as long as
// the next operator binds tighter than minBP, fold it in (led).
func (p *parser) expression(minBP int) (Expr, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokOp {
			break
		}
		bp, ok := bindingPower[t.text]
		if !ok || bp <= minBP {
			break
		}
		p.next()

		right, err := p.expression(bp)
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text, left: left, right: right}
	}

	return left, nil
}

func (p *parser) nud() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		n, err := strconv.ParseInt(t.text, 10, 32)
		if err != nil {
			return nil, compileerr.NewExpressionError("invalid integer literal %q", t.text)
		}
		return literal(int32(n)), nil

	case tokIdent:
		return variable(t.text), nil

	case tokParenOpen:
		inner, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokParenClose {
			return nil, compileerr.NewExpressionError("expected closing parenthesis")
		}
		p.next()
		return inner, nil

	default:
		return nil, compileerr.NewExpressionError("unexpected token %q", t.text)
	}
}
