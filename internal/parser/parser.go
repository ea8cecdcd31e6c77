// Package parser implements a recursive-descent, PEG-style parser that turns
// a lexer.Stream into an ast.File.
package parser

import (
	"github.com/dekarrin/ltsc/internal/ast"
	"github.com/dekarrin/ltsc/internal/compileerr"
	"github.com/dekarrin/ltsc/internal/diag"
	"github.com/dekarrin/ltsc/internal/lexer"
)

// Parse lexes and parses an entire source text into an ast.File: a sequence
// of models, each terminated by ".".
func Parse(src string) (ast.File, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return ast.File{}, err
	}

	p := &parser{toks: toks}

	var models []ast.Model
	for p.peek().Class != lexer.EOF {
		m, err := p.parseModel()
		if err != nil {
			return ast.File{}, err
		}
		models = append(models, m)
	}

	return ast.File{Models: models}, nil
}

type parser struct {
	toks *lexer.Stream
}

func (p *parser) peek() lexer.Token {
	return p.toks.Peek()
}

func (p *parser) next() lexer.Token {
	return p.toks.Next()
}

func (p *parser) expect(c lexer.Class) (lexer.Token, error) {
	t := p.peek()
	if t.Class != c {
		return t, compileerr.NewSyntaxError(t.Span, "expected %s, found %s %q", c.Human(), t.Class.Human(), t.Text)
	}
	return p.next(), nil
}

// parseModel parses "Definition (',' Definition)* ('\' HideSet)? '.'".
func (p *parser) parseModel() (ast.Model, error) {
	start := p.peek().Span.Start

	var defs []ast.Definition
	for {
		def, err := p.parseDefinition()
		if err != nil {
			return ast.Model{}, err
		}
		defs = append(defs, def)

		if p.peek().Class == lexer.Comma {
			p.next()
			continue
		}
		break
	}

	m := ast.Model{Definitions: defs}

	if p.peek().Class == lexer.Backslash {
		p.next()
		hideStart := p.peek().Span.Start
		actions, err := p.parseHideSet()
		if err != nil {
			return ast.Model{}, err
		}
		m.Hide = actions
		m.HasHide = true
		m.HideSpan = diag.Span{Start: hideStart, End: p.peek().Span.Start}
	}

	dot, err := p.expect(lexer.Dot)
	if err != nil {
		return ast.Model{}, err
	}

	m.Span = diag.Span{Start: start, End: dot.Span.End}
	return m, nil
}

func (p *parser) parseDefinition() (ast.Definition, error) {
	nameTok, err := p.expect(lexer.Name)
	if err != nil {
		return ast.Definition{}, err
	}
	if _, err := p.expect(lexer.Equals); err != nil {
		return ast.Definition{}, err
	}
	body, err := p.parseProcess()
	if err != nil {
		return ast.Definition{}, err
	}
	return ast.Definition{
		Name: nameTok.Text,
		Body: body,
		Span: diag.Span{Start: nameTok.Span.Start, End: body.Span().End},
	}, nil
}

func (p *parser) parseHideSet() ([]string, error) {
	if _, err := p.expect(lexer.BraceOpen); err != nil {
		return nil, err
	}

	var actions []string
	for {
		tok, err := p.expect(lexer.Action)
		if err != nil {
			return nil, err
		}
		actions = append(actions, stripActionPrefix(tok.Text))

		if p.peek().Class == lexer.Comma {
			p.next()
			continue
		}
		break
	}

	if _, err := p.expect(lexer.BraceClose); err != nil {
		return nil, err
	}

	return actions, nil
}

// parseProcess implements "(Name | Choice) ('||' Process)?", right
// associative.
func (p *parser) parseProcess() (ast.Process, error) {
	var left ast.Process
	var err error

	if p.peek().Class == lexer.Name {
		left = p.parseNameRef()
	} else {
		left, err = p.parseChoice()
		if err != nil {
			return nil, err
		}
	}

	if p.peek().Class == lexer.Parallel {
		p.next()
		right, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		return ast.NewParallel(left, right, diag.Span{Start: left.Span().Start, End: right.Span().End}), nil
	}

	return left, nil
}

// parseChoice implements "Sequence ('|' Choice)?", right associative.
func (p *parser) parseChoice() (ast.Process, error) {
	left, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	if p.peek().Class == lexer.Pipe {
		p.next()
		right, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		return ast.NewChoice(left, right, diag.Span{Start: left.Span().Start, End: right.Span().End}), nil
	}

	return left, nil
}

// parseSequence implements "Action '->' (Sequence | Name) | Terminal | '(' Process ')'".
func (p *parser) parseSequence() (ast.Process, error) {
	t := p.peek()

	switch t.Class {
	case lexer.Action:
		p.next()
		action := toActionRef(t)

		if _, err := p.expect(lexer.Arrow); err != nil {
			return nil, err
		}

		var cont ast.Process
		var err error
		if p.peek().Class == lexer.Name {
			cont = p.parseNameRef()
		} else {
			cont, err = p.parseSequence()
			if err != nil {
				return nil, err
			}
		}

		return ast.NewSequence(action, cont, diag.Span{Start: t.Span.Start, End: cont.Span().End}), nil

	case lexer.KeywordStop:
		p.next()
		return ast.NewStop(t.Span), nil

	case lexer.KeywordErr:
		p.next()
		return ast.NewErrorNode(t.Span), nil

	case lexer.ParenOpen:
		p.next()
		inner, err := p.parseProcess()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(lexer.ParenClose)
		if err != nil {
			return nil, err
		}
		return wrapSpan(inner, t.Span.Start, closeTok.Span.End), nil

	default:
		return nil, compileerr.NewSyntaxError(t.Span, "expected an action, 'STOP', 'ERROR', or '(', found %s %q", t.Class.Human(), t.Text)
	}
}

func (p *parser) parseNameRef() ast.Process {
	t := p.next()
	return ast.NewName(t.Text, t.Span)
}

func toActionRef(t lexer.Token) ast.ActionRef {
	bare := t.Text
	broadcast, listen := false, false
	if len(bare) > 0 {
		switch bare[0] {
		case '!':
			broadcast = true
			bare = bare[1:]
		case '?':
			listen = true
			bare = bare[1:]
		}
	}
	return ast.ActionRef{Name: bare, Broadcast: broadcast, Listen: listen, Span: t.Span}
}

func stripActionPrefix(raw string) string {
	if len(raw) > 0 && (raw[0] == '!' || raw[0] == '?') {
		return raw[1:]
	}
	return raw
}

// wrapSpan re-spans a parenthesized sub-process to include the surrounding
// parens without fabricating a new node, so the tree produced for
// "(a -> STOP)" is identical to one produced for "a -> STOP".
func wrapSpan(p ast.Process, start, end diag.Position) ast.Process {
	switch n := p.(type) {
	case *ast.Sequence:
		return ast.NewSequence(n.Action, n.Continuation, diag.Span{Start: start, End: end})
	case *ast.Choice:
		return ast.NewChoice(n.Left, n.Right, diag.Span{Start: start, End: end})
	case *ast.Parallel:
		return ast.NewParallel(n.Left, n.Right, diag.Span{Start: start, End: end})
	case *ast.Name:
		return ast.NewName(n.Ident, diag.Span{Start: start, End: end})
	case *ast.Stop:
		return ast.NewStop(diag.Span{Start: start, End: end})
	case *ast.ErrorNode:
		return ast.NewErrorNode(diag.Span{Start: start, End: end})
	default:
		return p
	}
}
