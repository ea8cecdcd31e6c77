// Package lexer tokenizes process-algebra source text for internal/parser.
// It is a small, hand-rolled scanner; no operator precedence is needed here,
// that lives in internal/expr instead.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/ltsc/internal/compileerr"
	"github.com/dekarrin/ltsc/internal/diag"
	"golang.org/x/text/unicode/norm"
)

type Class int

const (
	Undefined Class = iota
	Name        // uppercase-initial identifier
	Action      // lowercase-initial identifier, optional !/? prefix
	KeywordStop // STOP
	KeywordErr  // ERROR
	Arrow       // ->
	Parallel    // ||
	Pipe        // |
	Equals      // =
	Comma       // ,
	Backslash   // \
	BraceOpen   // {
	BraceClose  // }
	ParenOpen   // (
	ParenClose  // )
	Dot         // .
	EOF
)

func (c Class) Human() string {
	switch c {
	case Name:
		return "name"
	case Action:
		return "action"
	case KeywordStop:
		return "'STOP'"
	case KeywordErr:
		return "'ERROR'"
	case Arrow:
		return "'->'"
	case Parallel:
		return "'||'"
	case Pipe:
		return "'|'"
	case Equals:
		return "'='"
	case Comma:
		return "','"
	case Backslash:
		return "'\\'"
	case BraceOpen:
		return "'{'"
	case BraceClose:
		return "'}'"
	case ParenOpen:
		return "'('"
	case ParenClose:
		return "')'"
	case Dot:
		return "'.'"
	case EOF:
		return "end of input"
	default:
		return "undefined token"
	}
}

// Token is one lexeme along with its class and the span of source it came
// from.
type Token struct {
	Class Class
	Text  string
	Span  diag.Span
}

// Stream is a read-forward, peekable sequence of Tokens.
type Stream struct {
	tokens []Token
	cur    int
}

func (s *Stream) Peek() Token {
	return s.tokens[s.cur]
}

func (s *Stream) Next() Token {
	t := s.tokens[s.cur]
	if s.cur < len(s.tokens)-1 {
		s.cur++
	}
	return t
}

func isNameStart(r rune) bool  { return unicode.IsUpper(r) }
func isActionStart(r rune) bool { return unicode.IsLower(r) }
func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Lex scans source text into a Stream, normalising it to NFC first so that
// combined and precomposed forms of the same identifier are never treated
// as distinct tokens.
func Lex(src string) (*Stream, error) {
	src = norm.NFC.String(src)

	var tokens []Token
	line, col, offset := 1, 1, 0

	pos := func() diag.Position {
		return diag.Position{Line: line, Column: col, Offset: offset}
	}

	advance := func(r rune) {
		offset += utf8.RuneLen(r)
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	runes := []rune(src)
	i := 0
	peekRune := func(off int) (rune, bool) {
		if i+off >= len(runes) {
			return 0, false
		}
		return runes[i+off], true
	}

	for i < len(runes) {
		r := runes[i]

		if unicode.IsSpace(r) {
			advance(r)
			i++
			continue
		}

		start := pos()

		switch {
		case r == '-' && peekIs(runes, i+1, '>'):
			tokens = append(tokens, Token{Class: Arrow, Text: "->", Span: spanOf(start, pos2(line, col+2, offset+2))})
			advance(r)
			i++
			advance(runes[i])
			i++
		case r == '|' && peekIs(runes, i+1, '|'):
			tokens = append(tokens, Token{Class: Parallel, Text: "||", Span: spanOf(start, pos2(line, col+2, offset+2))})
			advance(r)
			i++
			advance(runes[i])
			i++
		case r == '|':
			tokens = append(tokens, Token{Class: Pipe, Text: "|", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '=':
			tokens = append(tokens, Token{Class: Equals, Text: "=", Span: singleSpan(start)})
			advance(r)
			i++
		case r == ',':
			tokens = append(tokens, Token{Class: Comma, Text: ",", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '\\':
			tokens = append(tokens, Token{Class: Backslash, Text: "\\", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '{':
			tokens = append(tokens, Token{Class: BraceOpen, Text: "{", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '}':
			tokens = append(tokens, Token{Class: BraceClose, Text: "}", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '(':
			tokens = append(tokens, Token{Class: ParenOpen, Text: "(", Span: singleSpan(start)})
			advance(r)
			i++
		case r == ')':
			tokens = append(tokens, Token{Class: ParenClose, Text: ")", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '.':
			tokens = append(tokens, Token{Class: Dot, Text: ".", Span: singleSpan(start)})
			advance(r)
			i++
		case r == '!' || r == '?':
			prefix := r
			advance(r)
			i++
			next, ok := peekRune(0)
			if !ok || !isActionStart(next) {
				return nil, compileerr.NewSyntaxError(singleSpan(start), "expected a lowercase action name after %q", string(prefix))
			}
			word, consumed := scanIdent(runes[i:])
			for range word {
				advance(runes[i])
				i++
			}
			_ = consumed
			tokens = append(tokens, Token{Class: Action, Text: string(prefix) + word, Span: diag.Span{Start: start, End: pos()}})
		case isNameStart(r):
			word, consumed := scanIdent(runes[i:])
			for range word {
				advance(runes[i])
				i++
			}
			_ = consumed
			class := Name
			if word == "STOP" {
				class = KeywordStop
			} else if word == "ERROR" {
				class = KeywordErr
			}
			tokens = append(tokens, Token{Class: class, Text: word, Span: diag.Span{Start: start, End: pos()}})
		case isActionStart(r):
			word, consumed := scanIdent(runes[i:])
			for range word {
				advance(runes[i])
				i++
			}
			_ = consumed
			tokens = append(tokens, Token{Class: Action, Text: word, Span: diag.Span{Start: start, End: pos()}})
		default:
			return nil, compileerr.NewSyntaxError(singleSpan(start), "unexpected character %q", string(r))
		}
	}

	endPos := pos()
	tokens = append(tokens, Token{Class: EOF, Text: "", Span: diag.Span{Start: endPos, End: endPos}})

	return &Stream{tokens: tokens}, nil
}

func scanIdent(runes []rune) (string, int) {
	var sb strings.Builder
	n := 0
	for n < len(runes) && isIdentCont(runes[n]) {
		sb.WriteRune(runes[n])
		n++
	}
	return sb.String(), n
}

func peekIs(runes []rune, idx int, want rune) bool {
	return idx < len(runes) && runes[idx] == want
}

func singleSpan(p diag.Position) diag.Span {
	end := p
	end.Column++
	end.Offset++
	return diag.Span{Start: p, End: end}
}

func spanOf(start, end diag.Position) diag.Span {
	return diag.Span{Start: start, End: end}
}

func pos2(line, col, offset int) diag.Position {
	return diag.Position{Line: line, Column: col, Offset: offset}
}
