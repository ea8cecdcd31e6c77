package expr

import (
	"unicode"

	"github.com/dekarrin/ltsc/internal/compileerr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokParenOpen
	tokParenClose
)

type token struct {
	kind tokenKind
	text string
}

// ops, longest-match first so "<<" is not lexed as two "<" tokens.
var multiCharOps = []string{"<<", ">>", "<=", ">=", "==", "!=", "&&", "||"}
var singleCharOps = "*/%+-<>&^|"

func lex(src string) ([]token, error) {
	runes := []rune(src)
	var toks []token
	i := 0

	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++

		case c == '(':
			toks = append(toks, token{kind: tokParenOpen, text: "("})
			i++

		case c == ')':
			toks = append(toks, token{kind: tokParenClose, text: ")"})
			i++

		case unicode.IsDigit(c):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(runes[start:i])})

		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i])})

		default:
			matched := false
			for _, op := range multiCharOps {
				n := len(op)
				if i+n <= len(runes) && string(runes[i:i+n]) == op {
					toks = append(toks, token{kind: tokOp, text: op})
					i += n
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if containsRune(singleCharOps, c) {
				toks = append(toks, token{kind: tokOp, text: string(c)})
				i++
				continue
			}
			return nil, compileerr.NewExpressionError("unexpected character %q at offset %d", c, i)
		}
	}

	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
