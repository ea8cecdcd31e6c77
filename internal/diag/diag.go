// Package diag holds the position and diagnostic records shared by the
// lexer, parser, interpreter, and operations library. Every component that
// can localise a failure or an emitted operation to source text produces
// one of these.
package diag

import "fmt"

// Position is a single point in source text. Line and Column are 1-indexed;
// Offset is the 0-indexed byte offset from the start of the source.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers a range of source text, from Start up to (but not including)
// End.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Operation records that an operation (hide, abstraction, simplification,
// parallel composition, or a definition's construction) was performed while
// compiling, and the source span responsible for it. The driver uses these
// to place inline annotations the way the console layer expects.
type Operation struct {
	Description string
	Location    Span
}
