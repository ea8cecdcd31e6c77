// Package ast holds the abstract syntax tree produced by internal/parser.
package ast

import (
	"strings"

	"github.com/dekarrin/ltsc/internal/diag"
)

// ActionRef is a reference to an action as written in source: a bare,
// lowercase-initial label optionally preceded by a broadcast ("!") or
// listen ("?") prefix. The prefix is stripped and recorded as a flag here.
type ActionRef struct {
	Name      string
	Broadcast bool
	Listen    bool
	Span      diag.Span
}

// File is the result of parsing an entire source text: a sequence of
// models, each terminated by ".".
type File struct {
	Models []Model
}

// Model is one comma-separated run of Definitions, with an optional
// top-level Hide set, terminated by ".".
type Model struct {
	Definitions []Definition
	Hide        []string
	HasHide     bool
	HideSpan    diag.Span
	Span        diag.Span
}

// Definition binds a name to a process body.
type Definition struct {
	Name string
	Body Process
	Span diag.Span
}

// Process is any of the process expression node variants: Sequence, Choice,
// Parallel, Name, Stop, Error.
type Process interface {
	Span() diag.Span
	processNode()
}

// Sequence is "Action -> Continuation".
type Sequence struct {
	Action       ActionRef
	Continuation Process
	span         diag.Span
}

func NewSequence(action ActionRef, continuation Process, span diag.Span) *Sequence {
	return &Sequence{Action: action, Continuation: continuation, span: span}
}

func (s *Sequence) Span() diag.Span { return s.span }
func (s *Sequence) processNode()    {}

// Choice is "Left | Right".
type Choice struct {
	Left, Right Process
	span        diag.Span
}

func NewChoice(left, right Process, span diag.Span) *Choice {
	return &Choice{Left: left, Right: right, span: span}
}

func (c *Choice) Span() diag.Span { return c.span }
func (c *Choice) processNode()    {}

// Parallel is "Left || Right".
type Parallel struct {
	Left, Right Process
	span        diag.Span
}

func NewParallel(left, right Process, span diag.Span) *Parallel {
	return &Parallel{Left: left, Right: right, span: span}
}

func (p *Parallel) Span() diag.Span { return p.span }
func (p *Parallel) processNode()    {}

// Name is a reference to another definition by name.
type Name struct {
	Ident string
	span  diag.Span
}

func NewName(ident string, span diag.Span) *Name {
	return &Name{Ident: ident, span: span}
}

func (n *Name) Span() diag.Span { return n.span }
func (n *Name) processNode()    {}

// Stop is the terminal "STOP" marker.
type Stop struct {
	span diag.Span
}

func NewStop(span diag.Span) *Stop {
	return &Stop{span: span}
}

func (s *Stop) Span() diag.Span { return s.span }
func (s *Stop) processNode()    {}

// ErrorNode is the terminal "ERROR" marker.
type ErrorNode struct {
	span diag.Span
}

func NewErrorNode(span diag.Span) *ErrorNode {
	return &ErrorNode{span: span}
}

func (e *ErrorNode) Span() diag.Span { return e.span }
func (e *ErrorNode) processNode()    {}

// String gives a compact, deterministic rendering of a Process tree, useful
// for test comparisons and debug output.
func String(p Process) string {
	var sb strings.Builder
	writeProcess(&sb, p)
	return sb.String()
}

func writeProcess(sb *strings.Builder, p Process) {
	switch n := p.(type) {
	case *Sequence:
		sb.WriteString(actionString(n.Action))
		sb.WriteString(" -> ")
		writeProcess(sb, n.Continuation)
	case *Choice:
		sb.WriteString("(")
		writeProcess(sb, n.Left)
		sb.WriteString(" | ")
		writeProcess(sb, n.Right)
		sb.WriteString(")")
	case *Parallel:
		sb.WriteString("(")
		writeProcess(sb, n.Left)
		sb.WriteString(" || ")
		writeProcess(sb, n.Right)
		sb.WriteString(")")
	case *Name:
		sb.WriteString(n.Ident)
	case *Stop:
		sb.WriteString("STOP")
	case *ErrorNode:
		sb.WriteString("ERROR")
	default:
		sb.WriteString("<?>")
	}
}

func actionString(a ActionRef) string {
	prefix := ""
	if a.Broadcast {
		prefix = "!"
	} else if a.Listen {
		prefix = "?"
	}
	return prefix + a.Name
}
