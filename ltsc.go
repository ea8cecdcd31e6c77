// Package ltsc is the compiler core for the labelled-transition-system
// process-algebra language: lex, parse, interpret, and expose the resulting
// automata and the operation log used for inline source annotation.
package ltsc

import (
	"github.com/dekarrin/ltsc/internal/compileerr"
	"github.com/dekarrin/ltsc/internal/diag"
	"github.com/dekarrin/ltsc/internal/interp"
	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/dekarrin/ltsc/internal/ltsops"
	"github.com/dekarrin/ltsc/internal/parser"
)

// Automaton names one definition's resulting LTS.
type Automaton struct {
	Name string
	LTS  *lts.LTS
}

// Result is the outcome of a successful Compile call.
type Result struct {
	Automata   []Automaton
	Operations []diag.Operation

	// Alloc is the node/edge ID allocator used to build Automata. Callers
	// that go on to call Abstract against one of these automata must reuse
	// this allocator so synthesised nodes/edges never collide with IDs
	// already present in the graph.
	Alloc *lts.IDAllocator
}

// Compile lexes, parses, and interprets sourceText, returning every named
// automaton it defines.
//
// liveBuilding indicates whether the caller will actually render the
// result; when false, the core may skip presentational post-processing that
// has no effect on LTS semantics (currently: none is skipped, but callers
// may rely on the flag being accepted for forward compatibility).
//
// fairAbstraction is unused by Compile itself (abstraction is requested
// per-automaton, not per-compile); it is accepted so callers can thread
// their session-wide preference through to a later Abstract call made
// against the returned Result's Alloc.
func Compile(sourceText string, liveBuilding, fairAbstraction bool) (Result, error) {
	_ = liveBuilding
	_ = fairAbstraction

	file, err := parser.Parse(sourceText)
	if err != nil {
		return Result{}, err
	}

	alloc := lts.NewIDAllocator()
	ip := interp.New(alloc)

	out, err := ip.Run(file)
	if err != nil {
		return Result{}, err
	}

	return Result{Automata: toAutomata(out.Automata), Operations: out.Operations, Alloc: alloc}, nil
}

// Abstract applies the weak-abstraction variant selected by fair to g,
// using alloc for any node/edge identifiers the rewrite must synthesise.
func Abstract(g *lts.LTS, alloc *lts.IDAllocator, fair bool) *lts.LTS {
	if fair {
		return ltsops.FairAbstraction(g, alloc)
	}
	return ltsops.UnfairAbstraction(g, alloc)
}

func toAutomata(m map[string]*lts.LTS) []Automaton {
	out := make([]Automaton, 0, len(m))
	for name, g := range m {
		out = append(out, Automaton{Name: name, LTS: g})
	}
	return out
}

// AsSyntaxError reports whether err is a *compileerr.SyntaxError.
func AsSyntaxError(err error) (*compileerr.SyntaxError, bool) {
	se, ok := err.(*compileerr.SyntaxError)
	return se, ok
}

// AsInterpreterException reports whether err is a
// *compileerr.InterpreterException.
func AsInterpreterException(err error) (*compileerr.InterpreterException, bool) {
	ie, ok := err.(*compileerr.InterpreterException)
	return ie, ok
}
