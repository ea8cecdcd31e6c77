// Package interp implements the interpreter: it walks the AST of one or more
// models and constructs a concrete LTS for every named definition, resolving
// Name references between definitions.
package interp

import (
	"fmt"

	"github.com/dekarrin/ltsc/internal/ast"
	"github.com/dekarrin/ltsc/internal/compileerr"
	"github.com/dekarrin/ltsc/internal/diag"
	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/dekarrin/ltsc/internal/ltsops"
)

// Result is the output of a compile-time walk over an ast.File: a map from
// definition name to the LTS it expands to, plus the operation log used
// for inline source annotation.
type Result struct {
	Automata   map[string]*lts.LTS
	Operations []diag.Operation
}

// Interpreter holds the shared identifier allocator and the definitions
// resolved so far. A single Interpreter is good for exactly one compile;
// the driver creates a fresh one (with a fresh allocator) per compile.
type Interpreter struct {
	alloc      *lts.IDAllocator
	defs       map[string]*lts.LTS
	inProgress map[string]bool
	ops        []diag.Operation
}

func New(alloc *lts.IDAllocator) *Interpreter {
	return &Interpreter{
		alloc:      alloc,
		defs:       make(map[string]*lts.LTS),
		inProgress: make(map[string]bool),
	}
}

// Run walks every model in file in order, left to right.
func (ip *Interpreter) Run(file ast.File) (Result, error) {
	for _, model := range file.Models {
		built := make(map[string]string) // name -> name, just a set of this model's defs
		for _, def := range model.Definitions {
			if _, exists := ip.defs[def.Name]; exists {
				return Result{}, compileerr.NewInterpreterError(def.Span, def.Name, "definition %q is already declared", def.Name)
			}

			ip.inProgress[def.Name] = true
			g, err := ip.build(def.Body)
			delete(ip.inProgress, def.Name)
			if err != nil {
				return Result{}, err
			}

			ip.defs[def.Name] = g
			built[def.Name] = def.Name
			ip.ops = append(ip.ops, diag.Operation{
				Description: fmt.Sprintf("construct %q", def.Name),
				Location:    def.Span,
			})
		}

		if model.HasHide {
			for name := range built {
				hidden := ltsops.Hide(ip.defs[name], model.Hide)
				ip.defs[name] = hidden
				ip.ops = append(ip.ops, diag.Operation{
					Description: fmt.Sprintf("hide %v in %q", model.Hide, name),
					Location:    model.HideSpan,
				})
			}
		}
	}

	return Result{Automata: ip.defs, Operations: ip.ops}, nil
}

func (ip *Interpreter) build(p ast.Process) (*lts.LTS, error) {
	switch n := p.(type) {
	case *ast.Stop:
		return ip.buildStop(), nil

	case *ast.ErrorNode:
		return ip.buildError(), nil

	case *ast.Sequence:
		return ip.buildSequence(n)

	case *ast.Choice:
		return ip.buildChoice(n)

	case *ast.Parallel:
		return ip.buildParallel(n)

	case *ast.Name:
		return ip.buildName(n)

	default:
		return nil, compileerr.NewInterpreterError(p.Span(), "", "unrecognised process node")
	}
}

func (ip *Interpreter) buildStop() *lts.LTS {
	g := lts.New()
	id := ip.alloc.NextNodeID()
	g.AddNode(lts.Node{ID: id, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.SetRoot(id)
	return g
}

func (ip *Interpreter) buildError() *lts.LTS {
	g := lts.New()
	id := ip.alloc.NextNodeID()
	g.AddNode(lts.Node{ID: id, Metadata: lts.Metadata{Terminal: lts.TerminalError}})
	eid := ip.alloc.NextEdgeID()
	g.AddEdge(lts.Edge{ID: eid, From: id, To: id, Label: lts.DeltaLabel()})
	g.SetRoot(id)
	return g
}

func (ip *Interpreter) buildSequence(n *ast.Sequence) (*lts.LTS, error) {
	cont, err := ip.build(n.Continuation)
	if err != nil {
		return nil, err
	}

	contRoot, ok := cont.Root()
	if !ok {
		return nil, compileerr.NewInterpreterError(n.Span(), "", "continuation process produced no root")
	}

	g := lts.New()
	rootID := ip.alloc.NextNodeID()
	g.AddNode(lts.Node{ID: rootID})
	g.CombineWith(cont)

	label := lts.VisibleLabel(n.Action.Name, n.Action.Broadcast, n.Action.Listen)
	eid := ip.alloc.NextEdgeID()
	g.AddEdge(lts.Edge{ID: eid, From: rootID, To: contRoot, Label: label})
	g.SetRoot(rootID)

	return g, nil
}

func (ip *Interpreter) buildChoice(n *ast.Choice) (*lts.LTS, error) {
	left, err := ip.build(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ip.build(n.Right)
	if err != nil {
		return nil, err
	}

	leftRoot, ok := left.Root()
	if !ok {
		return nil, compileerr.NewInterpreterError(n.Span(), "", "left side of choice produced no root")
	}
	rightRoot, ok := right.Root()
	if !ok {
		return nil, compileerr.NewInterpreterError(n.Span(), "", "right side of choice produced no root")
	}

	merged := left
	merged.CombineWith(right)
	if leftRoot != rightRoot {
		if err := merged.MergeNodes([]int{leftRoot, rightRoot}); err != nil {
			return nil, compileerr.NewInterpreterError(n.Span(), "", "fuse choice roots: %s", err)
		}
	}
	merged.SetRoot(leftRoot)

	return merged, nil
}

func (ip *Interpreter) buildParallel(n *ast.Parallel) (*lts.LTS, error) {
	left, err := ip.build(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ip.build(n.Right)
	if err != nil {
		return nil, err
	}

	return ltsops.Parallel(left, right, ip.alloc), nil
}

func (ip *Interpreter) buildName(n *ast.Name) (*lts.LTS, error) {
	src, ok := ip.defs[n.Ident]
	if !ok {
		if ip.inProgress[n.Ident] {
			return nil, compileerr.NewInterpreterError(n.Span(), n.Ident,
				"%q is defined in terms of itself; productive recursion through a name reference is not supported", n.Ident)
		}
		return nil, compileerr.NewInterpreterError(n.Span(), n.Ident, "undefined reference to %q", n.Ident)
	}

	return src.CloneFreshIDs(ip.alloc), nil
}
