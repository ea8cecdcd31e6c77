package lts

// TerminalKind is the value of the "isTerminal" metadata key.
type TerminalKind int

const (
	TerminalNone TerminalKind = iota
	TerminalStop
	TerminalError
)

func (t TerminalKind) String() string {
	switch t {
	case TerminalStop:
		return "stop"
	case TerminalError:
		return "error"
	default:
		return ""
	}
}

// Metadata is a fixed-key-set metadata bag, modelled as a struct of fields
// rather than an open map.
type Metadata struct {
	Start    bool
	Terminal TerminalKind
	Parallel bool
}

// Merge unions two metadata bags. On conflict, o's values win, the
// deterministic tie-break used for merge-nodes.
func (m Metadata) Merge(o Metadata) Metadata {
	out := m
	if o.Start {
		out.Start = true
	}
	if o.Terminal != TerminalNone {
		out.Terminal = o.Terminal
	}
	if o.Parallel {
		out.Parallel = true
	}
	return out
}

// Node is a single state of an LTS.
type Node struct {
	ID       int
	Label    string
	Metadata Metadata
}

// Copy returns a value copy of the node; Node holds no reference types, so
// this is only provided for symmetry with Edge.Copy and LTS.Clone.
func (n Node) Copy() Node {
	return n
}
