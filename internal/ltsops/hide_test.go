package ltsops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ltsc/internal/lts"
)

func TestHideRelabelsOnlyNamedActions(t *testing.T) {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1})
	g.AddNode(lts.Node{ID: 2})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.VisibleLabel("a", false, false)})
	g.AddEdge(lts.Edge{ID: 1, From: 0, To: 2, Label: lts.VisibleLabel("b", false, false)})
	g.SetRoot(0)

	hidden := Hide(g, []string{"a"})

	ea, _ := hidden.Edge(0)
	eb, _ := hidden.Edge(1)
	assert.True(t, ea.Label.IsTau())
	assert.False(t, eb.Label.IsTau())

	orig, _ := g.Edge(0)
	assert.False(t, orig.Label.IsTau(), "original graph must be unmodified")
}
