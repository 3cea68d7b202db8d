// Package diagram flattens a roadmap into a node/edge description and
// renders it as Mermaid flowchart text or SVG.
package diagram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/studymap/internal/roadmap"
)

// Node is one box in the diagram. Parent is empty for roots.
type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Parent string `json:"parent,omitempty"`
	Depth  int    `json:"depth"`
	Leaf   bool   `json:"leaf"`
}

// Edge points from a parent node to a child node.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diagram is the result of one traversal. IDs are only unique within it.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build walks the tree depth-first in sibling order. Every category and leaf
// gets a node; branches get none of their own, so a nested tree's top-level
// categories hang directly off the enclosing category.
func Build(t roadmap.Tree) Diagram {
	b := &builder{}
	b.walk(t, "", 0)
	return Diagram{Nodes: b.nodes, Edges: b.edges}
}

type builder struct {
	next  int
	nodes []Node
	edges []Edge
}

func (b *builder) add(label, parent string, depth int, leaf bool) string {
	id := "node" + strconv.Itoa(b.next)
	b.next++
	b.nodes = append(b.nodes, Node{ID: id, Label: label, Parent: parent, Depth: depth, Leaf: leaf})
	if parent != "" {
		b.edges = append(b.edges, Edge{From: parent, To: id})
	}
	return id
}

func (b *builder) walk(t roadmap.Tree, parent string, depth int) {
	for _, c := range t {
		id := b.add(c.Label, parent, depth, false)
		for _, e := range c.Entries {
			switch e := e.(type) {
			case roadmap.Leaf:
				b.add(e.Topic, id, depth+1, true)
			case roadmap.Branch:
				b.walk(e.Tree, id, depth+1)
			}
		}
	}
}

// Roots returns the nodes without a parent, in traversal order.
func (d Diagram) Roots() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Parent == "" {
			out = append(out, n)
		}
	}
	return out
}

// Mermaid renders the diagram as flowchart text. Each node line is followed
// by its incoming edge line. dir defaults to LR.
func Mermaid(d Diagram, dir string) string {
	switch dir {
	case "TD", "TB", "BT", "RL", "LR":
	default:
		dir = "LR"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "graph %s;\n", dir)
	for _, n := range d.Nodes {
		fmt.Fprintf(&b, "    %s[%s];\n", n.ID, Quote(n.Label))
		if n.Parent != "" {
			fmt.Fprintf(&b, "    %s --> %s;\n", n.Parent, n.ID)
		}
	}
	return b.String()
}
