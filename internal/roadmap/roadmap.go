package roadmap

// Tree is an ordered curriculum: category labels, each with an ordered list
// of entries. Sibling order is significant and preserved by every encoder.
type Tree []Category

// Category is one labelled group of entries.
type Category struct {
	Label   string
	Entries []Entry
}

// Entry is either a Leaf or a Branch.
type Entry interface {
	isEntry()
}

// Leaf names a concrete sub-topic.
type Leaf struct {
	Topic string
}

// Branch is a nested subdivision.
type Branch struct {
	Tree Tree
}

func (Leaf) isEntry()   {}
func (Branch) isEntry() {}

// Node is what Walk reports for each category and leaf.
type Node struct {
	Path  []int // entry indices from the root; top-level categories have one element
	Depth int   // 1 for top-level categories
	Label string
	Leaf  bool
}

// Walk visits every category and leaf in pre-order. The Path slice is reused
// between calls; copy it to keep it.
func Walk(t Tree, fn func(Node)) {
	var walk func(Tree, []int, int)
	walk = func(t Tree, path []int, depth int) {
		for i, c := range t {
			p := append(path, i)
			fn(Node{Path: p, Depth: depth, Label: c.Label})
			for j, e := range c.Entries {
				switch e := e.(type) {
				case Leaf:
					fn(Node{Path: append(p, j), Depth: depth + 1, Label: e.Topic, Leaf: true})
				case Branch:
					walk(e.Tree, append(p, j), depth+1)
				}
			}
		}
	}
	walk(t, nil, 1)
}

// Leaves returns every leaf topic in pre-order.
func Leaves(t Tree) []string {
	var out []string
	Walk(t, func(n Node) {
		if n.Leaf {
			out = append(out, n.Label)
		}
	})
	return out
}

// Stats summarises the shape of a tree.
type Stats struct {
	Categories int `json:"categories"`
	Leaves     int `json:"leaves"`
	MaxDepth   int `json:"max_depth"`
}

// Measure counts categories and leaves and reports the deepest category level
// (top-level categories are depth 1).
func Measure(t Tree) Stats {
	var s Stats
	Walk(t, func(n Node) {
		if n.Leaf {
			s.Leaves++
			return
		}
		s.Categories++
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
	})
	return s
}
