// Package outline builds the collapsible panel view of a roadmap.
package outline

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/studymap/internal/roadmap"
)

// DisplayLimit is the longest topic shown untruncated.
const DisplayLimit = 40

// Path locates a panel by entry indices from the root. Two categories with the
// same label never share a path.
type Path []int

// Key is the string form of the path, used for expansion state.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

// Item is either a Topic or a *Panel.
type Item interface {
	isItem()
}

// Topic is a selectable leaf. Full is always what gets selected.
type Topic struct {
	Full    string `json:"topic"`
	Display string `json:"display"`
}

// Panel is one expandable category.
type Panel struct {
	Path  Path   `json:"-"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Items []Item `json:"items"`
}

func (Topic) isItem()  {}
func (*Panel) isItem() {}

// Display truncates s to 37 runes plus "..." when it is longer than 40 runes.
func Display(s string) string {
	if utf8.RuneCountInString(s) <= DisplayLimit {
		return s
	}
	r := []rune(s)
	return string(r[:DisplayLimit-3]) + "..."
}

// Build mirrors the tree as panels in sibling order. A branch contributes its
// top-level categories as nested panels of the enclosing one.
func Build(t roadmap.Tree) []*Panel {
	return build(t, nil)
}

func build(t roadmap.Tree, prefix Path) []*Panel {
	panels := make([]*Panel, 0, len(t))
	for i, c := range t {
		path := append(append(Path(nil), prefix...), i)
		p := &Panel{Path: path, Key: path.Key(), Label: c.Label, Items: []Item{}}
		for j, e := range c.Entries {
			switch e := e.(type) {
			case roadmap.Leaf:
				p.Items = append(p.Items, Topic{Full: e.Topic, Display: Display(e.Topic)})
			case roadmap.Branch:
				for _, sub := range build(e.Tree, append(append(Path(nil), path...), j)) {
					p.Items = append(p.Items, sub)
				}
			}
		}
		panels = append(panels, p)
	}
	return panels
}

// Find returns the panel with the given key, or nil.
func Find(panels []*Panel, key string) *Panel {
	for _, p := range panels {
		if p.Key == key {
			return p
		}
		for _, it := range p.Items {
			if sub, ok := it.(*Panel); ok {
				if found := Find([]*Panel{sub}, key); found != nil {
					return found
				}
			}
		}
	}
	return nil
}
