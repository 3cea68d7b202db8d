package outline

// Expansion records which panels are open. The zero value has every panel
// collapsed.
type Expansion struct {
	open map[string]bool
}

// Expanded reports whether the panel with key is open.
func (e *Expansion) Expanded(key string) bool {
	if e == nil {
		return false
	}
	return e.open[key]
}

// Toggle flips one panel and returns its new state. Siblings, ancestors and
// descendants keep theirs.
func (e *Expansion) Toggle(key string) bool {
	if e.open == nil {
		e.open = make(map[string]bool)
	}
	if e.open[key] {
		delete(e.open, key)
		return false
	}
	e.open[key] = true
	return true
}

// Collapse closes every panel.
func (e *Expansion) Collapse() {
	e.open = nil
}

// Len is the number of open panels.
func (e *Expansion) Len() int { return len(e.open) }

// Row is one visible line of a flattened outline. Exactly one of Panel and
// Topic is set.
type Row struct {
	Level int
	Panel *Panel
	Topic *Topic
}

// Rows flattens the panels into the lines a cursor UI shows: every panel
// header is visible when its parent is open, and an open panel shows its items.
func Rows(panels []*Panel, e *Expansion) []Row {
	var rows []Row
	var walk func([]Item, int)
	emit := func(p *Panel, level int) {
		rows = append(rows, Row{Level: level, Panel: p})
		if e.Expanded(p.Key) {
			walk(p.Items, level+1)
		}
	}
	walk = func(items []Item, level int) {
		for _, it := range items {
			switch it := it.(type) {
			case Topic:
				t := it
				rows = append(rows, Row{Level: level, Topic: &t})
			case *Panel:
				emit(it, level)
			}
		}
	}
	for _, p := range panels {
		emit(p, 0)
	}
	return rows
}
