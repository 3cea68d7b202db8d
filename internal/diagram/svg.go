package diagram

import (
	"io"
	"unicode/utf8"

	svg "github.com/ajstarks/svgo"
)

// Layout constants for WriteSVG, in pixels.
const (
	colWidth  = 240
	rowHeight = 36
	boxWidth  = 210
	boxHeight = 26
	margin    = 20
	maxChars  = 30
)

// WriteSVG draws the diagram left to right: the column comes from node depth,
// the row from traversal order.
func WriteSVG(w io.Writer, d Diagram) error {
	maxDepth := 0
	for _, n := range d.Nodes {
		if n.Depth > maxDepth {
			maxDepth = n.Depth
		}
	}
	width := 2*margin + maxDepth*colWidth + boxWidth
	height := 2*margin + len(d.Nodes)*rowHeight
	if len(d.Nodes) == 0 {
		height = 2 * margin
	}

	type pos struct{ x, y int }
	at := make(map[string]pos, len(d.Nodes))
	for i, n := range d.Nodes {
		at[n.ID] = pos{x: margin + n.Depth*colWidth, y: margin + i*rowHeight}
	}

	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(width, height)
	canvas.Title("Roadmap")

	canvas.Gid("edges")
	for _, e := range d.Edges {
		from, to := at[e.From], at[e.To]
		canvas.Line(from.x+boxWidth, from.y+boxHeight/2, to.x, to.y+boxHeight/2,
			"stroke:#764ba2;stroke-width:1.5")
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range d.Nodes {
		p := at[n.ID]
		fill, text := "#667eea", "#ffffff"
		if n.Leaf {
			fill, text = "#f8f9ff", "#333333"
		}
		canvas.Roundrect(p.x, p.y, boxWidth, boxHeight, 6, 6,
			"fill:"+fill+";stroke:#5a67d8")
		canvas.Text(p.x+8, p.y+boxHeight/2+5, clip(n.Label),
			"font-family:sans-serif;font-size:12px;fill:"+text)
	}
	canvas.Gend()
	canvas.End()
	return cw.err
}

// clip shortens long labels so they fit inside a box.
func clip(s string) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-3]) + "..."
}

// errWriter remembers the first write error, since svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err == nil {
		_, e.err = e.w.Write(p)
	}
	return len(p), nil
}
