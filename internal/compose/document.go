package compose

import (
	"fmt"
	"strings"
	"time"
)

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignJustify Align = "justify"
)

// Style names the role of a block.
type Style string

const (
	StyleTitle    Style = "title"
	StyleSubtitle Style = "subtitle"
	StyleHeading  Style = "heading"
	StyleBody     Style = "body"
)

// Colors used by the default layout, as RRGGBB.
const (
	ColorTitle   = "1f77b4"
	ColorHeading = "2ca02c"
	ColorBody    = "000000"
)

// Block is one page-flow instruction: a styled run of text followed by a
// vertical gap measured in lines of its own size.
type Block struct {
	Style     Style   `json:"style"`
	Text      string  `json:"text"`
	Size      float64 `json:"size"`
	Color     string  `json:"color"`
	Align     Align   `json:"align"`
	Gap       float64 `json:"gap"`
	Continued bool    `json:"continued"`
}

// Document is an ordered block flow. Page breaks are left to the renderer.
type Document struct {
	Title  string  `json:"title"`
	Topic  string  `json:"topic"`
	Blocks []Block `json:"blocks"`
}

// Options tune the generated header.
type Options struct {
	Exam       string // defaults to "JEE"
	DateLayout string // defaults to "January 2, 2006"
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Exam) == "" {
		o.Exam = "JEE"
	}
	if o.DateLayout == "" {
		o.DateLayout = "January 2, 2006"
	}
	return o
}

// Compose lays out notes for topic: a centered title and generation date, then
// one block per classified line, in input order.
func Compose(notes, topic string, now time.Time, opts Options) Document {
	opts = opts.withDefaults()
	title := fmt.Sprintf("%s Study Notes: %s", opts.Exam, topic)

	doc := Document{Title: title, Topic: topic}
	doc.Blocks = append(doc.Blocks,
		Block{Style: StyleTitle, Text: title, Size: 24, Color: ColorTitle, Align: AlignCenter, Gap: 0.5},
		Block{Style: StyleSubtitle, Text: "Generated on: " + now.Format(opts.DateLayout), Size: 12, Color: ColorBody, Align: AlignCenter, Gap: 1},
	)
	for _, l := range Classify(notes) {
		doc.Blocks = append(doc.Blocks, blockFor(l))
	}
	return doc
}

func blockFor(l Line) Block {
	if l.Kind == Heading {
		return Block{Style: StyleHeading, Text: l.Text, Size: 14, Color: ColorHeading, Align: AlignLeft, Gap: 0.3}
	}
	return Block{Style: StyleBody, Text: l.Text, Size: 11, Color: ColorBody, Align: AlignJustify, Gap: 0.2}
}

// Content returns the blocks after the title and date header.
func (d Document) Content() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Style == StyleHeading || b.Style == StyleBody {
			out = append(out, b)
		}
	}
	return out
}
