// Package compose turns generated study notes into styled page-flow blocks
// and renders them as downloadable documents.
package compose

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind is the classification of one line of notes.
type Kind int

const (
	Body Kind = iota
	Heading
)

func (k Kind) String() string {
	if k == Heading {
		return "heading"
	}
	return "body"
}

// HeadingLimit is the rune count a heading must stay under.
const HeadingLimit = 60

var numberedRe = regexp.MustCompile(`^[0-9]+\.`)

// Line is one non-empty input line after cleaning.
type Line struct {
	Kind Kind
	Text string
}

// Clean strips "**" emphasis markers and surrounding whitespace.
func Clean(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
}

// ClassifyLine decides heading versus body for an already cleaned line: short
// lines ending with a colon or starting with "N." are headings.
func ClassifyLine(clean string) Kind {
	if utf8.RuneCountInString(clean) < HeadingLimit &&
		(strings.HasSuffix(clean, ":") || numberedRe.MatchString(clean)) {
		return Heading
	}
	return Body
}

// Classify splits notes on line breaks and classifies every line that is not
// blank. Lines are never merged.
func Classify(notes string) []Line {
	var out []Line
	for _, raw := range strings.Split(notes, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		// A line of only "**" still yields an empty body block.
		clean := Clean(raw)
		out = append(out, Line{Kind: ClassifyLine(clean), Text: clean})
	}
	return out
}
