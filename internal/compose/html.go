package compose

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderHTML converts markdown notes to an HTML fragment.
func RenderHTML(notes string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(notes), &buf); err != nil {
		return "", fmt.Errorf("render notes html: %w", err)
	}
	return buf.String(), nil
}
