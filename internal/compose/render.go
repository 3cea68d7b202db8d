package compose

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Renderer writes a Document in one output format.
type Renderer interface {
	Format() string
	ContentType() string
	Extension() string
	Render(w io.Writer, doc Document) error
}

// Formats lists the supported output formats.
var Formats = []string{"pdf", "docx"}

// ForFormat returns the renderer for a format name; empty means pdf.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return PDFRenderer{}, nil
	case "docx":
		return DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

func hexRGB(hex string) (r, g, b int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
