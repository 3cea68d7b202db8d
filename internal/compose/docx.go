package compose

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fumiama/go-docx"
)

// DOCXRenderer writes one paragraph per block.
type DOCXRenderer struct{}

func (DOCXRenderer) Format() string { return "docx" }
func (DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXRenderer) Extension() string { return "docx" }

func (DOCXRenderer) Render(w io.Writer, doc Document) error {
	d := docx.New().WithDefaultTheme()
	for _, b := range doc.Blocks {
		para := d.AddParagraph().Justification(docxAlign(b.Align))
		run := para.AddText(b.Text).Size(halfPoints(b.Size)).Color(b.Color)
		if b.Style == StyleTitle || b.Style == StyleHeading {
			run.Bold()
		}
	}
	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// halfPoints formats a point size the way WordprocessingML expects it.
func halfPoints(pt float64) string {
	return strconv.Itoa(int(pt * 2))
}

func docxAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "both"
	default:
		return "left"
	}
}
