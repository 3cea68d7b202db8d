package compose

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// PageMargin is the margin on every side, in points.
const PageMargin = 72

// lineFactor converts a font size to a line height.
const lineFactor = 1.2

// PDFRenderer lays blocks out on Letter pages with automatic page breaks.
type PDFRenderer struct{}

func (PDFRenderer) Format() string      { return "pdf" }
func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return "pdf" }

func (PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(true, PageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("studymap", true)
	pdf.AddPage()

	// Core fonts are cp1252; anything outside it becomes a substitute glyph.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range doc.Blocks {
		pdf.SetFont("Helvetica", "", b.Size)
		pdf.SetTextColor(hexRGB(b.Color))
		lineH := b.Size * lineFactor
		pdf.MultiCell(0, lineH, tr(b.Text), "", pdfAlign(b.Align), false)
		if b.Gap > 0 {
			pdf.Ln(b.Gap * lineH)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignJustify:
		return "J"
	default:
		return "L"
	}
}
