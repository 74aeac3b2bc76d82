package report

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
)

// A4 portrait layout in millimeters.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	sideMargin   = 15.0
	topMargin    = 15.0
	bottomMargin = 20.0
	contentWidth = pageWidth - 2*sideMargin
	breakY       = pageHeight - bottomMargin
)

// WriteError indicates the final document serialization failed. No partial
// output is handed to the caller.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write report: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// WritePDF renders the report as a paginated A4 PDF. The document is built
// in memory and copied to w only once it is complete, so a failed write
// never exposes a partial file.
func WritePDF(rep *Report, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(sideMargin, topMargin, sideMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth, 12, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(contentWidth, 8,
		"Generated on: "+rep.GeneratedAt.Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for i, sec := range rep.Sections {
		// One section per page keeps section boundaries aligned with page
		// breaks; blocks inside a section flow with their own fit checks.
		if i > 0 {
			pdf.AddPage()
		}
		writeSection(pdf, tr, sec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return &WriteError{Err: err}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, sec Section) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentWidth, 10, tr(sec.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, b := range sec.Blocks {
		switch b.Kind {
		case TextBlock:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(contentWidth, 5.5, tr(b.Text), "", "L", false)
			pdf.Ln(2)
		case TableBlock:
			writeTable(pdf, tr, b.Table)
		case ImageBlock:
			writeImage(pdf, tr, b.Image)
		}
	}
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, t *Table) {
	if t == nil || len(t.Header) == 0 {
		return
	}
	colW := contentWidth / float64(len(t.Header))
	const rowH = 6.0

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		for _, h := range t.Header {
			pdf.CellFormat(colW, rowH, tr(fit(pdf, h, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowH)
	}

	header()
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range t.Rows {
		// A table row is never split across pages: break before it instead.
		if pdf.GetY()+rowH > breakY {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 9)
		}
		for i := 0; i < len(t.Header); i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colW, rowH, tr(fit(pdf, cell, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowH)
	}
	pdf.Ln(3)
}

// fit truncates a cell to the column width, keeping a small padding.
func fit(pdf *fpdf.Fpdf, s string, colW float64) string {
	limit := colW - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func writeImage(pdf *fpdf.Fpdf, tr func(string) string, img *Image) {
	if img == nil || len(img.PNG) == 0 {
		return
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(img.PNG))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		// An unreadable chart is dropped, not fatal to the report.
		return
	}

	w := 160.0
	h := w * float64(cfg.Height) / float64(cfg.Width)
	if maxH := breakY - topMargin - 20; h > maxH {
		h = maxH
		w = h * float64(cfg.Width) / float64(cfg.Height)
	}
	// An image is never split across pages.
	if pdf.GetY()+h > breakY {
		pdf.AddPage()
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.PNG))
	x := (pageWidth - w) / 2
	pdf.ImageOptions(img.Name, x, pdf.GetY(), w, h, true, opts, 0, "")
	if img.Caption != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentWidth, 5, tr(img.Caption), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
}
