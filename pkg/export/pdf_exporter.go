package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0
	pdfLineHeight = 4.5
	pdfRowLines   = 3
)

// PDFExporter renders a Dataset as a landscape grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out one row per dataset row. Cell text may contain newlines;
// up to three lines are printed per cell.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("pdf"); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	colWidth := pdfPageWidth / float64(len(data.Headers))
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(226, 232, 240)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	rowHeight := pdfLineHeight * pdfRowLines
	for _, row := range data.Rows {
		x, y := pdf.GetXY()
		for i := range data.Headers {
			var cell Cell
			if i < len(row) {
				cell = row[i]
			}
			fill := false
			if r, g, b, ok := parseHex(cell.Fill); ok {
				pdf.SetFillColor(r, g, b)
				fill = true
			}
			cellX := x + float64(i)*colWidth
			pdf.Rect(cellX, y, colWidth, rowHeight, rectStyle(fill))
			lines := strings.Split(cell.Text, "\n")
			if len(lines) > pdfRowLines {
				lines = lines[:pdfRowLines]
			}
			for j, line := range lines {
				pdf.SetXY(cellX, y+float64(j)*pdfLineHeight)
				pdf.CellFormat(colWidth, pdfLineHeight, line, "", 0, "C", false, 0, "")
			}
		}
		pdf.SetXY(x, y+rowHeight)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rectStyle(fill bool) string {
	if fill {
		return "FD"
	}
	return "D"
}
