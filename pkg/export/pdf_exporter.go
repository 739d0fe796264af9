package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 190.0
	pdfLineHeight = 5.0
)

// PDFExporter renders a Report into a tabular A4 PDF. Cells wrap long text.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document holding every table of the report.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if report.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, report.Title, "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, table := range report.Tables {
		widths := columnWidths(table)
		if table.Name != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, table.Name, "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range table.Headers {
			pdf.CellFormat(widths[i], 7, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range table.Rows {
			writeWrappedRow(pdf, widths, row)
		}
		pdf.Ln(6)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(table Table) []float64 {
	widths := make([]float64, len(table.Headers))
	if len(table.Weights) == 0 {
		for i := range widths {
			widths[i] = pdfPageWidth / float64(len(widths))
		}
		return widths
	}
	var total float64
	for _, w := range table.Weights {
		total += w
	}
	for i, w := range table.Weights {
		if total <= 0 {
			widths[i] = pdfPageWidth / float64(len(widths))
			continue
		}
		widths[i] = pdfPageWidth * w / total
	}
	return widths
}

// writeWrappedRow draws one row whose height fits the tallest wrapped cell.
func writeWrappedRow(pdf *gofpdf.Fpdf, widths []float64, row []string) {
	lines := 1
	for i, value := range row {
		if n := len(pdf.SplitLines([]byte(value), widths[i]-2)); n > lines {
			lines = n
		}
	}
	height := float64(lines) * pdfLineHeight

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+height > pageHeight-bottom {
		pdf.AddPage()
	}

	x, y := pdf.GetXY()
	for i, value := range row {
		pdf.Rect(x, y, widths[i], height, "D")
		pdf.SetXY(x+1, y)
		pdf.MultiCell(widths[i]-2, pdfLineHeight, value, "", "L", false)
		x += widths[i]
		pdf.SetXY(x, y)
	}
	pdf.SetXY(10, y+height)
}
