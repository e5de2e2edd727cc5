package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	OrientationPortrait  = "P"
	OrientationLandscape = "L"
)

// Section is one titled table inside a document.
type Section struct {
	Title     string
	Data      Dataset
	EmptyText string
}

// Document describes a printable table report.
type Document struct {
	Title       string
	Subtitles   []string
	Orientation string
	Sections    []Section
	// PageNumbers adds "Page i of n" to the footer.
	PageNumbers bool
	FontSize    float64
}

// PDFExporter renders documents into grid-styled tabular PDFs.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// WithClock overrides the footer timestamp source.
func (e *PDFExporter) WithClock(now func() time.Time) *PDFExporter {
	if now != nil {
		e.now = now
	}
	return e
}

// Render lays out the document title block, each section and a footer on every page.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	orientation := doc.Orientation
	if orientation == "" {
		orientation = OrientationPortrait
	}
	fontSize := doc.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	generated := e.now().Format("2006-01-02 15:04:05")

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(0, 0, 0)
		footer := fmt.Sprintf("Generated on %s", generated)
		if doc.PageNumbers {
			footer = fmt.Sprintf("Page %d of {nb} | %s", pdf.PageNo(), footer)
		}
		pdf.CellFormat(0, 5, footer, "", 0, "L", false, 0, "")
	})
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(0, 9, doc.Title, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 12)
	for _, line := range doc.Subtitles {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	for _, section := range doc.Sections {
		if section.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")
		}
		if len(section.Data.Headers) == 0 || len(section.Data.Rows) == 0 {
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 6, section.EmptyText, "", 1, "L", false, 0, "")
			pdf.Ln(5)
			continue
		}
		renderTable(pdf, section.Data, usable, fontSize)
		pdf.Ln(8)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTable(pdf *gofpdf.Fpdf, data Dataset, width, fontSize float64) {
	colWidth := width / float64(len(data.Headers))
	rowHeight := fontSize * 0.7

	pdf.SetFont("Arial", "B", fontSize)
	pdf.SetFillColor(66, 66, 66)
	pdf.SetTextColor(255, 255, 255)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, rowHeight, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", fontSize)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range data.Rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(240, 240, 240)
		}
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, rowHeight, row[header], "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}
