package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

// PDF renders a plain A4 report with one numbered entry per record.
type PDF struct{}

var _ ports.Exporter = PDF{}

// NewPDF returns the PDF exporter.
func NewPDF() PDF { return PDF{} }

func (PDF) Format() string      { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Extension() string   { return ".pdf" }

// Export writes the report to w.
func (PDF) Export(w io.Writer, title string, records []domain.CaseRecord) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(title, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(orDash(title)), "", 1, "C", false, 0, "")
	doc.Ln(4)

	for i, rec := range records {
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(0, 0, 0)
		doc.MultiCell(0, 6, tr(headline(i, rec)), "", "L", false)

		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(0, 0, 200)
		doc.MultiCell(0, 5, tr(orDash(rec.Link)), "", "L", false)
		doc.Ln(2)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
