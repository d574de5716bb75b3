package export

import (
	"fmt"
	"io"

	"github.com/gingfrederik/docx"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

// DOCX renders a Word document with a heading and one paragraph pair per record.
type DOCX struct{}

var _ ports.Exporter = DOCX{}

// NewDOCX returns the Word exporter.
func NewDOCX() DOCX { return DOCX{} }

func (DOCX) Format() string { return "docx" }
func (DOCX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCX) Extension() string { return ".docx" }

// Export writes the document to w.
func (DOCX) Export(w io.Writer, title string, records []domain.CaseRecord) error {
	f := docx.NewFile()

	f.AddParagraph().AddText(orDash(title)).Size(20)
	f.AddParagraph()

	for i, rec := range records {
		f.AddParagraph().AddText(headline(i, rec)).Size(12)
		f.AddParagraph().AddText(orDash(rec.Link)).Color("1F4E79").Size(10)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render docx: %w", err)
	}
	return nil
}
