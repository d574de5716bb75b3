package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

// SheetName is the worksheet holding exported records.
const SheetName = "Cases"

// Columns is the header row of the worksheet.
var Columns = []string{"Title", "Link", "Year", "Court", "Bluebook Citation", "APA Citation", "Detected Acts"}

// Excel renders one worksheet row per record.
type Excel struct{}

var _ ports.Exporter = Excel{}

// NewExcel returns the spreadsheet exporter.
func NewExcel() Excel { return Excel{} }

func (Excel) Format() string { return "xlsx" }
func (Excel) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (Excel) Extension() string { return ".xlsx" }

// Export writes the workbook to w. The title becomes the workbook title property.
func (Excel) Export(w io.Writer, title string, records []domain.CaseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
		return fmt.Errorf("set workbook title: %w", err)
	}

	if err := writeRow(f, 1, Columns); err != nil {
		return err
	}
	for i, rec := range records {
		row := []string{
			orDash(rec.Title),
			orDash(rec.Link),
			yearText(rec.Year),
			orDash(rec.Court),
			orDash(rec.Bluebook),
			orDash(rec.APA),
			rec.ActsLabel(),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
