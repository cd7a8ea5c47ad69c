package report

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

const sheetName = "Assessments"

var xlsxHeaders = []string{
	"Assessment ID",
	"Created",
	"Destination",
	"Origin",
	"Mode",
	"HS Code",
	"Value (CAD)",
	"Compliance Score",
	"CERS Required",
	"Value Provenance",
	"FX Note",
}

// RenderXLSX produces an XLSX workbook listing the given assessments, one
// row each, newest first as provided by the store.
func RenderXLSX(assessments []model.Assessment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, eris.Wrap(err, "report: create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, eris.Wrap(err, "report: delete default sheet")
	}

	write := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return eris.Wrap(err, "report: cell name")
		}
		return eris.Wrap(f.SetCellValue(sheetName, cell, v), "report: set cell")
	}

	for i, h := range xlsxHeaders {
		if err := write(i+1, 1, h); err != nil {
			return nil, err
		}
	}

	for i, a := range assessments {
		row := i + 2
		r := a.Result
		values := []any{
			a.ID,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Destination,
			r.Origin,
			string(r.Mode),
			r.HSCode,
			r.ValueCAD,
			r.ComplianceScore,
			r.CERSRequired,
			string(r.ValueSource.Provenance),
			r.ValueSource.FXNote,
		}
		for col, v := range values {
			if err := write(col+1, row, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, eris.Wrap(err, "report: write workbook")
	}
	return buf.Bytes(), nil
}
