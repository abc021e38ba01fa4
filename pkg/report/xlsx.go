package report

import (
	"github.com/xuri/excelize/v2"
)

type XLSXWriter struct {
	file  *excelize.File
	path  string
	sheet string
	row   int
}

var _ Writer = &XLSXWriter{}

// NewXLSX writes rows to a single-sheet spreadsheet saved on Close.
func NewXLSX(path string) (*XLSXWriter, error) {
	f := excelize.NewFile()

	w := &XLSXWriter{
		file:  f,
		path:  path,
		sheet: f.GetSheetName(0),
		row:   1,
	}

	header := make([]any, len(columns))

	for i, c := range columns {
		header[i] = c
	}

	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *XLSXWriter) Write(row Row) error {
	w.row++

	cell, err := excelize.CoordinatesToCellName(1, w.row)

	if err != nil {
		return err
	}

	values := []any{
		row.Domain,
		row.Value,
		row.DetectedType,
		row.Dork,
		row.Rank,
		row.Title,
		row.URL,
		row.SnippetOrError,
	}

	return w.file.SetSheetRow(w.sheet, cell, &values)
}

func (w *XLSXWriter) Close() error {
	defer w.file.Close()

	return w.file.SaveAs(w.path)
}
