package report

import (
	"encoding/csv"
	"io"
	"os"
)

type CSVWriter struct {
	writer *csv.Writer
	closer io.Closer
}

var _ Writer = &CSVWriter{}

// NewCSV writes rows to w, starting with the header row.
func NewCSV(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{
		writer: csv.NewWriter(w),
	}

	if err := cw.writer.Write(columns); err != nil {
		return nil, err
	}

	return cw, nil
}

func NewCSVFile(path string) (*CSVWriter, error) {
	f, err := os.Create(path)

	if err != nil {
		return nil, err
	}

	cw, err := NewCSV(f)

	if err != nil {
		f.Close()
		return nil, err
	}

	cw.closer = f

	return cw, nil
}

func (w *CSVWriter) Write(row Row) error {
	return w.writer.Write(row.record())
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()

	if err := w.writer.Error(); err != nil {
		return err
	}

	if w.closer != nil {
		return w.closer.Close()
	}

	return nil
}
