// Package report writes per-query result rows to a tabular sink. Failed
// queries keep one sentinel row (rank -1, error text in place of a snippet)
// so every attempted query stays auditable.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SentinelRank marks a row recording a failed query instead of a hit.
const SentinelRank = -1

type Row struct {
	Domain       string
	Value        string
	DetectedType string
	Dork         string

	Rank           int
	Title          string
	URL            string
	SnippetOrError string
}

var columns = []string{"domain", "value", "detected_type", "dork", "rank", "title", "url", "snippet_or_error"}

type Writer interface {
	Write(row Row) error
	Close() error
}

// New opens a sink for path, picking the format from the extension:
// .xlsx gets a spreadsheet, everything else CSV.
func New(path string) (Writer, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSX(path)
	}

	return NewCSVFile(path)
}

func (r Row) record() []string {
	return []string{
		r.Domain,
		r.Value,
		r.DetectedType,
		r.Dork,
		fmt.Sprintf("%d", r.Rank),
		r.Title,
		r.URL,
		r.SnippetOrError,
	}
}
