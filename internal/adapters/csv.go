package adapters

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
)

// ReadCSV ingests a CSV table with a header row.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Table{}, errors.NewValidationError(fmt.Sprintf("Could not parse CSV: %v", err))
	}
	if len(rows) == 0 {
		return Table{}, errors.NewValidationError("The uploaded file is empty")
	}
	return parseRows(rows[0], rows[1:])
}

// WriteCSV writes scored records in header order plus lead_score and lead_category.
func WriteCSV(w io.Writer, header []string, records []analysis.ScoredRecord) error {
	cw := csv.NewWriter(w)
	out := append(append([]string{}, header...), ScoreColumn, CategoryColumn)
	if err := cw.Write(out); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(exportRow(header, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable dispatches on the file name's extension.
func ReadTable(name string, r io.Reader) (Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return Table{}, err
	}
	if format == FormatXLSX {
		return ReadXLSX(r)
	}
	return ReadCSV(r)
}
