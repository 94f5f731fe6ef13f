package adapters

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

const resultsSheet = "Scored Leads"

// ReadXLSX ingests the first worksheet of a workbook.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, errors.NewValidationError(fmt.Sprintf("Could not open workbook: %v", err))
	}
	defer errors.SafeClose(f, "workbook")

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.NewValidationError("The workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, errors.NewValidationError(fmt.Sprintf("Could not read sheet %q: %v", sheets[0], err))
	}
	if len(rows) == 0 {
		return Table{}, errors.NewValidationError("The uploaded file is empty")
	}
	return parseRows(rows[0], rows[1:])
}

// WriteXLSX writes the same table as WriteCSV into a workbook, shading each
// category cell with its colour.
func WriteXLSX(w io.Writer, header []string, records []analysis.ScoredRecord) error {
	f := excelize.NewFile()
	defer errors.SafeClose(f, "workbook")

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return err
	}

	out := append(append([]string{}, header...), ScoreColumn, CategoryColumn)
	if err := setRow(f, 1, out); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(out), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", last, bold); err != nil {
		return err
	}

	fills := make(map[scoring.Category]int, len(scoring.Categories))
	for _, c := range scoring.Categories {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.Color()}},
		})
		if err != nil {
			return err
		}
		fills[c] = id
	}

	for i, r := range records {
		row := i + 2
		if err := setRow(f, row, exportRow(header, r)); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(len(out), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(resultsSheet, cell, cell, fills[r.Category]); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(resultsSheet, cell, &cells)
}
