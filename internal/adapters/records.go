package adapters

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

// Output columns appended to every exported table.
const (
	ScoreColumn    = "lead_score"
	CategoryColumn = "lead_category"
)

// ValidationResult reports which canonical factor columns a table lacks.
type ValidationResult struct {
	OK      bool     `json:"ok"`
	Missing []string `json:"missing"`
}

// ValidateColumns checks a header for every factor column. Matching is exact
// and case-sensitive; Missing keeps canonical order.
func ValidateColumns(columns []string) ValidationResult {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}

	missing := []string{}
	for _, f := range scoring.Factors {
		if _, ok := present[string(f)]; !ok {
			missing = append(missing, string(f))
		}
	}
	return ValidationResult{OK: len(missing) == 0, Missing: missing}
}

// Table is an ingested record set together with its original column order.
type Table struct {
	Header  []string
	Records []analysis.Record
}

// Format is a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", errors.NewValidationError(
			fmt.Sprintf("Unsupported file type %q: upload a .csv or .xlsx file", filepath.Ext(name)),
			"file", name,
		)
	}
}

// parseRows converts a header and string rows into records. Factor cells are
// clamped to [0, 100]; every other column is carried through as metadata.
func parseRows(header []string, rows [][]string) (Table, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	if v := ValidateColumns(header); !v.OK {
		return Table{}, errors.NewMissingColumnsError(v.Missing)
	}

	factorIdx := make(map[int]scoring.Factor, len(scoring.Factors))
	seen := make(map[scoring.Factor]bool, len(scoring.Factors))
	for i, h := range header {
		f := scoring.Factor(h)
		if isFactor(f) && !seen[f] {
			factorIdx[i] = f
			seen[f] = true
		}
	}

	records := make([]analysis.Record, 0, len(rows))
	for n, row := range rows {
		if blank(row) {
			continue
		}
		var rec analysis.Record
		for i, col := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			f, isFactor := factorIdx[i]
			if !isFactor {
				rec.Meta = append(rec.Meta, analysis.Field{Name: col, Value: cell})
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return Table{}, errors.NewValidationError(
					fmt.Sprintf("Row %d: column %s must be numeric, got %q", n+2, col, cell),
					"column", col,
				)
			}
			_ = rec.Factors.Set(f, scoring.Clamp(v))
		}
		records = append(records, rec)
	}

	return Table{Header: header, Records: records}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// exportRow renders one scored record in header order followed by score and label.
func exportRow(header []string, r analysis.ScoredRecord) []string {
	out := make([]string, 0, len(header)+2)
	meta := 0
	seen := make(map[scoring.Factor]bool, len(scoring.Factors))
	for _, col := range header {
		f := scoring.Factor(col)
		if isFactor(f) && !seen[f] {
			seen[f] = true
			out = append(out, strconv.FormatFloat(r.Factors.Get(f), 'f', -1, 64))
			continue
		}
		v := ""
		if meta < len(r.Meta) {
			v = r.Meta[meta].Value
		}
		meta++
		out = append(out, v)
	}
	return append(out, fmt.Sprintf("%.2f", r.Score), r.Category.Label())
}

func isFactor(f scoring.Factor) bool {
	for _, known := range scoring.Factors {
		if known == f {
			return true
		}
	}
	return false
}

// HeaderFor derives an export header for records that did not come from a
// file: passthrough columns of the first record, then the factor columns.
func HeaderFor(records []analysis.Record) []string {
	var header []string
	if len(records) > 0 {
		for _, m := range records[0].Meta {
			header = append(header, m.Name)
		}
	}
	return append(header, scoring.Columns()...)
}
