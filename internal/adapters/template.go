package adapters

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

// TemplateRows is how many records WriteTemplate includes.
const TemplateRows = 10

// WriteTemplate writes the factor columns of the first TemplateRows records,
// ready to be filled in and re-uploaded for bulk scoring.
func WriteTemplate(w io.Writer, records []analysis.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoring.Columns()); err != nil {
		return err
	}
	for i, r := range records {
		if i == TemplateRows {
			break
		}
		values := r.Factors.Values()
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExampleRecords returns three hand-filled rows that document the upload format.
func ExampleRecords() []analysis.Record {
	example := func(name string, v ...float64) analysis.Record {
		var fv scoring.FactorVector
		for i, f := range scoring.Factors {
			_ = fv.Set(f, v[i])
		}
		return analysis.Record{Factors: fv, Meta: []analysis.Field{{Name: "student_name", Value: name}}}
	}
	return []analysis.Record{
		example("Aarav Sharma", 85, 70, 100, 80, 75, 90, 0, 0),
		example("Priya Gupta", 60, 80, 0, 70, 80, 75, 100, 100),
		example("Rohan Singh", 70, 65, 50, 75, 70, 85, 25, 50),
	}
}

// WriteExamples writes ExampleRecords as an unscored CSV.
func WriteExamples(w io.Writer) error {
	records := ExampleRecords()
	header := HeaderFor(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := exportRow(header, analysis.ScoredRecord{Record: r})
		if err := cw.Write(row[:len(header)]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
