package adapters

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

const fullHeader = "student_name,location_score,how_you_know_us_score,sibling_in_school_score," +
	"previous_school_name_score,class_applied_for_score,last_class_percentage_score," +
	"communication_email_different_score,whatsapp_number_different_score"

func TestValidateColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		ok      bool
		missing []string
	}{
		{
			name:    "all present with extras",
			columns: append([]string{"student_name"}, scoring.Columns()...),
			ok:      true,
			missing: []string{},
		},
		{
			name:    "empty header lists every column",
			columns: nil,
			ok:      false,
			missing: scoring.Columns(),
		},
		{
			name:    "matching is case-sensitive",
			columns: append([]string{"Location_Score"}, scoring.Columns()[1:]...),
			ok:      false,
			missing: []string{"location_score"},
		},
		{
			name:    "missing columns keep canonical order",
			columns: []string{"whatsapp_number_different_score", "location_score", "class_applied_for_score"},
			ok:      false,
			missing: []string{
				"how_you_know_us_score",
				"sibling_in_school_score",
				"previous_school_name_score",
				"last_class_percentage_score",
				"communication_email_different_score",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateColumns(tt.columns)
			assert.Equal(t, tt.ok, got.OK)
			assert.Equal(t, tt.missing, got.Missing)
		})
	}
}

func TestReadCSV(t *testing.T) {
	in := fullHeader + "\n" +
		"Aarav Sharma,85,70,100,80,75,90,0,0\n" +
		"\n" +
		"Priya Gupta,120,80,-5,70,80,75,100,100\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	first := table.Records[0]
	assert.Equal(t, []analysis.Field{{Name: "student_name", Value: "Aarav Sharma"}}, first.Meta)
	assert.Equal(t, 85.0, first.Factors.Location)
	assert.Equal(t, 90.0, first.Factors.PriorAcademicPerformance)

	clamped := table.Records[1].Factors
	assert.Equal(t, 100.0, clamped.Location)
	assert.Equal(t, 0.0, clamped.SiblingInSchool)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("student_name,location_score\nA,1\n"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.CategoryValidation, appErr.Category)
	assert.Len(t, appErr.Fields, 7)
	assert.NotContains(t, appErr.Fields, "location_score")
}

func TestReadCSVRejectsNonNumericFactor(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(fullHeader + "\nA,85,70,lots,80,75,90,0,0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sibling_in_school_score")
	assert.Contains(t, err.Error(), "Row 2")
}

func TestReadCSVRejectsNonFiniteFactor(t *testing.T) {
	for _, cell := range []string{"NaN", "Inf", "-Inf", "+inf"} {
		_, err := ReadCSV(strings.NewReader(fullHeader + "\nA,85,70," + cell + ",80,75,90,0,0\n"))
		require.Error(t, err, cell)
		assert.Contains(t, err.Error(), "Row 2: column sibling_in_school_score must be numeric")
	}
}

func TestReadCSVStripsBOM(t *testing.T) {
	in := "\ufefflocation_score,how_you_know_us_score,sibling_in_school_score,previous_school_name_score," +
		"class_applied_for_score,last_class_percentage_score,communication_email_different_score," +
		"whatsapp_number_different_score\n1,2,3,4,5,6,7,8\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1.0, table.Records[0].Factors.Location)
}

func TestWriteCSVRoundTripsPassthroughColumns(t *testing.T) {
	in := "location_score,student_name,how_you_know_us_score,sibling_in_school_score," +
		"previous_school_name_score,class_applied_for_score,last_class_percentage_score," +
		"communication_email_different_score,whatsapp_number_different_score,notes\n" +
		"85,Aarav,70,100,80,75,90,0,0,\"likes, chess\"\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	result := analysis.Aggregate(table.Records)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table.Header, result.Records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ",notes,lead_score,lead_category"))
	assert.Equal(t, "85,Aarav,70,100,80,75,90,0,0,\"likes, chess\",75.35,Warm Lead", lines[1])
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("leads.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = DetectFormat("leads.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = DetectFormat("leads.pdf")
	assert.Error(t, err)
}

func TestXLSXRoundTrip(t *testing.T) {
	records := ExampleRecords()
	header := HeaderFor(records)
	result := analysis.Aggregate(records)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, header, result.Records))

	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := wb.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "lead_category", rows[0][len(rows[0])-1])
	assert.Equal(t, "Aarav Sharma", rows[1][0])

	table, err := ReadTable("scored.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, table.Records, 3)
	assert.Equal(t, records[1].Factors, table.Records[1].Factors)
}

func TestWriteTemplate(t *testing.T) {
	records := make([]analysis.Record, 15)
	for i := range records {
		records[i].Factors.Location = float64(i)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, TemplateRows+1)
	assert.Equal(t, strings.Join(scoring.Columns(), ","), lines[0])
	assert.Equal(t, "9,0,0,0,0,0,0,0", lines[TemplateRows])
}

func TestWriteExamples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExamples(&buf))

	table, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)
	name, _ := table.Records[2].MetaValue("student_name")
	assert.Equal(t, "Rohan Singh", name)
	assert.Equal(t, 50.0, table.Records[2].Factors.WhatsappMismatch)
}
