package narrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/types"
)

func rec(gender, school, location string) types.RawRecord {
	r := types.RawRecord{}
	if gender != "" {
		r["gender"] = gender
	}
	if school != "" {
		r["schoolCode"] = school
	}
	if location != "" {
		r["location"] = location
	}
	return r
}

func intPtr(v int) *int { return &v }

func TestSummarize(t *testing.T) {
	mixed := types.FetchResult{
		Data: []types.RawRecord{
			rec("Male", "S2", "Delhi"),
			rec("Female", "S1", "Noida"),
			rec("Female", "S1", "Delhi"),
			rec("", "S3", "Gurgaon"),
			rec("Male", "S4", ""),
		},
		Total: intPtr(120),
	}

	tests := []struct {
		name     string
		fetch    types.FetchResult
		query    string
		expected string
	}{
		{
			name:     "fetch error",
			fetch:    types.FetchResult{Error: "API request timed out"},
			query:    "how many female students?",
			expected: "Sorry, I couldn't fetch the data: API request timed out",
		},
		{
			name:     "no records",
			fetch:    types.FetchResult{},
			query:    "hello",
			expected: "Found 0 student records.",
		},
		{
			name:     "single distinct value adds no breakdown",
			fetch:    types.FetchResult{Data: []types.RawRecord{rec("Male", "S1", "Delhi"), rec("Male", "S1", "Delhi")}},
			query:    "overview",
			expected: "Found 2 student records.",
		},
		{
			name:  "breakdowns use total and stable top three",
			fetch: mixed,
			query: "overview",
			expected: "Found 120 student records.\n" +
				"Gender distribution: Male: 2, Female: 2, Unknown: 1\n" +
				"Top schools: S1: 2, S2: 1, S3: 1\n" +
				"Top locations: Delhi: 2, Noida: 1, Gurgaon: 1",
		},
		{
			name:  "female is matched before male",
			fetch: mixed,
			query: "How many FEMALE applicants?",
			expected: "Found 120 student records.\n" +
				"Gender distribution: Male: 2, Female: 2, Unknown: 1\n" +
				"Top schools: S1: 2, S2: 1, S3: 1\n" +
				"Top locations: Delhi: 2, Noida: 1, Gurgaon: 1\n\n" +
				"Specifically for female students: 2 records found.",
		},
		{
			name:  "gender absent from data counts zero",
			fetch: types.FetchResult{Data: []types.RawRecord{rec("M", "S1", "Delhi")}},
			query: "male students",
			expected: "Found 1 student records.\n\n" +
				"Specifically for male students: 0 records found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summarize(tt.fetch, tt.query))
		})
	}
}

func TestSummarizeTreatsNullAsUnknown(t *testing.T) {
	fetch := types.FetchResult{Data: []types.RawRecord{{"gender": nil}, {"gender": "Female"}}}
	out := Summarize(fetch, "")
	assert.Contains(t, out, "Gender distribution: Unknown: 1, Female: 1")
}
