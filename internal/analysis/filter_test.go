package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

func classRecord(name, class string, score float64) ScoredRecord {
	return ScoredRecord{
		Record: Record{Meta: []Field{
			{Name: "student_name", Value: name},
			{Name: ClassField, Value: class},
		}},
		Score:    score,
		Category: scoring.Categorize(score),
	}
}

func names(rs []ScoredRecord) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		n, _ := r.MetaValue("student_name")
		out = append(out, n)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	records := []ScoredRecord{
		classRecord("a", "Class 9", 85),
		classRecord("b", "LKG", 62),
		classRecord("c", "Class 9", 40),
		classRecord("d", "Nursery", 80),
	}
	lo, hi := 60.0, 80.0

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{name: "zero filter matches all", filter: Filter{}, expected: []string{"a", "b", "c", "d"}},
		{name: "by category", filter: Filter{Categories: []scoring.Category{scoring.Hot}}, expected: []string{"a", "d"}},
		{name: "by class", filter: Filter{Classes: []string{"Class 9"}}, expected: []string{"a", "c"}},
		{name: "inclusive score range", filter: Filter{MinScore: &lo, MaxScore: &hi}, expected: []string{"b", "d"}},
		{
			name: "combined",
			filter: Filter{
				Categories: []scoring.Category{scoring.Hot, scoring.Cold},
				Classes:    []string{"Class 9"},
				MaxScore:   &hi,
			},
			expected: []string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(tt.filter.Apply(records)))
		})
	}
}

func TestTopProspects(t *testing.T) {
	records := []ScoredRecord{
		classRecord("a", "x", 50),
		classRecord("b", "x", 90),
		classRecord("c", "x", 70),
		classRecord("d", "x", 90),
	}

	assert.Equal(t, []string{"b", "d", "c"}, names(TopProspects(records, 3)))
	assert.Equal(t, []string{"b", "d", "c", "a"}, names(TopProspects(records, 10)))
	assert.Empty(t, TopProspects(records, 0))
	assert.Empty(t, TopProspects(nil, 10))
	assert.Equal(t, "a", names(records)[0], "input is not reordered")
}

func TestClasses(t *testing.T) {
	records := []ScoredRecord{
		classRecord("a", "UKG", 1),
		classRecord("b", "Class 9", 1),
		classRecord("c", "UKG", 1),
	}
	assert.Equal(t, []string{"UKG", "Class 9"}, Classes(records))
}
