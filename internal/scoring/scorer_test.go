package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(v float64) FactorVector {
	var fv FactorVector
	for _, f := range Factors {
		_ = fv.Set(f, v)
	}
	return fv
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 4.25, w.Sum(), 1e-9)
	assert.Equal(t, [8]float64{0.85, 0.70, 0.95, 0.55, 0.50, 0.25, 0.25, 0.20}, w.Values())
	require.NoError(t, w.Validate())

	w.EmailMismatch = 0
	assert.Error(t, w.Validate())
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		input    FactorVector
		expected float64
	}{
		{
			name:     "all zero",
			input:    uniform(0),
			expected: 0,
		},
		{
			name:     "all maximal",
			input:    uniform(100),
			expected: 100,
		},
		{
			name:     "uniform vector scores its own value",
			input:    uniform(42),
			expected: 42,
		},
		{
			name: "mixed profile",
			input: FactorVector{
				Location:                 85,
				SourceKnown:              70,
				SiblingInSchool:          100,
				PreviousSchoolQuality:    80,
				ClassAppliedFor:          75,
				PriorAcademicPerformance: 90,
			},
			expected: 320.25 / 4.25,
		},
		{
			name:     "sibling alone",
			input:    FactorVector{SiblingInSchool: 100},
			expected: 95 / 4.25,
		},
		{
			name:     "out of range extrapolates",
			input:    uniform(150),
			expected: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.input), 1e-9)
		})
	}
}

func TestScoreIsBoundedForValidInputs(t *testing.T) {
	steps := []float64{0, 13, 50, 87, 100}
	for _, a := range steps {
		for _, b := range steps {
			fv := FactorVector{
				Location: a, SourceKnown: b, SiblingInSchool: 100 - a, PreviousSchoolQuality: b,
				ClassAppliedFor: a, PriorAcademicPerformance: 100 - b, EmailMismatch: a, WhatsappMismatch: b,
			}
			s := Score(fv)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}

func TestScoreIsMonotonicPerFactor(t *testing.T) {
	base := uniform(50)
	for _, f := range Factors {
		t.Run(string(f), func(t *testing.T) {
			prev := math.Inf(-1)
			for v := 0.0; v <= 100; v += 10 {
				fv := base
				require.NoError(t, fv.Set(f, v))
				s := Score(fv)
				assert.Greater(t, s, prev)
				prev = s
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score    float64
		expected Category
	}{
		{score: 100, expected: Hot},
		{score: 80, expected: Hot},
		{score: math.Nextafter(80, 0), expected: Warm},
		{score: 79.999, expected: Warm},
		{score: 60, expected: Warm},
		{score: math.Nextafter(60, 0), expected: Cold},
		{score: 59.999, expected: Cold},
		{score: 0, expected: Cold},
		{score: -20, expected: Cold},
		{score: 250, expected: Hot},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Categorize(tt.score), "score %v", tt.score)
	}
}

func TestEvaluate(t *testing.T) {
	fv := FactorVector{
		Location:                 85,
		SourceKnown:              70,
		SiblingInSchool:          100,
		PreviousSchoolQuality:    80,
		ClassAppliedFor:          75,
		PriorAcademicPerformance: 90,
	}

	res := Evaluate(fv)
	assert.Equal(t, 75.35, res.Score)
	assert.Equal(t, Warm, res.Category)
	assert.Equal(t, "Warm Lead", res.Label)
	assert.Equal(t, "#FFA500", res.Color)
	assert.Contains(t, res.Recommendation, "Good Prospect!")

	require.Len(t, res.Contributors, 8)
	assert.Equal(t, FactorSiblingInSchool, res.Contributors[0].Factor)
	total := 0.0
	for _, c := range res.Contributors {
		total += c.Contribution
	}
	assert.InDelta(t, Score(fv), total, 1e-9)
}

func TestCategoryPresentation(t *testing.T) {
	tests := []struct {
		category Category
		label    string
		color    string
		rank     int
	}{
		{Hot, "Hot Lead", "#FF4B4B", 2},
		{Warm, "Warm Lead", "#FFA500", 1},
		{Cold, "Cold Lead", "#4B8BFF", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.category.Label())
			assert.Equal(t, tt.color, tt.category.Color())
			assert.Equal(t, tt.rank, tt.category.Rank())
			assert.NotEmpty(t, tt.category.Recommendation())

			parsed, ok := ParseCategory(tt.label)
			assert.True(t, ok)
			assert.Equal(t, tt.category, parsed)
		})
	}

	assert.Equal(t, "#808080", Category("Lukewarm").Color())
	_, ok := ParseCategory("lukewarm")
	assert.False(t, ok)
}

func TestClamped(t *testing.T) {
	fv := FactorVector{Location: -5, SourceKnown: 120, SiblingInSchool: 50}
	assert.False(t, fv.InRange())

	c := fv.Clamped()
	assert.True(t, c.InRange())
	assert.Equal(t, 0.0, c.Location)
	assert.Equal(t, 100.0, c.SourceKnown)
	assert.Equal(t, 50.0, c.SiblingInSchool)
}

func TestSetUnknownFactor(t *testing.T) {
	var fv FactorVector
	assert.Error(t, fv.Set("shoe_size_score", 1))
	assert.Equal(t, 0.0, fv.Get("shoe_size_score"))
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"location_score",
		"how_you_know_us_score",
		"sibling_in_school_score",
		"previous_school_name_score",
		"class_applied_for_score",
		"last_class_percentage_score",
		"communication_email_different_score",
		"whatsapp_number_different_score",
	}, Columns())
}
