package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "empty", input: []float64{}, expected: 0},
		{name: "single element", input: []float64{5}, expected: 5},
		{name: "odd length", input: []float64{9, 1, 7, 3, 5}, expected: 5},
		{name: "even length", input: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "duplicates", input: []float64{2, 2, 3, 3, 4, 4}, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, median(tt.input))
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestMean(t *testing.T) {
	assert.True(t, math.IsNaN(mean(nil)))
	assert.InDelta(t, 2.5, mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name    string
		xs, ys  []float64
		want    float64
		defined bool
	}{
		{
			name: "perfect positive",
			xs:   []float64{1, 2, 3, 4},
			ys:   []float64{10, 20, 30, 40},
			want: 1, defined: true,
		},
		{
			name: "perfect negative",
			xs:   []float64{1, 2, 3, 4},
			ys:   []float64{8, 6, 4, 2},
			want: -1, defined: true,
		},
		{
			name: "uncorrelated",
			xs:   []float64{1, 2, 3, 4},
			ys:   []float64{1, 3, 3, 1},
			want: 0, defined: true,
		},
		{
			name: "constant x",
			xs:   []float64{0.1, 0.1, 0.1},
			ys:   []float64{1, 2, 3},
		},
		{
			name: "constant y",
			xs:   []float64{1, 2, 3},
			ys:   []float64{7, 7, 7},
		},
		{
			name: "single point",
			xs:   []float64{1},
			ys:   []float64{2},
		},
		{
			name: "empty",
		},
		{
			name: "length mismatch",
			xs:   []float64{1, 2},
			ys:   []float64{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := pearson(tt.xs, tt.ys)
			assert.Equal(t, tt.defined, ok)
			if tt.defined {
				assert.InDelta(t, tt.want, r, 1e-9)
			}
		})
	}
}

func TestHistogram(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, histogram(nil, 20))
	})

	t.Run("degenerate single bin", func(t *testing.T) {
		bins := histogram([]float64{42, 42, 42}, 20)
		require.Len(t, bins, 1)
		assert.Equal(t, Bin{Lower: 42, Upper: 42, Count: 3}, bins[0])
	})

	t.Run("equal width over observed range", func(t *testing.T) {
		xs := []float64{0, 5, 10, 50, 99, 100}
		bins := histogram(xs, 20)
		require.Len(t, bins, 20)
		assert.Equal(t, 0.0, bins[0].Lower)
		assert.Equal(t, 100.0, bins[19].Upper)

		total := 0
		for i, b := range bins {
			assert.InDelta(t, 5.0, b.Upper-b.Lower, 1e-9, "bin %d", i)
			total += b.Count
		}
		assert.Equal(t, len(xs), total)
		assert.Equal(t, 1, bins[0].Count)
		assert.Equal(t, 1, bins[1].Count)
		assert.Equal(t, 1, bins[2].Count)
		assert.Equal(t, 1, bins[10].Count)
		assert.Equal(t, 2, bins[19].Count, "max lands in the last bin")
	})
}
