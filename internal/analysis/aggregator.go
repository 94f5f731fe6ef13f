package analysis

import (
	"slices"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

// Aggregate scores and categorizes every record in one pass, preserving input
// order, and summarizes the set. An empty input yields a zero count and nil
// statistics.
func Aggregate(records []Record) Result {
	scored := make([]ScoredRecord, 0, len(records))
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		s := scoring.Score(r.Factors)
		scored = append(scored, ScoredRecord{
			Record:   r,
			Score:    s,
			Category: scoring.Categorize(s),
		})
		scores = append(scores, s)
	}

	return Result{
		Records: scored,
		Summary: summarize(scored, scores),
	}
}

// Summarize recomputes the summary of already scored records, e.g. after
// filtering.
func Summarize(records []ScoredRecord) Summary {
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		scores = append(scores, r.Score)
	}
	return summarize(records, scores)
}

func summarize(records []ScoredRecord, scores []float64) Summary {
	sum := Summary{
		Count:             len(records),
		CategoryCounts:    make(map[scoring.Category]int, len(scoring.Categories)),
		FactorCorrelation: make(map[scoring.Factor]*float64, len(scoring.Factors)),
		Histogram:         histogram(scores, HistogramBins),
	}
	for _, c := range scoring.Categories {
		sum.CategoryCounts[c] = 0
	}
	for _, r := range records {
		sum.CategoryCounts[r.Category]++
	}

	if len(scores) > 0 {
		sum.MeanScore = ptr(mean(scores))
		sum.MedianScore = ptr(median(scores))
		sum.MinScore = ptr(slices.Min(scores))
		sum.MaxScore = ptr(slices.Max(scores))
	}

	columns := factorColumns(records)
	for i, f := range scoring.Factors {
		if r, ok := pearson(columns[i], scores); ok {
			sum.FactorCorrelation[f] = ptr(r)
		} else {
			sum.FactorCorrelation[f] = nil
		}
	}
	return sum
}

func factorColumns(records []ScoredRecord) [][]float64 {
	cols := make([][]float64, len(scoring.Factors))
	for i := range cols {
		cols[i] = make([]float64, 0, len(records))
	}
	for _, r := range records {
		for i, v := range r.Factors.Values() {
			cols[i] = append(cols[i], v)
		}
	}
	return cols
}
