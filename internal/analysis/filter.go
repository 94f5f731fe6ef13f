package analysis

import (
	"slices"
	"sort"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

// Filter narrows a scored record set. Empty selections match everything.
type Filter struct {
	Categories []scoring.Category
	Classes    []string
	MinScore   *float64
	MaxScore   *float64
}

// Match reports whether r passes every configured condition.
// Score bounds are inclusive.
func (f Filter) Match(r ScoredRecord) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, r.Category) {
		return false
	}
	if len(f.Classes) > 0 {
		class, _ := r.MetaValue(ClassField)
		if !slices.Contains(f.Classes, class) {
			return false
		}
	}
	if f.MinScore != nil && r.Score < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && r.Score > *f.MaxScore {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []ScoredRecord) []ScoredRecord {
	out := make([]ScoredRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// TopProspects returns up to n records ordered by score descending; equal
// scores keep input order.
func TopProspects(records []ScoredRecord, n int) []ScoredRecord {
	if n <= 0 {
		return []ScoredRecord{}
	}
	sorted := append(make([]ScoredRecord, 0, len(records)), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Classes lists distinct class values in first-seen order.
func Classes(records []ScoredRecord) []string {
	var out []string
	for _, r := range records {
		if class, ok := r.MetaValue(ClassField); ok && !slices.Contains(out, class) {
			out = append(out, class)
		}
	}
	return out
}
