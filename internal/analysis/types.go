package analysis

import "github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"

// HistogramBins is the number of equal-width score bins in a Summary.
const HistogramBins = 20

// ClassField is the passthrough column used for class filtering.
const ClassField = "class_applied_for"

// Field is one passthrough column of a record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one factor vector plus the columns the engine does not read.
type Record struct {
	Factors scoring.FactorVector `json:"factors"`
	Meta    []Field              `json:"meta,omitempty"`
}

// MetaValue returns the named passthrough column.
func (r Record) MetaValue(name string) (string, bool) {
	for _, f := range r.Meta {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// ScoredRecord pairs a record with its score and tier from a single pass.
type ScoredRecord struct {
	Record
	Score    float64          `json:"lead_score"`
	Category scoring.Category `json:"category"`
}

// Bin is one histogram bucket covering [Lower, Upper).
// The last bin is closed on both ends.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Summary is derived from a record set and never persisted.
// Nil pointers mean "no data".
type Summary struct {
	Count             int                         `json:"count"`
	CategoryCounts    map[scoring.Category]int    `json:"category_counts"`
	MeanScore         *float64                    `json:"mean_score"`
	MedianScore       *float64                    `json:"median_score"`
	MinScore          *float64                    `json:"min_score"`
	MaxScore          *float64                    `json:"max_score"`
	FactorCorrelation map[scoring.Factor]*float64 `json:"factor_correlation"`
	Histogram         []Bin                       `json:"histogram"`
}

// Result is the output of Aggregate.
type Result struct {
	Records []ScoredRecord `json:"records"`
	Summary Summary        `json:"summary"`
}
