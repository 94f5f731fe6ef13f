package scoring

import (
	"math"
	"sort"
	"strings"
)

// Category is a lead tier ordered Hot > Warm > Cold.
type Category string

const (
	Hot  Category = "Hot"
	Warm Category = "Warm"
	Cold Category = "Cold"
)

const (
	hotThreshold  = 80.0
	warmThreshold = 60.0
)

// Categories lists the tiers from most to least desirable.
var Categories = []Category{Hot, Warm, Cold}

var categoryMeta = map[Category]struct {
	label          string
	color          string
	recommendation string
}{
	Hot: {
		label:          "Hot Lead",
		color:          "#FF4B4B",
		recommendation: "High Priority Lead! Contact immediately and schedule a school visit.",
	},
	Warm: {
		label:          "Warm Lead",
		color:          "#FFA500",
		recommendation: "Good Prospect! Follow up within 2-3 days with personalized communication.",
	},
	Cold: {
		label:          "Cold Lead",
		color:          "#4B8BFF",
		recommendation: "Nurture Lead! Add to newsletter and follow up periodically.",
	},
}

// Label is the display and export name, e.g. "Hot Lead".
func (c Category) Label() string {
	if m, ok := categoryMeta[c]; ok {
		return m.label
	}
	return string(c)
}

// Color is the hex colour used when rendering the tier.
func (c Category) Color() string {
	if m, ok := categoryMeta[c]; ok {
		return m.color
	}
	return "#808080"
}

// Recommendation is the follow-up advice for the tier.
func (c Category) Recommendation() string {
	return categoryMeta[c].recommendation
}

// Rank orders tiers by desirability; higher is better.
func (c Category) Rank() int {
	switch c {
	case Hot:
		return 2
	case Warm:
		return 1
	default:
		return 0
	}
}

// ParseCategory accepts either the tier name or its label, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, true
		}
	}
	return "", false
}

// Score returns the weighted mean of f under the canonical weights.
// Inputs are not clamped; values outside [0, 100] extrapolate linearly.
func Score(f FactorVector) float64 {
	return canonicalWeights.Score(f)
}

// Score returns the weighted mean of f under w.
func (w Weights) Score(f FactorVector) float64 {
	values := f.Values()
	weights := w.Values()
	sum := 0.0
	for i := range values {
		sum += values[i] * weights[i]
	}
	return sum / w.Sum()
}

// Categorize maps a score to its tier. Lower bounds are inclusive.
func Categorize(score float64) Category {
	switch {
	case score >= hotThreshold:
		return Hot
	case score >= warmThreshold:
		return Warm
	default:
		return Cold
	}
}

// Contributor is one factor's share of the final score.
type Contributor struct {
	Factor       Factor  `json:"factor"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Result is a scored factor vector ready for display.
type Result struct {
	Score          float64       `json:"lead_score"`
	Category       Category      `json:"category"`
	Label          string        `json:"lead_category"`
	Color          string        `json:"color"`
	Recommendation string        `json:"recommendation"`
	Contributors   []Contributor `json:"contributors"`
}

// Evaluate scores f, categorizes it and explains the contribution of each factor,
// largest first.
func Evaluate(f FactorVector) Result {
	score := Score(f)
	category := Categorize(score)

	total := canonicalWeights.Sum()
	values := f.Values()
	weights := canonicalWeights.Values()
	contribs := make([]Contributor, 0, factorCount)
	for i, name := range Factors {
		contribs = append(contribs, Contributor{
			Factor:       name,
			Value:        values[i],
			Weight:       weights[i],
			Contribution: values[i] * weights[i] / total,
		})
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].Contribution > contribs[j].Contribution
	})

	return Result{
		Score:          Round2(score),
		Category:       category,
		Label:          category.Label(),
		Color:          category.Color(),
		Recommendation: category.Recommendation(),
		Contributors:   contribs,
	}
}

// Round2 rounds to two decimal places for display and export.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
