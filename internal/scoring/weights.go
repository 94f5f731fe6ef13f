package scoring

import (
	"fmt"
	"math"
)

// Weights defines the relative importance of each factor. They need not sum to 1;
// the score divides by Sum.
type Weights struct {
	Location                 float64 `json:"location_score"`
	SourceKnown              float64 `json:"how_you_know_us_score"`
	SiblingInSchool          float64 `json:"sibling_in_school_score"`
	PreviousSchoolQuality    float64 `json:"previous_school_name_score"`
	ClassAppliedFor          float64 `json:"class_applied_for_score"`
	PriorAcademicPerformance float64 `json:"last_class_percentage_score"`
	EmailMismatch            float64 `json:"communication_email_different_score"`
	WhatsappMismatch         float64 `json:"whatsapp_number_different_score"`
}

var canonicalWeights = Weights{
	Location:                 0.85,
	SourceKnown:              0.70,
	SiblingInSchool:          0.95,
	PreviousSchoolQuality:    0.55,
	ClassAppliedFor:          0.50,
	PriorAcademicPerformance: 0.25,
	EmailMismatch:            0.25,
	WhatsappMismatch:         0.20,
}

// DefaultWeights returns the canonical weight set.
func DefaultWeights() Weights {
	return canonicalWeights
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	s := 0.0
	for _, v := range w.Values() {
		s += v
	}
	return s
}

// Values returns the weights in canonical factor order.
func (w Weights) Values() [factorCount]float64 {
	return [factorCount]float64{
		w.Location,
		w.SourceKnown,
		w.SiblingInSchool,
		w.PreviousSchoolQuality,
		w.ClassAppliedFor,
		w.PriorAcademicPerformance,
		w.EmailMismatch,
		w.WhatsappMismatch,
	}
}

// Validate checks that every weight is strictly positive and finite.
func (w Weights) Validate() error {
	for i, v := range w.Values() {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight for %s must be positive, got %v", Factors[i], v)
		}
	}
	return nil
}
