package scoring

import "fmt"

// Factor is one of the eight scoring inputs, named by its tabular column.
type Factor string

const (
	FactorLocation                 Factor = "location_score"
	FactorSourceKnown              Factor = "how_you_know_us_score"
	FactorSiblingInSchool          Factor = "sibling_in_school_score"
	FactorPreviousSchoolQuality    Factor = "previous_school_name_score"
	FactorClassAppliedFor          Factor = "class_applied_for_score"
	FactorPriorAcademicPerformance Factor = "last_class_percentage_score"
	FactorEmailMismatch            Factor = "communication_email_different_score"
	FactorWhatsappMismatch         Factor = "whatsapp_number_different_score"
)

const (
	factorCount    = 8
	minFactorValue = 0.0
	maxFactorValue = 100.0
)

// Factors lists the scoring inputs in canonical column order.
var Factors = [factorCount]Factor{
	FactorLocation,
	FactorSourceKnown,
	FactorSiblingInSchool,
	FactorPreviousSchoolQuality,
	FactorClassAppliedFor,
	FactorPriorAcademicPerformance,
	FactorEmailMismatch,
	FactorWhatsappMismatch,
}

// Columns returns the canonical factor column names.
func Columns() []string {
	cols := make([]string, 0, factorCount)
	for _, f := range Factors {
		cols = append(cols, string(f))
	}
	return cols
}

// FactorVector holds the eight normalized inputs, each expected in [0, 100].
type FactorVector struct {
	Location                 float64 `json:"location_score" form:"location_score" binding:"min=0,max=100"`
	SourceKnown              float64 `json:"how_you_know_us_score" form:"how_you_know_us_score" binding:"min=0,max=100"`
	SiblingInSchool          float64 `json:"sibling_in_school_score" form:"sibling_in_school_score" binding:"min=0,max=100"`
	PreviousSchoolQuality    float64 `json:"previous_school_name_score" form:"previous_school_name_score" binding:"min=0,max=100"`
	ClassAppliedFor          float64 `json:"class_applied_for_score" form:"class_applied_for_score" binding:"min=0,max=100"`
	PriorAcademicPerformance float64 `json:"last_class_percentage_score" form:"last_class_percentage_score" binding:"min=0,max=100"`
	EmailMismatch            float64 `json:"communication_email_different_score" form:"communication_email_different_score" binding:"min=0,max=100"`
	WhatsappMismatch         float64 `json:"whatsapp_number_different_score" form:"whatsapp_number_different_score" binding:"min=0,max=100"`
}

// Values returns the factors in canonical order.
func (f FactorVector) Values() [factorCount]float64 {
	return [factorCount]float64{
		f.Location,
		f.SourceKnown,
		f.SiblingInSchool,
		f.PreviousSchoolQuality,
		f.ClassAppliedFor,
		f.PriorAcademicPerformance,
		f.EmailMismatch,
		f.WhatsappMismatch,
	}
}

// Get returns the value of a single factor.
func (f FactorVector) Get(factor Factor) float64 {
	for i, name := range Factors {
		if name == factor {
			return f.Values()[i]
		}
	}
	return 0
}

// Set assigns a single factor by name.
func (f *FactorVector) Set(factor Factor, v float64) error {
	switch factor {
	case FactorLocation:
		f.Location = v
	case FactorSourceKnown:
		f.SourceKnown = v
	case FactorSiblingInSchool:
		f.SiblingInSchool = v
	case FactorPreviousSchoolQuality:
		f.PreviousSchoolQuality = v
	case FactorClassAppliedFor:
		f.ClassAppliedFor = v
	case FactorPriorAcademicPerformance:
		f.PriorAcademicPerformance = v
	case FactorEmailMismatch:
		f.EmailMismatch = v
	case FactorWhatsappMismatch:
		f.WhatsappMismatch = v
	default:
		return fmt.Errorf("unknown factor %q", factor)
	}
	return nil
}

// Clamped returns a copy with every factor limited to [0, 100].
func (f FactorVector) Clamped() FactorVector {
	var out FactorVector
	for i, v := range f.Values() {
		_ = out.Set(Factors[i], Clamp(v))
	}
	return out
}

// InRange reports whether every factor lies within [0, 100].
func (f FactorVector) InRange() bool {
	for _, v := range f.Values() {
		if v < minFactorValue || v > maxFactorValue {
			return false
		}
	}
	return true
}

// Clamp limits a factor value to [0, 100].
func Clamp(v float64) float64 {
	return clip(v, minFactorValue, maxFactorValue)
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
