package scoring

import "fmt"

// Option is a human-readable choice and the factor score it maps to.
type Option struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// OptionSet is an ordered list of choices for one factor.
type OptionSet struct {
	Factor  Factor   `json:"factor"`
	Field   string   `json:"field"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

func (s OptionSet) lookup(label string) (float64, error) {
	for _, o := range s.Options {
		if o.Label == label {
			return o.Score, nil
		}
	}
	return 0, fmt.Errorf("unknown option %q for %s", label, s.Factor)
}

var (
	LocationOptions = OptionSet{
		Factor: FactorLocation,
		Field:  "location",
		Title:  "Distance from School",
		Options: []Option{
			{"Very Close (< 2 km)", 95},
			{"Close (2-5 km)", 85},
			{"Moderate (5-10 km)", 70},
			{"Far (10-15 km)", 50},
			{"Very Far (> 15 km)", 30},
		},
	}
	SourceOptions = OptionSet{
		Factor: FactorSourceKnown,
		Field:  "how_you_know_us",
		Title:  "How did you know about us?",
		Options: []Option{
			{"Current Parent Referral", 95},
			{"Alumni Referral", 90},
			{"Teacher Referral", 88},
			{"Friend/Family Referral", 85},
			{"Educational Fair", 75},
			{"Social Media", 70},
			{"Google Search", 65},
			{"School Website", 60},
			{"Brochure/Pamphlet", 55},
			{"Newspaper Ad", 50},
			{"Hoarding/Banner", 45},
			{"Walk-in", 40},
		},
	}
	SiblingOptions = OptionSet{
		Factor: FactorSiblingInSchool,
		Field:  "sibling_in_school",
		Title:  "Sibling in School?",
		Options: []Option{
			{"Yes - Currently studying", 100},
			{"Yes - Alumni", 80},
			{"No", 0},
		},
	}
	PreviousSchoolOptions = OptionSet{
		Factor: FactorPreviousSchoolQuality,
		Field:  "previous_school",
		Title:  "Previous School Category",
		Options: []Option{
			{"Top Tier (DPS, Modern, St. Xavier's)", 90},
			{"High Quality (Ryan, DAV, Amity)", 75},
			{"Good (Local Reputed Schools)", 60},
			{"Average (Local Schools)", 45},
			{"Below Average", 30},
		},
	}
	ClassOptions = OptionSet{
		Factor: FactorClassAppliedFor,
		Field:  "class_applied_for",
		Title:  "Class Applied For",
		Options: []Option{
			{"Class 11 (Science/Commerce)", 95},
			{"Class 9", 90},
			{"Class 6", 85},
			{"Class 1", 85},
			{"UKG", 80},
			{"LKG", 75},
			{"Nursery", 70},
			{"Other Classes", 70},
		},
	}
	PercentageOptions = OptionSet{
		Factor: FactorPriorAcademicPerformance,
		Field:  "last_class_percentage",
		Title:  "Last Class Performance",
		Options: []Option{
			{"90% and above", 95},
			{"80-89%", 80},
			{"70-79%", 65},
			{"60-69%", 50},
			{"Below 60%", 30},
			{"Not Applicable (Early Classes)", 75},
		},
	}
	EmailMismatchOptions = OptionSet{
		Factor:  FactorEmailMismatch,
		Field:   "communication_email_different",
		Title:   "Communication email different from registration?",
		Options: []Option{{"No", 0}, {"Yes", 75}},
	}
	WhatsappMismatchOptions = OptionSet{
		Factor:  FactorWhatsappMismatch,
		Field:   "whatsapp_number_different",
		Title:   "WhatsApp number different from phone?",
		Options: []Option{{"No", 0}, {"Yes", 60}},
	}
)

// OptionSets returns every factor's choices in canonical factor order.
func OptionSets() []OptionSet {
	return []OptionSet{
		LocationOptions,
		SourceOptions,
		SiblingOptions,
		PreviousSchoolOptions,
		ClassOptions,
		PercentageOptions,
		EmailMismatchOptions,
		WhatsappMismatchOptions,
	}
}

// Choices selects one option label per factor.
type Choices struct {
	Location         string `json:"location" form:"location" binding:"required"`
	Source           string `json:"how_you_know_us" form:"how_you_know_us" binding:"required"`
	Sibling          string `json:"sibling_in_school" form:"sibling_in_school" binding:"required"`
	PreviousSchool   string `json:"previous_school" form:"previous_school" binding:"required"`
	Class            string `json:"class_applied_for" form:"class_applied_for" binding:"required"`
	Percentage       string `json:"last_class_percentage" form:"last_class_percentage" binding:"required"`
	EmailMismatch    string `json:"communication_email_different" form:"communication_email_different" binding:"required"`
	WhatsappMismatch string `json:"whatsapp_number_different" form:"whatsapp_number_different" binding:"required"`
}

// Vector resolves the chosen labels into a factor vector.
func (c Choices) Vector() (FactorVector, error) {
	labels := []string{
		c.Location, c.Source, c.Sibling, c.PreviousSchool,
		c.Class, c.Percentage, c.EmailMismatch, c.WhatsappMismatch,
	}
	var fv FactorVector
	for i, set := range OptionSets() {
		v, err := set.lookup(labels[i])
		if err != nil {
			return FactorVector{}, err
		}
		if err := fv.Set(set.Factor, v); err != nil {
			return FactorVector{}, err
		}
	}
	return fv, nil
}
