package dataset

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

// DefaultSize is the number of students in a generated sample.
const DefaultSize = 150

// Provider supplies a demonstration record set for a seed.
type Provider interface {
	Generate(seed uint64) []analysis.Record
	Header() []string
}

// Generator synthesizes plausible applicants. Output depends only on Size,
// the seed and Now.
type Generator struct {
	Size int
	Now  func() time.Time
}

// NewGenerator returns a generator; size <= 0 means DefaultSize.
func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{Size: size, Now: time.Now}
}

// Header lists generated columns, passthrough and factor columns interleaved.
func (g *Generator) Header() []string {
	return []string{
		"student_name", "email", "phone",
		"location", string(scoring.FactorLocation),
		"how_you_know_us", string(scoring.FactorSourceKnown),
		"has_sibling_in_school", string(scoring.FactorSiblingInSchool),
		"previous_school_name", string(scoring.FactorPreviousSchoolQuality),
		analysis.ClassField, string(scoring.FactorClassAppliedFor),
		"last_class_percentage", string(scoring.FactorPriorAcademicPerformance),
		"communication_email_different", string(scoring.FactorEmailMismatch),
		"whatsapp_number_different", string(scoring.FactorWhatsappMismatch),
		"application_date",
	}
}

// Generate builds Size records from seed.
func (g *Generator) Generate(seed uint64) []analysis.Record {
	r := newRand(seed)
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	records := make([]analysis.Record, 0, g.Size)
	for i := 0; i < g.Size; i++ {
		records = append(records, student(r, now))
	}
	return records
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

func jitter(r *rand.Rand, base, lo, hi int) float64 {
	return scoring.Clamp(float64(base + between(r, lo, hi)))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func earlyYears(class string) bool {
	switch class {
	case "Nursery", "LKG", "UKG":
		return true
	}
	return false
}

func schoolTier(r *rand.Rand, school string) float64 {
	switch {
	case strings.Contains(school, "DPS"), strings.Contains(school, "St."), strings.Contains(school, "Modern"):
		return float64(between(r, 80, 95))
	case strings.Contains(school, "Ryan"), strings.Contains(school, "DAV"), strings.Contains(school, "Amity"):
		return float64(between(r, 70, 85))
	default:
		return float64(between(r, 50, 75))
	}
}

func percentageBand(pct int) float64 {
	switch {
	case pct >= 90:
		return 95
	case pct >= 80:
		return 80
	case pct >= 70:
		return 65
	default:
		return 40
	}
}

func student(r *rand.Rand, now time.Time) analysis.Record {
	first, last := pick(r, firstNames), pick(r, lastNames)

	loc := pick(r, locations)
	src := pick(r, sources)
	hasSibling := r.Float64() < 0.3
	school := pick(r, previousSchools)
	class := pick(r, classes)

	var fv scoring.FactorVector
	fv.Location = jitter(r, loc.score, -10, 10)
	fv.SourceKnown = jitter(r, src.score, -5, 15)
	if hasSibling {
		fv.SiblingInSchool = 100
	} else {
		fv.SiblingInSchool = float64(between(r, 0, 20))
	}
	fv.PreviousSchoolQuality = schoolTier(r, school)
	fv.ClassAppliedFor = jitter(r, class.score, -5, 10)

	lastPct := "N/A"
	if earlyYears(class.name) {
		fv.PriorAcademicPerformance = float64(between(r, 70, 100))
	} else {
		pct := between(r, 65, 98)
		fv.PriorAcademicPerformance = percentageBand(pct)
		lastPct = fmt.Sprintf("%d%%", pct)
	}

	emailDifferent := r.Float64() < 0.2
	if emailDifferent {
		fv.EmailMismatch = float64(between(r, 60, 100))
	}
	whatsappDifferent := r.Float64() < 0.25
	if whatsappDifferent {
		fv.WhatsappMismatch = float64(between(r, 50, 100))
	}

	domain := "gmail.com"
	if r.Float64() >= 0.7 {
		domain = pick(r, emailDomains)
	}
	email := fmt.Sprintf("%s.%s@%s", strings.ToLower(first), strings.ToLower(last), domain)
	phone := fmt.Sprintf("+91-%d", between(r, 7000000000, 9999999999))
	applied := now.AddDate(0, 0, -between(r, 1, 60)).Format(time.DateOnly)

	return analysis.Record{
		Factors: fv,
		Meta: []analysis.Field{
			{Name: "student_name", Value: first + " " + last},
			{Name: "email", Value: email},
			{Name: "phone", Value: phone},
			{Name: "location", Value: loc.name},
			{Name: "how_you_know_us", Value: src.name},
			{Name: "has_sibling_in_school", Value: yesNo(hasSibling)},
			{Name: "previous_school_name", Value: school},
			{Name: analysis.ClassField, Value: class.name},
			{Name: "last_class_percentage", Value: lastPct},
			{Name: "communication_email_different", Value: yesNo(emailDifferent)},
			{Name: "whatsapp_number_different", Value: yesNo(whatsappDifferent)},
			{Name: "application_date", Value: applied},
		},
	}
}
