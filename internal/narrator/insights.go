package narrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/types"
)

const (
	unknownValue = "Unknown"
	topN         = 3
)

// Fields of a raw leads record that are tallied.
const (
	fieldGender   = "gender"
	fieldSchool   = "schoolCode"
	fieldClass    = "class"
	fieldLocation = "location"
	fieldYear     = "appliedYear"
)

// tally counts values in first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(v string) {
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) distinct() int {
	return len(t.order)
}

func (t *tally) get(v string) int {
	return t.counts[v]
}

// top returns the n most frequent values; ties keep first-seen order.
func (t *tally) top(n int) []string {
	keys := append([]string(nil), t.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func (t *tally) format(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, t.counts[k])
	}
	return strings.Join(parts, ", ")
}

// Summarize renders fetched records as plain-text statistics, adding a
// gender-specific line when the query mentions female or male students.
func Summarize(fetch types.FetchResult, query string) string {
	if fetch.Failed() {
		return fmt.Sprintf("Sorry, I couldn't fetch the data: %s", fetch.Error)
	}

	tallies := map[string]*tally{
		fieldGender:   newTally(),
		fieldSchool:   newTally(),
		fieldClass:    newTally(),
		fieldLocation: newTally(),
		fieldYear:     newTally(),
	}
	for _, rec := range fetch.Data {
		for field, t := range tallies {
			v, ok := rec.Text(field)
			if !ok {
				v = unknownValue
			}
			t.add(v)
		}
	}

	lines := []string{fmt.Sprintf("Found %d student records.", fetch.Count())}

	gender := tallies[fieldGender]
	if gender.distinct() > 1 {
		lines = append(lines, "Gender distribution: "+gender.format(gender.order))
	}
	if schools := tallies[fieldSchool]; schools.distinct() > 1 {
		lines = append(lines, "Top schools: "+schools.format(schools.top(topN)))
	}
	if locations := tallies[fieldLocation]; locations.distinct() > 1 {
		lines = append(lines, "Top locations: "+locations.format(locations.top(topN)))
	}

	out := strings.Join(lines, "\n")

	if g, ok := genderInQuery(query); ok {
		out += fmt.Sprintf("\n\nSpecifically for %s students: %d records found.", g, gender.get(titleCase(g)))
	}
	return out
}

// genderInQuery checks "female" first since "male" is a substring of it.
func genderInQuery(query string) (string, bool) {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "female"):
		return "female", true
	case strings.Contains(q, "male"):
		return "male", true
	default:
		return "", false
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
