package scoring

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoicesVector(t *testing.T) {
	c := Choices{
		Location:         "Close (2-5 km)",
		Source:           "Alumni Referral",
		Sibling:          "Yes - Currently studying",
		PreviousSchool:   "High Quality (Ryan, DAV, Amity)",
		Class:            "Class 9",
		Percentage:       "90% and above",
		EmailMismatch:    "No",
		WhatsappMismatch: "Yes",
	}

	fv, err := c.Vector()
	require.NoError(t, err)
	assert.Equal(t, FactorVector{
		Location:                 85,
		SourceKnown:              90,
		SiblingInSchool:          100,
		PreviousSchoolQuality:    75,
		ClassAppliedFor:          90,
		PriorAcademicPerformance: 95,
		EmailMismatch:            0,
		WhatsappMismatch:         60,
	}, fv)
}

func TestChoicesVectorUnknownOption(t *testing.T) {
	c := Choices{
		Location:         "On the moon",
		Source:           "Walk-in",
		Sibling:          "No",
		PreviousSchool:   "Below Average",
		Class:            "Nursery",
		Percentage:       "Below 60%",
		EmailMismatch:    "No",
		WhatsappMismatch: "No",
	}

	_, err := c.Vector()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "On the moon")
}

func TestOptionSetsCoverEveryFactor(t *testing.T) {
	sets := OptionSets()
	require.Len(t, sets, len(Factors))
	for i, set := range sets {
		assert.Equal(t, Factors[i], set.Factor)
		assert.NotEmpty(t, set.Options)
		for _, o := range set.Options {
			assert.GreaterOrEqual(t, o.Score, 0.0, o.Label)
			assert.LessOrEqual(t, o.Score, 100.0, o.Label)
		}
	}
}

func TestOptionSetFieldsMatchChoices(t *testing.T) {
	typ := reflect.TypeOf(Choices{})
	require.Equal(t, typ.NumField(), len(OptionSets()))
	for i, set := range OptionSets() {
		assert.Equal(t, typ.Field(i).Tag.Get("json"), set.Field)
	}
}
