package validation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestRuleRequiresIntervalForCustomKinds(t *testing.T) {
	v := New()

	_, err := v.Rule(RuleInput{Type: "custom_days"})
	assert.Equal(t, []string{"interval"}, fieldsOf(t, err))

	_, err = v.Rule(RuleInput{Type: "custom_weeks", Weekdays: []string{"Mon"}})
	assert.Equal(t, []string{"interval"}, fieldsOf(t, err))
}

func TestRuleRejectsHugeInterval(t *testing.T) {
	v := New()

	for _, interval := range []int{math.MaxInt64, 1 << 61, model.MaxInterval + 1} {
		_, err := v.Rule(RuleInput{Type: "custom_days", Interval: interval})
		assert.Equal(t, []string{"interval"}, fieldsOf(t, err), "interval %d", interval)

		_, err = v.Rule(RuleInput{Type: "custom_weeks", Interval: interval, Weekdays: []string{"Mon", "Wed"}})
		assert.Equal(t, []string{"interval"}, fieldsOf(t, err), "interval %d", interval)
	}

	_, err := v.Rule(RuleInput{Type: "custom_weeks", Interval: model.MaxInterval, Weekdays: []string{"Mon"}})
	assert.NoError(t, err)
}

func TestRuleRequiresWeekdaysForCustomWeeks(t *testing.T) {
	v := New()

	_, err := v.Rule(RuleInput{Type: "custom_weeks", Interval: 1})
	assert.Contains(t, fieldsOf(t, err), "weekdays")

	_, err = v.Rule(RuleInput{Type: "custom_weeks", Interval: 1, Weekdays: []string{}})
	assert.Contains(t, fieldsOf(t, err), "weekdays")

	_, err = v.Rule(RuleInput{Type: "custom_weeks", Interval: 1, Weekdays: []string{"Mon", "Mon"}})
	assert.Contains(t, fieldsOf(t, err), "weekdays")

	_, err = v.Rule(RuleInput{Type: "custom_weeks", Interval: 1, Weekdays: []string{"Monday"}})
	assert.NotEmpty(t, fieldsOf(t, err))
}

func TestRuleRejectsUnknownType(t *testing.T) {
	_, err := New().Rule(RuleInput{Type: "monthly"})
	assert.Equal(t, []string{"type"}, fieldsOf(t, err))
}

func TestRuleBuildsValidRules(t *testing.T) {
	v := New()
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	rule, err := v.Rule(RuleInput{Type: "custom_weeks", Interval: 2, Weekdays: []string{"Fri", "Mon"}, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, model.RecurrenceCustomWeeks, rule.Kind())
	assert.Equal(t, "Mon,Fri", rule.Weekdays().String())
	got, ok := rule.EndDate()
	assert.True(t, ok)
	assert.Equal(t, end, got)

	rule, err = v.Rule(RuleInput{Type: "daily", OccurrenceCount: 4})
	require.NoError(t, err)
	count, ok := rule.Count()
	assert.True(t, ok)
	assert.Equal(t, 4, count)
	assert.Equal(t, 1, rule.Stride())

	rule, err = v.Rule(RuleInput{Type: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, 7, rule.Stride())
}

func TestRuleErrorMessage(t *testing.T) {
	_, err := New().Rule(RuleInput{Type: "custom_days", OccurrenceCount: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.ElementsMatch(t, []string{"interval", "occurrence_count"}, fieldsOf(t, err))
}
