package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreRuleRejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name     string
		kind     RecurrenceKind
		interval int
		weekdays WeekdaySet
		term     Termination
	}{
		{"custom days without interval", RecurrenceCustomDays, 0, 0, Termination{}},
		{"custom weeks without interval", RecurrenceCustomWeeks, 0, NewWeekdaySet(time.Monday), Termination{}},
		{"custom weeks without weekdays", RecurrenceCustomWeeks, 1, 0, Termination{}},
		{"daily with weekdays", RecurrenceDaily, 0, NewWeekdaySet(time.Monday), Termination{}},
		{"negative interval", RecurrenceDaily, -1, 0, Termination{}},
		{"interval above limit", RecurrenceCustomDays, MaxInterval + 1, 0, Termination{}},
		{"max int interval", RecurrenceCustomDays, math.MaxInt64, 0, Termination{}},
		{"huge weekly interval", RecurrenceCustomWeeks, 1 << 61, NewWeekdaySet(time.Monday), Termination{}},
		{"negative count", RecurrenceWeekly, 0, 0, Termination{Count: -2}},
		{"unknown kind", RecurrenceKind("monthly"), 1, 0, Termination{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreRule(tt.kind, tt.interval, tt.weekdays, tt.term)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestRuleStride(t *testing.T) {
	daily, err := Daily(0, Termination{})
	require.NoError(t, err)
	assert.Equal(t, 1, daily.Stride())

	weekly, err := Weekly(0, Termination{})
	require.NoError(t, err)
	assert.Equal(t, 7, weekly.Stride())

	custom, err := CustomDays(3, Termination{})
	require.NoError(t, err)
	assert.Equal(t, 3, custom.Stride())
	assert.False(t, custom.UsesWeekdays())
}

func TestRuleTermination(t *testing.T) {
	end := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)
	rule, err := CustomWeeks(2, NewWeekdaySet(time.Monday, time.Friday), Termination{EndDate: &end, Count: 4})
	require.NoError(t, err)

	got, ok := rule.EndDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)

	count, ok := rule.Count()
	require.True(t, ok)
	assert.Equal(t, 4, count)
	assert.True(t, rule.UsesWeekdays())
}

func TestRuleJSON(t *testing.T) {
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	rule, err := CustomWeeks(1, NewWeekdaySet(time.Wednesday, time.Monday), Termination{EndDate: &end})
	require.NoError(t, err)

	data, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"custom_weeks","interval":1,"weekdays":["Mon","Wed"],"end_date":"2024-01-20"}`, string(data))

	var decoded RecurrenceRule
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rule.String(), decoded.String())

	err = json.Unmarshal([]byte(`{"type":"custom_days"}`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestWeekdaySet(t *testing.T) {
	set, err := ParseWeekdaySet([]string{"Fri", "mon", "Wed"})
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Has(time.Monday))
	assert.False(t, set.Has(time.Sunday))
	assert.Equal(t, "Mon,Wed,Fri", set.String())

	_, err = ParseWeekdaySet([]string{"Funday"})
	assert.Error(t, err)
}

func TestParseEditType(t *testing.T) {
	et, err := ParseEditType("following")
	require.NoError(t, err)
	assert.Equal(t, EditFollowing, et)

	_, err = ParseEditType("some")
	assert.ErrorIs(t, err, ErrInvalidEditType)
}
