package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

func TestRuleColumnsNil(t *testing.T) {
	cols := ColumnsOf(nil)
	assert.Nil(t, cols.Type)

	rule, err := cols.Rule()
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestRuleColumnsCustomWeeks(t *testing.T) {
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rule, err := model.CustomWeeks(2, model.NewWeekdaySet(time.Tuesday, time.Sunday), model.Termination{EndDate: &end, Count: 5})
	require.NoError(t, err)

	cols := ColumnsOf(rule)
	require.NotNil(t, cols.Weekdays)
	assert.Equal(t, "Tue,Sun", *cols.Weekdays)

	restored, err := cols.Rule()
	require.NoError(t, err)
	assert.Equal(t, rule.String(), restored.String())
}

func TestRuleColumnsCorrupted(t *testing.T) {
	kind := "custom_days"
	_, err := RuleColumns{Type: &kind}.Rule()
	assert.ErrorIs(t, err, model.ErrInvalidRule)
}
