package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// RuleColumns правило повторения в виде nullable колонок таблицы activities
type RuleColumns struct {
	Type     *string
	Interval *int
	Weekdays *string
	EndDate  *time.Time
	Count    *int
}

// ColumnsOf раскладывает правило по колонкам; nil правило - все колонки NULL
func ColumnsOf(rule *model.RecurrenceRule) RuleColumns {
	if rule == nil {
		return RuleColumns{}
	}

	kind := string(rule.Kind())
	cols := RuleColumns{Type: &kind}

	if interval := rule.Interval(); interval > 0 {
		cols.Interval = &interval
	}
	if !rule.Weekdays().IsEmpty() {
		weekdays := rule.Weekdays().String()
		cols.Weekdays = &weekdays
	}
	if end, ok := rule.EndDate(); ok {
		cols.EndDate = &end
	}
	if count, ok := rule.Count(); ok {
		cols.Count = &count
	}

	return cols
}

// Rule собирает правило из колонок; NULL тип - правила нет
func (c RuleColumns) Rule() (*model.RecurrenceRule, error) {
	if c.Type == nil {
		return nil, nil
	}

	var interval, count int
	if c.Interval != nil {
		interval = *c.Interval
	}
	if c.Count != nil {
		count = *c.Count
	}

	var weekdays model.WeekdaySet
	if c.Weekdays != nil && *c.Weekdays != "" {
		set, err := model.ParseWeekdaySet(strings.Split(*c.Weekdays, ","))
		if err != nil {
			return nil, fmt.Errorf("parse weekdays: %w", err)
		}
		weekdays = set
	}

	var end *time.Time
	if c.EndDate != nil {
		d := time.Date(c.EndDate.Year(), c.EndDate.Month(), c.EndDate.Day(), 0, 0, 0, 0, time.UTC)
		end = &d
	}

	rule, err := model.RestoreRule(model.RecurrenceKind(*c.Type), interval, weekdays, model.Termination{EndDate: end, Count: count})
	if err != nil {
		return nil, fmt.Errorf("restore recurrence rule: %w", err)
	}
	return rule, nil
}
