// Package recurrence разворачивает правило повторения в конкретные вхождения.
package recurrence

import (
	"math"
	"time"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// EffectiveHorizon последняя дата, до которой можно генерировать вхождения:
// min(дата окончания правила, граница окна поездки)
func EffectiveHorizon(rule *model.RecurrenceRule, horizonBound time.Time) time.Time {
	horizon := model.DateOf(horizonBound)
	if end, ok := rule.EndDate(); ok {
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, horizon.Location())
		if end.Before(horizon) {
			horizon = end
		}
	}
	return horizon
}

// DefaultCount количество вхождений, если явное количество не задано.
// horizonDays - число дней от даты якоря до горизонта.
func DefaultCount(rule *model.RecurrenceRule, horizonDays int) int {
	if rule.UsesWeekdays() {
		weeks := float64(horizonDays+1) / 7
		return int(math.Ceil(weeks * float64(rule.Weekdays().Len())))
	}
	return (horizonDays + 1) / rule.Stride()
}

// Generate разворачивает правило от якорного вхождения до горизонта.
// Якорь в результат не входит; вхождения упорядочены по возрастанию даты.
// Повторный вызов с теми же данными даёт новые ID, дедупликация - на стороне вызывающего.
func Generate(anchor model.Occurrence, rule *model.RecurrenceRule, horizonBound time.Time) []model.Occurrence {
	loc := anchor.Start.Location()
	anchorDate := model.DateOf(anchor.Start)

	h := EffectiveHorizon(rule, horizonBound)
	horizon := time.Date(h.Year(), h.Month(), h.Day(), 0, 0, 0, 0, loc)

	if anchorDate.After(horizon) {
		return nil
	}

	remaining, ok := rule.Count()
	if !ok {
		remaining = DefaultCount(rule, daysBetween(anchorDate, horizon))
	}

	if rule.UsesWeekdays() {
		return walkWeekdays(anchor, rule, horizon, remaining)
	}
	return walkStride(anchor, rule.Stride(), horizon, remaining)
}

// walkStride каждое следующее вхождение = предыдущая дата + stride дней
func walkStride(anchor model.Occurrence, stride int, horizon time.Time, remaining int) []model.Occurrence {
	var out []model.Occurrence

	date := model.DateOf(anchor.Start)
	for remaining > 0 {
		if daysBetween(date, horizon) < stride {
			break
		}
		date = date.AddDate(0, 0, stride)
		out = append(out, anchor.Replicate(date))
		remaining--
	}

	return out
}

// walkWeekdays обходит дни по одному; после каждого воскресенья
// пропускает (interval-1) недель, что даёт "каждую N-ю неделю".
func walkWeekdays(anchor model.Occurrence, rule *model.RecurrenceRule, horizon time.Time, remaining int) []model.Occurrence {
	var out []model.Occurrence

	weekdays := rule.Weekdays()
	skipDays := 7 * (rule.Interval() - 1)

	date := model.DateOf(anchor.Start)
	for remaining > 0 {
		if date.Weekday() == time.Sunday && skipDays > 0 {
			// после пропуска следующий день уже за горизонтом
			if daysBetween(date, horizon) <= skipDays {
				break
			}
			date = date.AddDate(0, 0, skipDays)
		}
		date = date.AddDate(0, 0, 1)
		if date.After(horizon) {
			break
		}
		if weekdays.Has(date.Weekday()) {
			out = append(out, anchor.Replicate(date))
			remaining--
		}
	}

	return out
}

// daysBetween число календарных дней между датами (без учёта перехода на летнее время)
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
