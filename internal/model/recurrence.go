package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecurrenceKind вид правила повторения
type RecurrenceKind string

const (
	RecurrenceDaily       RecurrenceKind = "daily"
	RecurrenceWeekly      RecurrenceKind = "weekly"
	RecurrenceCustomDays  RecurrenceKind = "custom_days"  // каждые N дней
	RecurrenceCustomWeeks RecurrenceKind = "custom_weeks" // каждую N-ю неделю по выбранным дням
)

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

// MaxInterval наибольший допустимый интервал (дней или недель), около 10 лет
const MaxInterval = 3660

// Termination условие окончания серии. Дата и количество не обязаны согласовываться.
type Termination struct {
	EndDate *time.Time
	Count   int // 0 - не задано
}

// RecurrenceRule правило повторения активности.
// Создаётся только через конструкторы, которые отклоняют недопустимую форму.
type RecurrenceRule struct {
	kind     RecurrenceKind
	interval int
	weekdays WeekdaySet
	endDate  *time.Time
	count    int
}

// Daily ежедневное повторение; interval 0 означает каждый день
func Daily(interval int, term Termination) (*RecurrenceRule, error) {
	return RestoreRule(RecurrenceDaily, interval, 0, term)
}

// Weekly еженедельное повторение; interval 0 означает шаг в 7 дней
func Weekly(interval int, term Termination) (*RecurrenceRule, error) {
	return RestoreRule(RecurrenceWeekly, interval, 0, term)
}

// CustomDays повторение каждые interval дней
func CustomDays(interval int, term Termination) (*RecurrenceRule, error) {
	return RestoreRule(RecurrenceCustomDays, interval, 0, term)
}

// CustomWeeks повторение каждую interval-ю неделю по дням weekdays
func CustomWeeks(interval int, weekdays WeekdaySet, term Termination) (*RecurrenceRule, error) {
	return RestoreRule(RecurrenceCustomWeeks, interval, weekdays, term)
}

// RestoreRule собирает правило по виду, используется и при чтении из хранилища
func RestoreRule(kind RecurrenceKind, interval int, weekdays WeekdaySet, term Termination) (*RecurrenceRule, error) {
	if interval < 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidRule)
	}
	if interval > MaxInterval {
		return nil, fmt.Errorf("%w: interval must be at most %d", ErrInvalidRule, MaxInterval)
	}
	if term.Count < 0 {
		return nil, fmt.Errorf("%w: occurrence count must be positive", ErrInvalidRule)
	}

	switch kind {
	case RecurrenceDaily, RecurrenceWeekly:
		if !weekdays.IsEmpty() {
			return nil, fmt.Errorf("%w: weekdays are only allowed for %s", ErrInvalidRule, RecurrenceCustomWeeks)
		}
	case RecurrenceCustomDays:
		if interval == 0 {
			return nil, fmt.Errorf("%w: %s requires interval", ErrInvalidRule, kind)
		}
		if !weekdays.IsEmpty() {
			return nil, fmt.Errorf("%w: weekdays are only allowed for %s", ErrInvalidRule, RecurrenceCustomWeeks)
		}
	case RecurrenceCustomWeeks:
		if interval == 0 {
			return nil, fmt.Errorf("%w: %s requires interval", ErrInvalidRule, kind)
		}
		if weekdays.IsEmpty() {
			return nil, fmt.Errorf("%w: %s requires at least one weekday", ErrInvalidRule, kind)
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, kind)
	}

	rule := &RecurrenceRule{
		kind:     kind,
		interval: interval,
		weekdays: weekdays,
		count:    term.Count,
	}
	if term.EndDate != nil {
		end := DateOf(*term.EndDate)
		rule.endDate = &end
	}

	return rule, nil
}

func (r *RecurrenceRule) Kind() RecurrenceKind {
	return r.kind
}

// Interval интервал; 0 если не задан
func (r *RecurrenceRule) Interval() int {
	return r.interval
}

func (r *RecurrenceRule) Weekdays() WeekdaySet {
	return r.weekdays
}

// EndDate дата окончания серии, если задана
func (r *RecurrenceRule) EndDate() (time.Time, bool) {
	if r.endDate == nil {
		return time.Time{}, false
	}
	return *r.endDate, true
}

// Count явное количество генерируемых вхождений, если задано
func (r *RecurrenceRule) Count() (int, bool) {
	return r.count, r.count > 0
}

// Termination условие окончания в виде значения
func (r *RecurrenceRule) Termination() Termination {
	term := Termination{Count: r.count}
	if r.endDate != nil {
		end := *r.endDate
		term.EndDate = &end
	}
	return term
}

// UsesWeekdays выбирается ли ветка обхода по дням недели
func (r *RecurrenceRule) UsesWeekdays() bool {
	return r.kind == RecurrenceCustomWeeks
}

// Stride шаг в днях для правил с фиксированным шагом
func (r *RecurrenceRule) Stride() int {
	if r.interval > 0 {
		return r.interval
	}
	if r.kind == RecurrenceWeekly {
		return 7
	}
	return 1
}

func (r *RecurrenceRule) String() string {
	if r == nil {
		return "none"
	}
	parts := []string{string(r.kind)}
	if r.interval > 0 {
		parts = append(parts, fmt.Sprintf("interval=%d", r.interval))
	}
	if !r.weekdays.IsEmpty() {
		parts = append(parts, "weekdays="+r.weekdays.String())
	}
	if r.endDate != nil {
		parts = append(parts, "until="+r.endDate.Format(DateLayout))
	}
	if r.count > 0 {
		parts = append(parts, fmt.Sprintf("count=%d", r.count))
	}
	return strings.Join(parts, ";")
}

type ruleJSON struct {
	Type            RecurrenceKind `json:"type"`
	Interval        int            `json:"interval,omitempty"`
	Weekdays        []string       `json:"weekdays,omitempty"`
	EndDate         string         `json:"end_date,omitempty"`
	OccurrenceCount int            `json:"occurrence_count,omitempty"`
}

func (r *RecurrenceRule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		Type:            r.kind,
		Interval:        r.interval,
		Weekdays:        r.weekdays.Names(),
		OccurrenceCount: r.count,
	}
	if r.endDate != nil {
		out.EndDate = r.endDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

func (r *RecurrenceRule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	weekdays, err := ParseWeekdaySet(in.Weekdays)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	term := Termination{Count: in.OccurrenceCount}
	if in.EndDate != "" {
		end, err := time.Parse(DateLayout, in.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date: %v", ErrInvalidRule, err)
		}
		term.EndDate = &end
	}

	rule, err := RestoreRule(in.Type, in.Interval, weekdays, term)
	if err != nil {
		return err
	}
	*r = *rule
	return nil
}
