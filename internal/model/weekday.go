package model

import (
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// weekdayOrder порядок дней недели Mon..Sun
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// WeekdaySet множество дней недели (битовая маска по time.Weekday)
type WeekdaySet uint8

// NewWeekdaySet собирает множество из дней недели
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekday разбирает короткое имя дня (Mon..Sun)
func ParseWeekday(name string) (time.Weekday, error) {
	for _, d := range weekdayOrder {
		if strings.EqualFold(weekdayNames[d], strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ParseWeekdaySet разбирает список коротких имён дней
func ParseWeekdaySet(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return 0, err
		}
		s |= NewWeekdaySet(d)
	}
	return s, nil
}

// Has входит ли день в множество
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Len количество дней в множестве
func (s WeekdaySet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// IsEmpty пустое ли множество
func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Names короткие имена дней в порядке Mon..Sun
func (s WeekdaySet) Names() []string {
	var names []string
	for _, d := range weekdayOrder {
		if s.Has(d) {
			names = append(names, weekdayNames[d])
		}
	}
	return names
}

func (s WeekdaySet) String() string {
	return strings.Join(s.Names(), ",")
}
