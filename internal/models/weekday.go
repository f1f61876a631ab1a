package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekDay is a day of the week in a Monday-first week.
type WeekDay int

const (
	Monday WeekDay = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekDays lists the seven days in ordinal order.
var AllWeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekDayNames = map[WeekDay]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// WeekDayFromTime converts a Sunday-first time.Weekday into a Monday-first WeekDay.
func WeekDayFromTime(wd time.Weekday) WeekDay {
	if wd == time.Sunday {
		return Sunday
	}
	return WeekDay(wd)
}

// WeekDayOf returns the Monday-first weekday of t in t's location.
func WeekDayOf(t time.Time) WeekDay {
	return WeekDayFromTime(t.Weekday())
}

// TimeWeekday converts w back into the standard library's Sunday-first weekday.
func (w WeekDay) TimeWeekday() time.Weekday {
	if w == Sunday {
		return time.Sunday
	}
	return time.Weekday(w)
}

func (w WeekDay) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w WeekDay) String() string {
	if name, ok := weekDayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WeekDay(%d)", int(w))
}

// ShortName returns the three letter abbreviation, e.g. "Mon".
func (w WeekDay) ShortName() string {
	if !w.Valid() {
		return w.String()
	}
	return w.String()[:3]
}

// ParseWeekDay accepts full or abbreviated English names (any case) and the
// ordinals 1 (Monday) through 7 (Sunday).
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, wd := range AllWeekDays {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	if num, err := strconv.Atoi(s); err == nil {
		if wd := WeekDay(num); wd.Valid() {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// WeekDaySet is a set of weekdays stored as a bitmask. Bit n-1 holds WeekDay n.
type WeekDaySet uint8

const everyDayMask WeekDaySet = 1<<7 - 1

// NewWeekDaySet builds a set from the given days. Invalid days are ignored.
func NewWeekDaySet(days ...WeekDay) WeekDaySet {
	var s WeekDaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// EveryDay returns the set containing all seven days.
func EveryDay() WeekDaySet {
	return everyDayMask
}

func (s WeekDaySet) With(d WeekDay) WeekDaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<(d-1)
}

func (s WeekDaySet) Has(d WeekDay) bool {
	return d.Valid() && s&(1<<(d-1)) != 0
}

func (s WeekDaySet) IsEmpty() bool {
	return s&everyDayMask == 0
}

func (s WeekDaySet) Len() int {
	n := 0
	for _, d := range AllWeekDays {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the members in ascending order.
func (s WeekDaySet) Days() []WeekDay {
	var days []WeekDay
	for _, d := range AllWeekDays {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekDaySet) String() string {
	if s&everyDayMask == everyDayMask {
		return "every day"
	}
	var names []string
	for _, d := range s.Days() {
		names = append(names, d.ShortName())
	}
	return strings.Join(names, ",")
}
