package utils

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tracker/internal/models"
)

// ParseWeekdays parses a comma-separated list of weekdays such as "mon,wed"
// or "1,3". The keywords "daily" and "every" select all seven days.
func ParseWeekdays(s string) (models.WeekDaySet, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("no weekdays given")
	}
	if s == "daily" || s == "every" {
		return models.EveryDay(), nil
	}

	var set models.WeekDaySet
	for _, part := range strings.Split(s, ",") {
		wd, err := models.ParseWeekDay(part)
		if err != nil {
			return 0, err
		}
		set = set.With(wd)
	}
	return set, nil
}

// FormatRecurrence formats a recurrence rule into a human-readable string
func FormatRecurrence(rec models.Recurrence) string {
	switch r := rec.(type) {
	case models.Irregular:
		return "irregular event"
	case models.Weekly:
		return r.Days.String()
	default:
		return "unknown"
	}
}
