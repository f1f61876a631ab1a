package scheduler

import (
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

// CompletionIndex is the read side of the completion ledger.
type CompletionIndex interface {
	Has(trackerID string, date time.Time) bool
	FirstDay(trackerID string) (string, bool)
}

// Filter narrows the visible trackers by completion state on the chosen day.
type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterNotCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterCompleted:
		return "completed"
	case FilterNotCompleted:
		return "not completed"
	default:
		return "all"
	}
}

// Next cycles through the filters in display order.
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

// ParseFilter accepts the names printed by String and a few short forms.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "completed", "done":
		return FilterCompleted, true
	case "not completed", "not-completed", "pending", "todo":
		return FilterNotCompleted, true
	}
	return FilterAll, false
}

type Scheduler struct {
	completions CompletionIndex
}

func New(completions CompletionIndex) *Scheduler {
	return &Scheduler{completions: completions}
}

// IsDue reports whether the tracker should be shown on date. Weekly trackers
// are due on their weekdays whatever their completion state. Irregular
// trackers are due every day until completed, then only on the day of their
// earliest completion.
func (s *Scheduler) IsDue(tracker models.Tracker, date time.Time) bool {
	switch rec := tracker.Recurrence.(type) {
	case models.Weekly:
		return rec.Days.Has(models.WeekDayOf(date))
	case models.Irregular:
		first, ok := s.completions.FirstDay(tracker.ID)
		if !ok {
			return true
		}
		return first == utils.DayKey(date)
	default:
		return false
	}
}

// IsCompleted reports whether a record exists for the tracker on date's day.
func (s *Scheduler) IsCompleted(tracker models.Tracker, date time.Time) bool {
	return s.completions.Has(tracker.ID, date)
}

// Due returns the trackers due on date in their original order.
func (s *Scheduler) Due(trackers []models.Tracker, date time.Time) []models.Tracker {
	var due []models.Tracker
	for _, t := range trackers {
		if s.IsDue(t, date) {
			due = append(due, t)
		}
	}
	return due
}

// Visible returns the categories restricted to trackers that are due on date,
// match filter and contain query in their name (case-insensitive). Categories
// left empty are dropped; order is preserved.
func (s *Scheduler) Visible(categories []models.TrackerCategory, date time.Time, filter Filter, query string) []models.TrackerCategory {
	query = strings.ToLower(strings.TrimSpace(query))

	var visible []models.TrackerCategory
	for _, c := range categories {
		var trackers []models.Tracker
		for _, t := range c.Trackers {
			if !s.IsDue(t, date) {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
				continue
			}
			switch filter {
			case FilterCompleted:
				if !s.IsCompleted(t, date) {
					continue
				}
			case FilterNotCompleted:
				if s.IsCompleted(t, date) {
					continue
				}
			}
			trackers = append(trackers, t)
		}
		if len(trackers) > 0 {
			visible = append(visible, models.TrackerCategory{Title: c.Title, Trackers: trackers})
		}
	}
	return visible
}
