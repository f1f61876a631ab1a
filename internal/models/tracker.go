package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/errors"
)

// Recurrence is either Irregular or Weekly. Use a type switch to tell them apart.
type Recurrence interface {
	isRecurrence()
	String() string
}

// Irregular marks a one-shot tracker that is due until it is completed once.
type Irregular struct{}

func (Irregular) isRecurrence() {}

func (Irregular) String() string { return "irregular" }

// Weekly marks a habit that recurs on a fixed, non-empty set of weekdays.
type Weekly struct {
	Days WeekDaySet
}

func (Weekly) isRecurrence() {}

func (w Weekly) String() string { return "weekly on " + w.Days.String() }

// NewWeekly returns a weekly recurrence over days.
func NewWeekly(days ...WeekDay) (Weekly, error) {
	set := NewWeekDaySet(days...)
	if set.IsEmpty() {
		return Weekly{}, errors.ErrInvalidSchedule
	}
	return Weekly{Days: set}, nil
}

// Tracker is a habit or one-off event. Values are immutable; edits replace
// the stored value under the same ID.
type Tracker struct {
	ID         string
	Name       string
	Color      string
	Emoji      string
	Recurrence Recurrence
	CreatedAt  time.Time
}

// NewTracker validates its input and assigns a fresh ID.
func NewTracker(name, color, emoji string, rec Recurrence) (Tracker, error) {
	t := Tracker{
		ID:         uuid.New().String(),
		Name:       name,
		Color:      color,
		Emoji:      emoji,
		Recurrence: rec,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := t.Validate(); err != nil {
		return Tracker{}, err
	}
	return t, nil
}

// Validate checks the invariants every stored tracker must hold.
func (t Tracker) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tracker id must not be empty")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.ErrEmptyName
	}
	switch r := t.Recurrence.(type) {
	case Irregular:
	case Weekly:
		if r.Days.IsEmpty() {
			return errors.ErrInvalidSchedule
		}
	case nil:
		return fmt.Errorf("tracker %q has no recurrence", t.Name)
	default:
		return fmt.Errorf("tracker %q has unknown recurrence %T", t.Name, r)
	}
	return nil
}

func (t Tracker) IsIrregular() bool {
	_, ok := t.Recurrence.(Irregular)
	return ok
}

// Schedule returns the weekday set of a habit, or false for irregular trackers.
func (t Tracker) Schedule() (WeekDaySet, bool) {
	if w, ok := t.Recurrence.(Weekly); ok {
		return w.Days, true
	}
	return 0, false
}

type trackerJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Emoji     string    `json:"emoji"`
	Schedule  []WeekDay `json:"schedule"` // null for irregular trackers
	CreatedAt time.Time `json:"created_at"`
}

func (t Tracker) MarshalJSON() ([]byte, error) {
	out := trackerJSON{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		Emoji:     t.Emoji,
		CreatedAt: t.CreatedAt,
	}
	if days, ok := t.Schedule(); ok {
		out.Schedule = days.Days()
	}
	return json.Marshal(out)
}

func (t *Tracker) UnmarshalJSON(data []byte) error {
	var in trackerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = Tracker{
		ID:        in.ID,
		Name:      in.Name,
		Color:     in.Color,
		Emoji:     in.Emoji,
		CreatedAt: in.CreatedAt,
	}
	if in.Schedule == nil {
		t.Recurrence = Irregular{}
		return nil
	}
	rec, err := NewWeekly(in.Schedule...)
	if err != nil {
		return fmt.Errorf("tracker %s: %w", in.ID, err)
	}
	t.Recurrence = rec
	return nil
}

// TrackerCategory groups trackers under a unique title.
type TrackerCategory struct {
	Title    string    `json:"title"`
	Trackers []Tracker `json:"trackers"`
}

func (c TrackerCategory) IsPinned() bool {
	return c.Title == constants.PinnedCategoryTitle
}

// TrackerRecord marks a tracker as completed on a calendar day. Time of day
// is not significant.
type TrackerRecord struct {
	TrackerID string    `json:"tracker_id"`
	Date      time.Time `json:"date"`
}

// Day returns the record's calendar day as YYYY-MM-DD.
func (r TrackerRecord) Day() string {
	return r.Date.Format(constants.DateFormat)
}

// SameAs reports whether both records refer to the same tracker and calendar day.
func (r TrackerRecord) SameAs(other TrackerRecord) bool {
	return r.TrackerID == other.TrackerID && r.Day() == other.Day()
}
