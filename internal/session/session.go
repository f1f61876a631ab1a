// Package session wires one ledger, organizer, scheduler and statistics
// engine to a storage provider.
package session

import (
	"fmt"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/ledger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
	"github.com/julianstephens/tracker/internal/organizer"
	"github.com/julianstephens/tracker/internal/scheduler"
	"github.com/julianstephens/tracker/internal/stats"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

type Options struct {
	// Location decides calendar days. Defaults to time.Local.
	Location   *time.Location
	IdealMatch stats.IdealMatch
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Session struct {
	Provider  storage.Provider
	Observers *observer.Registry
	Ledger    *ledger.Ledger
	Organizer *organizer.Organizer
	Scheduler *scheduler.Scheduler
	Stats     *stats.Engine

	loc *time.Location
	now func() time.Time
}

// New builds a session over provider. The provider must already be
// initialized or loaded; call Load to read its contents.
func New(provider storage.Provider, opts Options) *Session {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	observers := observer.NewRegistry()
	l := ledger.New(provider, observers)
	return &Session{
		Provider:  provider,
		Observers: observers,
		Ledger:    l,
		Organizer: organizer.New(provider, observers),
		Scheduler: scheduler.New(l),
		Stats:     stats.New(l, opts.IdealMatch),
		loc:       loc,
		now:       now,
	}
}

// Open loads provider and returns a session over its contents.
func Open(provider storage.Provider, opts Options) (*Session, error) {
	if err := provider.Load(); err != nil {
		return nil, err
	}
	s := New(provider, opts)
	if err := s.Load(); err != nil {
		provider.Close()
		return nil, err
	}
	return s, nil
}

// Load rebuilds the in-memory ledger and category index from storage.
func (s *Session) Load() error {
	if err := s.Organizer.Load(); err != nil {
		return err
	}
	return s.Ledger.Load()
}

func (s *Session) Close() error {
	return s.Provider.Close()
}

func (s *Session) Location() *time.Location {
	return s.loc
}

// Today returns midnight of the current day in the session location.
func (s *Session) Today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// Toggle flips completion of a tracker on date. Unknown trackers and days
// after today are rejected.
func (s *Session) Toggle(ref string, date time.Time) (models.Tracker, ledger.Transition, error) {
	tracker, err := s.Organizer.FindTracker(ref)
	if err != nil {
		return models.Tracker{}, 0, err
	}
	date = date.In(s.loc)
	if day := utils.DayKey(date); day > utils.DayKey(s.Today()) {
		return tracker, 0, fmt.Errorf("%s: %w", day, apperrors.ErrFutureDate)
	}
	tr, err := s.Ledger.Toggle(tracker.ID, date)
	return tracker, tr, err
}

// Day returns the visible categories for date.
func (s *Session) Day(date time.Time, filter scheduler.Filter, query string) []models.TrackerCategory {
	return s.Scheduler.Visible(s.Organizer.Categories(), date.In(s.loc), filter, query)
}

// Summary computes statistics with every current tracker as the scheduled set.
func (s *Session) Summary() stats.Summary {
	return s.Stats.Summary(s.Organizer.TrackerIDs())
}
