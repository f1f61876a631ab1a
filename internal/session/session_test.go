package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/ledger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
	"github.com/julianstephens/tracker/internal/scheduler"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
)

func setupTestSession(t *testing.T) *Session {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	store.SetLocation(time.UTC)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := New(store, Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 1, 3, 18, 30, 0, 0, time.UTC) },
	})
	if err := s.Load(); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return s
}

func addTracker(t *testing.T, s *Session, name, category string, rec models.Recurrence) models.Tracker {
	t.Helper()
	tr, err := models.NewTracker(name, "", "", rec)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Organizer.AddTracker(tr, category); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestToday(t *testing.T) {
	s := setupTestSession(t)
	if got := s.Today(); !got.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Today() = %v", got)
	}
}

func TestDeletingTrackerKeepsRecords(t *testing.T) {
	s := setupTestSession(t)
	run := addTracker(t, s, "Run", "Health", models.Weekly{Days: models.EveryDay()})

	for _, d := range []int{1, 2} {
		if _, _, err := s.Toggle(run.ID, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatal(err)
		}
	}
	before := s.Stats.CompletedCount()

	if err := s.Organizer.DeleteTracker(run.ID); err != nil {
		t.Fatal(err)
	}
	if after := s.Stats.CompletedCount(); after != before || after != 2 {
		t.Errorf("CompletedCount changed from %d to %d", before, after)
	}

	// Records also survive a reload from storage
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if s.Stats.CompletedCount() != 2 {
		t.Errorf("orphaned records lost after reload: %d", s.Stats.CompletedCount())
	}
}

func TestToggleAndDay(t *testing.T) {
	s := setupTestSession(t)
	// 2024-01-01 is a Monday
	habit := addTracker(t, s, "Stretch", "Health", models.Weekly{Days: models.NewWeekDaySet(models.Monday, models.Wednesday)})
	event := addTracker(t, s, "Dentist", "Errands", models.Irregular{})

	var events []observer.Kind
	s.Observers.Register(func(e observer.Event) { events = append(events, e.Kind) })

	today := s.Today()
	_, tr, err := s.Toggle("Stretch", today)
	if err != nil || tr != ledger.Added {
		t.Fatalf("Toggle: %v %v", tr, err)
	}
	if _, _, err := s.Toggle(event.ID, today); err != nil {
		t.Fatal(err)
	}

	visible := s.Day(today, scheduler.FilterCompleted, "")
	if len(visible) != 2 {
		t.Fatalf("expected two categories, got %+v", visible)
	}

	tuesday := today.AddDate(0, 0, -1)
	if got := s.Day(tuesday, scheduler.FilterAll, ""); len(got) != 0 {
		t.Errorf("nothing should be due on Tuesday after the event was done, got %+v", got)
	}
	if !s.Scheduler.IsDue(habit, today.AddDate(0, 0, 5)) {
		t.Error("habit should be due the next Monday")
	}
	if len(events) != 2 {
		t.Errorf("expected 2 ledger events, got %v", events)
	}

	if _, _, err := s.Toggle("nope", today); err == nil {
		t.Error("expected error toggling unknown tracker")
	}
}

func TestToggleRejectsFutureDays(t *testing.T) {
	s := setupTestSession(t)
	run := addTracker(t, s, "Run", "Health", models.Weekly{Days: models.EveryDay()})

	tomorrow := s.Today().AddDate(0, 0, 1)
	if _, _, err := s.Toggle(run.ID, tomorrow); !errors.Is(err, apperrors.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	if s.Ledger.Has(run.ID, tomorrow) {
		t.Error("future toggle should not record a completion")
	}

	// Late evening today is still today
	late := time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC)
	if _, tr, err := s.Toggle(run.ID, late); err != nil || tr != ledger.Added {
		t.Fatalf("Toggle(today) = %v, %v", tr, err)
	}
}

func TestSummary(t *testing.T) {
	s := setupTestSession(t)
	a := addTracker(t, s, "A", "Health", models.Weekly{Days: models.EveryDay()})
	b := addTracker(t, s, "B", "Health", models.Weekly{Days: models.EveryDay()})

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	for _, toggle := range []struct {
		id string
		d  time.Time
	}{{a.ID, day1}, {b.ID, day1}, {a.ID, day2}} {
		if _, _, err := s.Toggle(toggle.id, toggle.d); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Summary()
	if got.CompletedCount != 3 || got.BestStreak != 2 || got.IdealDays != 1 || got.AverageCompletion != 1 {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestOpenLoadsProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	store.Close()

	s, err := Open(sqlite.NewStore(path), Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if len(s.Organizer.Categories()) != 0 {
		t.Error("expected empty organizer")
	}
}
