// Package ledger holds the in-memory set of completion records and keeps it
// in step with the record store.
package ledger

import (
	"sort"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

// Transition reports what Toggle did.
type Transition int

const (
	Added Transition = iota + 1
	Removed
)

func (t Transition) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Ledger indexes completion records by tracker id and calendar day. At most
// one record exists per (tracker, day).
type Ledger struct {
	store     storage.RecordStore
	observers *observer.Registry
	days      map[string]map[string]models.TrackerRecord
}

func New(store storage.RecordStore, observers *observer.Registry) *Ledger {
	if observers == nil {
		observers = observer.NewRegistry()
	}
	return &Ledger{
		store:     store,
		observers: observers,
		days:      make(map[string]map[string]models.TrackerRecord),
	}
}

// Load replaces the index with the records held by the store.
func (l *Ledger) Load() error {
	records, err := l.store.LoadCompletionRecords()
	if err != nil {
		return apperrors.Storage("load completion records", err)
	}

	l.days = make(map[string]map[string]models.TrackerRecord)
	for _, r := range records {
		l.insert(r)
	}
	logger.Debug("ledger loaded", "records", len(records))
	return nil
}

func (l *Ledger) insert(r models.TrackerRecord) bool {
	byDay, ok := l.days[r.TrackerID]
	if !ok {
		byDay = make(map[string]models.TrackerRecord)
		l.days[r.TrackerID] = byDay
	}
	key := r.Day()
	if _, exists := byDay[key]; exists {
		return false
	}
	byDay[key] = r
	return true
}

// Toggle adds a record for the tracker on date's day, or removes it when one exists.
func (l *Ledger) Toggle(trackerID string, date time.Time) (Transition, error) {
	if l.Has(trackerID, date) {
		if err := l.Remove(trackerID, date); err != nil {
			return 0, err
		}
		return Removed, nil
	}
	if _, err := l.Add(models.TrackerRecord{TrackerID: trackerID, Date: date}); err != nil {
		return 0, err
	}
	return Added, nil
}

// Add inserts record and reports whether it was new. A record for the same
// tracker and day is a no-op.
func (l *Ledger) Add(record models.TrackerRecord) (bool, error) {
	if l.Has(record.TrackerID, record.Date) {
		logger.Debug("completion already recorded", "tracker", record.TrackerID, "day", record.Day())
		return false, nil
	}

	record.Date = utils.StartOfDay(record.Date)
	if err := l.store.SaveCompletionRecord(record); err != nil {
		logger.Error("failed to save completion", "tracker", record.TrackerID, "day", record.Day(), "err", err)
		return false, apperrors.Storage("save completion record", err)
	}

	l.insert(record)
	l.observers.Emit(observer.Event{Kind: observer.RecordAdded, TrackerID: record.TrackerID, Date: record.Date})
	return true, nil
}

// Remove deletes the record for the tracker on date's day. Nothing happens
// when there is none.
func (l *Ledger) Remove(trackerID string, date time.Time) error {
	if !l.Has(trackerID, date) {
		return nil
	}

	if err := l.store.DeleteCompletionRecord(trackerID, date); err != nil {
		logger.Error("failed to delete completion", "tracker", trackerID, "day", utils.DayKey(date), "err", err)
		return apperrors.Storage("delete completion record", err)
	}

	byDay := l.days[trackerID]
	delete(byDay, utils.DayKey(date))
	if len(byDay) == 0 {
		delete(l.days, trackerID)
	}
	l.observers.Emit(observer.Event{Kind: observer.RecordRemoved, TrackerID: trackerID, Date: utils.StartOfDay(date)})
	return nil
}

func (l *Ledger) Has(trackerID string, date time.Time) bool {
	_, ok := l.days[trackerID][utils.DayKey(date)]
	return ok
}

// RecordsFor returns the tracker's records in no particular order.
func (l *Ledger) RecordsFor(trackerID string) []models.TrackerRecord {
	byDay := l.days[trackerID]
	records := make([]models.TrackerRecord, 0, len(byDay))
	for _, r := range byDay {
		records = append(records, r)
	}
	return records
}

// Count returns the number of distinct days the tracker was completed.
func (l *Ledger) Count(trackerID string) int {
	return len(l.days[trackerID])
}

// FirstDay returns the earliest day key recorded for the tracker.
func (l *Ledger) FirstDay(trackerID string) (string, bool) {
	first := ""
	for key := range l.days[trackerID] {
		if first == "" || key < first {
			first = key
		}
	}
	return first, first != ""
}

// Records returns a snapshot of every record, ordered by day then tracker id.
func (l *Ledger) Records() []models.TrackerRecord {
	var records []models.TrackerRecord
	for _, byDay := range l.days {
		for _, r := range byDay {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		di, dj := records[i].Day(), records[j].Day()
		if di != dj {
			return di < dj
		}
		return records[i].TrackerID < records[j].TrackerID
	})
	return records
}

func (l *Ledger) Len() int {
	n := 0
	for _, byDay := range l.days {
		n += len(byDay)
	}
	return n
}

// Observers exposes the registry notified after each mutation.
func (l *Ledger) Observers() *observer.Registry {
	return l.observers
}
