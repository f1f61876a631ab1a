package ledger

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
)

type fakeRecordStore struct {
	records  []models.TrackerRecord
	saves    int
	deletes  int
	failSave error
	failDel  error
	failLoad error
}

func (f *fakeRecordStore) LoadCompletionRecords() ([]models.TrackerRecord, error) {
	if f.failLoad != nil {
		return nil, f.failLoad
	}
	return append([]models.TrackerRecord(nil), f.records...), nil
}

func (f *fakeRecordStore) SaveCompletionRecord(r models.TrackerRecord) error {
	if f.failSave != nil {
		return f.failSave
	}
	f.saves++
	f.records = append(f.records, r)
	return nil
}

func (f *fakeRecordStore) DeleteCompletionRecord(trackerID string, date time.Time) error {
	if f.failDel != nil {
		return f.failDel
	}
	f.deletes++
	kept := f.records[:0]
	day := date.Format("2006-01-02")
	for _, r := range f.records {
		if r.TrackerID != trackerID || r.Day() != day {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestToggleIsIdempotent(t *testing.T) {
	store := &fakeRecordStore{}
	l := New(store, nil)
	d := day(2024, 1, 1, 9)

	tr, err := l.Toggle("a", d)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if tr != Added || !l.Has("a", d) || l.Count("a") != 1 {
		t.Fatalf("expected record after first toggle, got %s", tr)
	}

	tr, err = l.Toggle("a", d.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if tr != Removed || l.Has("a", d) || l.Count("a") != 0 {
		t.Fatalf("expected no record after second toggle, got %s", tr)
	}
	if len(store.records) != 0 {
		t.Errorf("store still holds %d records", len(store.records))
	}
}

func TestAddDeduplicatesByDay(t *testing.T) {
	store := &fakeRecordStore{}
	l := New(store, nil)

	added, err := l.Add(models.TrackerRecord{TrackerID: "a", Date: day(2024, 1, 1, 8)})
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = l.Add(models.TrackerRecord{TrackerID: "a", Date: day(2024, 1, 1, 22)})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added {
		t.Error("duplicate add should report false")
	}
	if l.Len() != 1 || store.saves != 1 {
		t.Errorf("expected one record, ledger=%d saves=%d", l.Len(), store.saves)
	}
}

func TestRemoveWithoutRecordIsNoop(t *testing.T) {
	store := &fakeRecordStore{}
	l := New(store, nil)
	if err := l.Remove("a", day(2024, 1, 1, 0)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.deletes != 0 {
		t.Error("store should not be called")
	}
}

func TestStorageFailureLeavesLedgerUntouched(t *testing.T) {
	boom := errors.New("disk full")
	store := &fakeRecordStore{failSave: boom}
	reg := observer.NewRegistry()
	var events int
	reg.Register(func(observer.Event) { events++ })
	l := New(store, reg)

	_, err := l.Toggle("a", day(2024, 1, 1, 0))
	if !apperrors.IsStorage(err) || !errors.Is(err, boom) {
		t.Fatalf("expected storage error wrapping cause, got %v", err)
	}
	if l.Has("a", day(2024, 1, 1, 0)) || events != 0 {
		t.Error("failed add must not mutate or notify")
	}

	store.failSave = nil
	if _, err := l.Toggle("a", day(2024, 1, 1, 0)); err != nil {
		t.Fatal(err)
	}
	store.failDel = boom
	if _, err := l.Toggle("a", day(2024, 1, 1, 0)); !apperrors.IsStorage(err) {
		t.Fatalf("expected storage error on delete, got %v", err)
	}
	if !l.Has("a", day(2024, 1, 1, 0)) {
		t.Error("failed remove must keep the record")
	}
}

func TestObserversSeeEveryMutation(t *testing.T) {
	reg := observer.NewRegistry()
	var kinds []observer.Kind
	reg.Register(func(e observer.Event) {
		if e.TrackerID != "a" {
			t.Errorf("unexpected tracker %q", e.TrackerID)
		}
		kinds = append(kinds, e.Kind)
	})
	l := New(&fakeRecordStore{}, reg)

	d := day(2024, 2, 3, 0)
	_, _ = l.Toggle("a", d)
	_, _ = l.Toggle("a", d)
	_, _ = l.Add(models.TrackerRecord{TrackerID: "a", Date: d})
	_, _ = l.Add(models.TrackerRecord{TrackerID: "a", Date: d})

	want := []observer.Kind{observer.RecordAdded, observer.RecordRemoved, observer.RecordAdded}
	if len(kinds) != len(want) {
		t.Fatalf("got events %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLoadRebuildsIndex(t *testing.T) {
	store := &fakeRecordStore{records: []models.TrackerRecord{
		{TrackerID: "a", Date: day(2024, 1, 2, 0)},
		{TrackerID: "a", Date: day(2024, 1, 1, 0)},
		{TrackerID: "a", Date: day(2024, 1, 1, 12)},
		{TrackerID: "b", Date: day(2024, 1, 1, 0)},
	}}
	l := New(store, nil)
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if l.Count("a") != 2 || l.Count("b") != 1 || l.Len() != 3 {
		t.Errorf("unexpected counts a=%d b=%d len=%d", l.Count("a"), l.Count("b"), l.Len())
	}
	if first, ok := l.FirstDay("a"); !ok || first != "2024-01-01" {
		t.Errorf("FirstDay = %q, %v", first, ok)
	}
	if _, ok := l.FirstDay("missing"); ok {
		t.Error("FirstDay should fail for unknown tracker")
	}
	if len(l.RecordsFor("a")) != 2 {
		t.Errorf("RecordsFor returned %d records", len(l.RecordsFor("a")))
	}

	records := l.Records()
	if records[0].Day() != "2024-01-01" || records[0].TrackerID != "a" || records[2].Day() != "2024-01-02" {
		t.Errorf("records not ordered: %v", records)
	}
}

func TestLoadWrapsStorageError(t *testing.T) {
	l := New(&fakeRecordStore{failLoad: errors.New("locked")}, nil)
	if err := l.Load(); !apperrors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
