package storage

import (
	"time"

	"github.com/julianstephens/tracker/internal/models"
)

// CategoryStore persists categories, the trackers assigned to them and the
// category each tracker occupied before it was pinned.
type CategoryStore interface {
	LoadTrackers() ([]models.Tracker, error)
	// LoadCategories returns every category with its trackers populated.
	LoadCategories() ([]models.TrackerCategory, error)
	// SaveTracker inserts or replaces the tracker and assigns it to categoryTitle.
	SaveTracker(tracker models.Tracker, categoryTitle string) error
	DeleteTracker(id string) error
	// SaveCategory upserts the category and assigns any trackers it carries.
	// Trackers already in the category are left in place.
	SaveCategory(category models.TrackerCategory) error
	// DeleteCategory removes the category and the trackers assigned to it.
	DeleteCategory(title string) error

	LoadPinOrigins() (map[string]string, error)
	SavePinOrigin(trackerID, categoryTitle string) error
	DeletePinOrigin(trackerID string) error
}

// RecordStore persists completion records keyed by tracker and calendar day.
type RecordStore interface {
	LoadCompletionRecords() ([]models.TrackerRecord, error)
	SaveCompletionRecord(record models.TrackerRecord) error
	// DeleteCompletionRecord removes every record for trackerID on date's calendar day.
	DeleteCompletionRecord(trackerID string, date time.Time) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	CategoryStore
	RecordStore

	// Utils
	GetConfigPath() string
}
