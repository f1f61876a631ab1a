package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
)

const documentVersion = 1

type recordEntry struct {
	TrackerID string `json:"tracker_id"`
	Day       string `json:"day"`
}

// Document is the on-disk layout of the JSON store.
type Document struct {
	Version    int                      `json:"version"`
	Categories []models.TrackerCategory `json:"categories"`
	Records    []recordEntry            `json:"records"`
	PinOrigins map[string]string        `json:"pin_origins"`
}

type Store struct {
	path string
	doc  *Document
	loc  *time.Location
}

func New(path string) *Store {
	return &Store{
		path: path,
		loc:  time.Local,
	}
}

func (s *Store) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &Document{
		Version:    documentVersion,
		PinOrigins: make(map[string]string),
	}
	return s.save()
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	if doc.PinOrigins == nil {
		doc.PinOrigins = make(map[string]string)
	}

	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// save writes through a temp file so a crash never leaves a truncated document.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (d *Document) clone() *Document {
	c := &Document{
		Version:    d.Version,
		Categories: make([]models.TrackerCategory, len(d.Categories)),
		Records:    append([]recordEntry(nil), d.Records...),
		PinOrigins: make(map[string]string, len(d.PinOrigins)),
	}
	for i, cat := range d.Categories {
		c.Categories[i] = models.TrackerCategory{
			Title:    cat.Title,
			Trackers: append([]models.Tracker(nil), cat.Trackers...),
		}
	}
	for k, v := range d.PinOrigins {
		c.PinOrigins[k] = v
	}
	return c
}

// commit saves the document, restoring prev when the write fails so a
// rejected change is not persisted by a later save.
func (s *Store) commit(prev *Document) error {
	if err := s.save(); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

func (s *Store) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *Store) categoryIndex(title string) int {
	for i, c := range s.doc.Categories {
		if c.Title == title {
			return i
		}
	}
	return -1
}

// detach removes the tracker from whichever category holds it.
func (s *Store) detach(id string) bool {
	for i := range s.doc.Categories {
		trackers := s.doc.Categories[i].Trackers
		for j, t := range trackers {
			if t.ID == id {
				s.doc.Categories[i].Trackers = append(trackers[:j:j], trackers[j+1:]...)
				return true
			}
		}
	}
	return false
}

func (s *Store) LoadTrackers() ([]models.Tracker, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var trackers []models.Tracker
	for _, c := range s.doc.Categories {
		trackers = append(trackers, c.Trackers...)
	}
	return trackers, nil
}

func (s *Store) LoadCategories() ([]models.TrackerCategory, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	categories := make([]models.TrackerCategory, len(s.doc.Categories))
	for i, c := range s.doc.Categories {
		categories[i] = models.TrackerCategory{
			Title:    c.Title,
			Trackers: append([]models.Tracker(nil), c.Trackers...),
		}
	}
	return categories, nil
}

func (s *Store) SaveTracker(tracker models.Tracker, categoryTitle string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()

	// Keep position when the tracker stays in its category.
	if i := s.categoryIndex(categoryTitle); i >= 0 {
		for j, t := range s.doc.Categories[i].Trackers {
			if t.ID == tracker.ID {
				s.doc.Categories[i].Trackers[j] = tracker
				return s.commit(prev)
			}
		}
	}

	s.detach(tracker.ID)
	i := s.categoryIndex(categoryTitle)
	if i < 0 {
		s.doc.Categories = append(s.doc.Categories, models.TrackerCategory{Title: categoryTitle})
		i = len(s.doc.Categories) - 1
	}
	s.doc.Categories[i].Trackers = append(s.doc.Categories[i].Trackers, tracker)
	return s.commit(prev)
}

func (s *Store) DeleteTracker(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	if !s.detach(id) {
		return fmt.Errorf("tracker %s not found", id)
	}
	return s.commit(prev)
}

func (s *Store) SaveCategory(category models.TrackerCategory) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()

	i := s.categoryIndex(category.Title)
	if i < 0 {
		s.doc.Categories = append(s.doc.Categories, models.TrackerCategory{Title: category.Title})
		i = len(s.doc.Categories) - 1
	}
	for _, t := range category.Trackers {
		s.detach(t.ID)
		s.doc.Categories[i].Trackers = append(s.doc.Categories[i].Trackers, t)
	}
	return s.commit(prev)
}

func (s *Store) DeleteCategory(title string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	i := s.categoryIndex(title)
	if i < 0 {
		return fmt.Errorf("category %q not found", title)
	}
	s.doc.Categories = append(s.doc.Categories[:i:i], s.doc.Categories[i+1:]...)
	return s.commit(prev)
}

func (s *Store) LoadPinOrigins() (map[string]string, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	origins := make(map[string]string, len(s.doc.PinOrigins))
	for k, v := range s.doc.PinOrigins {
		origins[k] = v
	}
	return origins, nil
}

func (s *Store) SavePinOrigin(trackerID, categoryTitle string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	s.doc.PinOrigins[trackerID] = categoryTitle
	return s.commit(prev)
}

func (s *Store) DeletePinOrigin(trackerID string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	if _, ok := s.doc.PinOrigins[trackerID]; !ok {
		return nil
	}
	delete(s.doc.PinOrigins, trackerID)
	return s.commit(prev)
}

func (s *Store) LoadCompletionRecords() ([]models.TrackerRecord, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	records := make([]models.TrackerRecord, 0, len(s.doc.Records))
	for _, r := range s.doc.Records {
		date, err := time.ParseInLocation(constants.DateFormat, r.Day, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid record day %q for tracker %s: %w", r.Day, r.TrackerID, err)
		}
		records = append(records, models.TrackerRecord{TrackerID: r.TrackerID, Date: date})
	}
	return records, nil
}

func (s *Store) SaveCompletionRecord(record models.TrackerRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	entry := recordEntry{TrackerID: record.TrackerID, Day: record.Day()}
	for _, r := range s.doc.Records {
		if r == entry {
			return nil
		}
	}
	s.doc.Records = append(s.doc.Records, entry)
	sort.SliceStable(s.doc.Records, func(i, j int) bool {
		return s.doc.Records[i].Day < s.doc.Records[j].Day
	})
	return s.commit(prev)
}

func (s *Store) DeleteCompletionRecord(trackerID string, date time.Time) error {
	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.doc.clone()
	day := date.Format(constants.DateFormat)
	for i, r := range s.doc.Records {
		if r.TrackerID == trackerID && r.Day == day {
			s.doc.Records = append(s.doc.Records[:i:i], s.doc.Records[i+1:]...)
			return s.commit(prev)
		}
	}
	return nil
}
