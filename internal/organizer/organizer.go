// Package organizer maintains the category index: which tracker lives in
// which category, the reserved pinned category, and where pinned trackers
// came from.
package organizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/observer"
	"github.com/julianstephens/tracker/internal/storage"
)

// AddResult reports whether an add found the key already present.
type AddResult struct {
	AlreadyExists bool
}

type Organizer struct {
	store     storage.CategoryStore
	observers *observer.Registry

	categories map[string][]models.Tracker
	location   map[string]string // tracker id -> category title
	origins    map[string]string // tracker id -> category before pinning
}

func New(store storage.CategoryStore, observers *observer.Registry) *Organizer {
	if observers == nil {
		observers = observer.NewRegistry()
	}
	return &Organizer{
		store:      store,
		observers:  observers,
		categories: make(map[string][]models.Tracker),
		location:   make(map[string]string),
		origins:    make(map[string]string),
	}
}

// Load replaces the index with the categories and pin origins held by the store.
func (o *Organizer) Load() error {
	categories, err := o.store.LoadCategories()
	if err != nil {
		return apperrors.Storage("load categories", err)
	}
	origins, err := o.store.LoadPinOrigins()
	if err != nil {
		return apperrors.Storage("load pin origins", err)
	}

	o.categories = make(map[string][]models.Tracker, len(categories))
	o.location = make(map[string]string)
	for _, c := range categories {
		o.categories[c.Title] = append([]models.Tracker(nil), c.Trackers...)
		for _, t := range c.Trackers {
			o.location[t.ID] = c.Title
		}
	}
	o.origins = origins
	if o.origins == nil {
		o.origins = make(map[string]string)
	}

	logger.Debug("organizer loaded", "categories", len(o.categories), "trackers", len(o.location))
	return nil
}

func isPinned(title string) bool {
	return title == constants.PinnedCategoryTitle
}

func validTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("category title: %w", apperrors.ErrEmptyName)
	}
	return nil
}

// detach removes the tracker from its current category in memory.
func (o *Organizer) detach(id string) {
	title, ok := o.location[id]
	if !ok {
		return
	}
	trackers := o.categories[title]
	for i, t := range trackers {
		if t.ID == id {
			o.categories[title] = append(trackers[:i:i], trackers[i+1:]...)
			break
		}
	}
	delete(o.location, id)
}

func (o *Organizer) attach(tracker models.Tracker, title string) {
	o.detach(tracker.ID)
	o.categories[title] = append(o.categories[title], tracker)
	o.location[tracker.ID] = title
}

// AddTracker assigns tracker to the category titled title, creating the
// category when needed. A tracker already in that category is left alone and
// reported through AddResult. A tracker held by another category is moved.
func (o *Organizer) AddTracker(tracker models.Tracker, title string) (AddResult, error) {
	if err := tracker.Validate(); err != nil {
		return AddResult{}, err
	}
	if err := validTitle(title); err != nil {
		return AddResult{}, err
	}

	if current, ok := o.location[tracker.ID]; ok && current == title {
		logger.Info("tracker already in category", "tracker", tracker.ID, "category", title)
		return AddResult{AlreadyExists: true}, nil
	}

	newOrigin := !isPinned(title) && o.origins[tracker.ID] != title
	if newOrigin {
		if err := o.store.SavePinOrigin(tracker.ID, title); err != nil {
			return AddResult{}, apperrors.Storage("save pin origin", err)
		}
	}
	if err := o.store.SaveTracker(tracker, title); err != nil {
		if newOrigin {
			o.revertOrigin(tracker.ID)
		}
		return AddResult{}, apperrors.Storage("save tracker", err)
	}

	if newOrigin {
		o.origins[tracker.ID] = title
	}
	o.attach(tracker, title)
	o.observers.Emit(observer.Event{Kind: observer.TrackerAdded, TrackerID: tracker.ID, Category: title})
	return AddResult{}, nil
}

// UpdateTracker replaces the stored tracker with the same id, keeping its category.
func (o *Organizer) UpdateTracker(tracker models.Tracker) error {
	title, ok := o.location[tracker.ID]
	if !ok {
		return apperrors.NotFoundf("tracker %s", tracker.ID)
	}
	if err := tracker.Validate(); err != nil {
		return err
	}

	if err := o.store.SaveTracker(tracker, title); err != nil {
		return apperrors.Storage("save tracker", err)
	}

	for i, t := range o.categories[title] {
		if t.ID == tracker.ID {
			o.categories[title][i] = tracker
			break
		}
	}
	o.observers.Emit(observer.Event{Kind: observer.TrackerUpdated, TrackerID: tracker.ID, Category: title})
	return nil
}

// DeleteTracker removes the tracker and its pin origin. Completion records
// are not touched.
func (o *Organizer) DeleteTracker(id string) error {
	title, ok := o.location[id]
	if !ok {
		return apperrors.NotFoundf("tracker %s", id)
	}

	_, hadOrigin := o.origins[id]
	if hadOrigin {
		if err := o.store.DeletePinOrigin(id); err != nil {
			return apperrors.Storage("delete pin origin", err)
		}
	}
	if err := o.store.DeleteTracker(id); err != nil {
		if hadOrigin {
			o.revertOrigin(id)
		}
		return apperrors.Storage("delete tracker", err)
	}

	delete(o.origins, id)
	o.detach(id)
	o.observers.Emit(observer.Event{Kind: observer.TrackerDeleted, TrackerID: id, Category: title})
	return nil
}

// revertOrigin writes the in-memory pin origin for id back to the store after
// a later write in the same mutation failed. The index is not changed until
// every write succeeds, so it still holds the previous value.
func (o *Organizer) revertOrigin(id string) {
	var err error
	if title, ok := o.origins[id]; ok {
		err = o.store.SavePinOrigin(id, title)
	} else {
		err = o.store.DeletePinOrigin(id)
	}
	if err != nil {
		logger.Warn("failed to roll back pin origin", "tracker", id, "error", err)
	}
}

// Pin moves the tracker into the pinned category. Its current category is
// remembered for Unpin unless one is already recorded.
func (o *Organizer) Pin(id string) error {
	title, ok := o.location[id]
	if !ok {
		return apperrors.NotFoundf("tracker %s", id)
	}
	if isPinned(title) {
		return nil
	}
	tracker, _ := o.Tracker(id)

	_, recorded := o.origins[id]
	if !recorded {
		if err := o.store.SavePinOrigin(id, title); err != nil {
			return apperrors.Storage("save pin origin", err)
		}
	}
	if err := o.store.SaveTracker(tracker, constants.PinnedCategoryTitle); err != nil {
		if !recorded {
			o.revertOrigin(id)
		}
		return apperrors.Storage("save tracker", err)
	}

	if !recorded {
		o.origins[id] = title
	}
	o.attach(tracker, constants.PinnedCategoryTitle)
	logger.Debug("tracker pinned", "tracker", id, "from", title)
	o.observers.Emit(observer.Event{Kind: observer.TrackerPinned, TrackerID: id, Category: constants.PinnedCategoryTitle})
	return nil
}

// Unpin moves a pinned tracker back to the category it was pinned from, or to
// fallback when none is recorded. Pass an empty fallback to require a
// recorded origin.
func (o *Organizer) Unpin(id, fallback string) error {
	title, ok := o.location[id]
	if !ok {
		return apperrors.NotFoundf("tracker %s", id)
	}
	if !isPinned(title) {
		return apperrors.NotFoundf("pinned tracker %s", id)
	}

	dest, recorded := o.origins[id]
	if !recorded {
		if strings.TrimSpace(fallback) == "" || isPinned(fallback) {
			return apperrors.NotFoundf("original category for tracker %s", id)
		}
		dest = fallback
	}
	tracker, _ := o.Tracker(id)

	if !recorded {
		if err := o.store.SavePinOrigin(id, dest); err != nil {
			return apperrors.Storage("save pin origin", err)
		}
	}
	if err := o.store.SaveTracker(tracker, dest); err != nil {
		if !recorded {
			o.revertOrigin(id)
		}
		return apperrors.Storage("save tracker", err)
	}

	if !recorded {
		o.origins[id] = dest
	}

	o.attach(tracker, dest)
	logger.Debug("tracker unpinned", "tracker", id, "to", dest)
	o.observers.Emit(observer.Event{Kind: observer.TrackerUnpinned, TrackerID: id, Category: dest})
	return nil
}

// Categories returns every category sorted by title. A non-empty pinned
// category is listed first.
func (o *Organizer) Categories() []models.TrackerCategory {
	categories := make([]models.TrackerCategory, 0, len(o.categories))
	for title, trackers := range o.categories {
		categories = append(categories, models.TrackerCategory{
			Title:    title,
			Trackers: append([]models.Tracker(nil), trackers...),
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		pi := categories[i].IsPinned() && len(categories[i].Trackers) > 0
		pj := categories[j].IsPinned() && len(categories[j].Trackers) > 0
		if pi != pj {
			return pi
		}
		return categories[i].Title < categories[j].Title
	})
	return categories
}

// AddCategory creates an empty category. An existing title is reported
// through AddResult.
func (o *Organizer) AddCategory(title string) (AddResult, error) {
	if err := validTitle(title); err != nil {
		return AddResult{}, err
	}
	if _, ok := o.categories[title]; ok {
		logger.Info("category already exists", "category", title)
		return AddResult{AlreadyExists: true}, nil
	}

	if err := o.store.SaveCategory(models.TrackerCategory{Title: title}); err != nil {
		return AddResult{}, apperrors.Storage("save category", err)
	}

	o.categories[title] = nil
	o.observers.Emit(observer.Event{Kind: observer.CategoryAdded, Category: title})
	return AddResult{}, nil
}

// DeleteCategory removes the category and every tracker in it. Completion
// records are not touched.
func (o *Organizer) DeleteCategory(title string) error {
	trackers, ok := o.categories[title]
	if !ok {
		return apperrors.NotFoundf("category %q", title)
	}

	var cleared []string
	rollback := func() {
		for _, id := range cleared {
			o.revertOrigin(id)
		}
	}
	for _, t := range trackers {
		if _, ok := o.origins[t.ID]; !ok {
			continue
		}
		if err := o.store.DeletePinOrigin(t.ID); err != nil {
			rollback()
			return apperrors.Storage("delete pin origin", err)
		}
		cleared = append(cleared, t.ID)
	}
	if err := o.store.DeleteCategory(title); err != nil {
		rollback()
		return apperrors.Storage("delete category", err)
	}

	for _, t := range trackers {
		delete(o.origins, t.ID)
		delete(o.location, t.ID)
	}
	delete(o.categories, title)
	o.observers.Emit(observer.Event{Kind: observer.CategoryDeleted, Category: title})
	return nil
}

func (o *Organizer) Tracker(id string) (models.Tracker, bool) {
	title, ok := o.location[id]
	if !ok {
		return models.Tracker{}, false
	}
	for _, t := range o.categories[title] {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tracker{}, false
}

// FindTracker resolves a tracker by id, then by exact name, then by a unique
// case-insensitive name prefix.
func (o *Organizer) FindTracker(ref string) (models.Tracker, error) {
	if t, ok := o.Tracker(ref); ok {
		return t, nil
	}

	var prefixed []models.Tracker
	lower := strings.ToLower(ref)
	for _, t := range o.Trackers() {
		if t.Name == ref {
			return t, nil
		}
		if lower != "" && strings.HasPrefix(strings.ToLower(t.Name), lower) {
			prefixed = append(prefixed, t)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		return models.Tracker{}, apperrors.NotFoundf("tracker %q", ref)
	default:
		return models.Tracker{}, fmt.Errorf("tracker %q is ambiguous: %d trackers match", ref, len(prefixed))
	}
}

func (o *Organizer) CategoryOf(id string) (string, bool) {
	title, ok := o.location[id]
	return title, ok
}

// OriginalCategory returns the category recorded for Unpin.
func (o *Organizer) OriginalCategory(id string) (string, bool) {
	title, ok := o.origins[id]
	return title, ok
}

// Trackers returns every tracker in category listing order.
func (o *Organizer) Trackers() []models.Tracker {
	var trackers []models.Tracker
	for _, c := range o.Categories() {
		trackers = append(trackers, c.Trackers...)
	}
	return trackers
}

func (o *Organizer) TrackerIDs() []string {
	ids := make([]string, 0, len(o.location))
	for _, t := range o.Trackers() {
		ids = append(ids, t.ID)
	}
	return ids
}

// Observers exposes the registry notified after each mutation.
func (o *Organizer) Observers() *observer.Registry {
	return o.observers
}
