// Package validation checks stored trackers and completion records for
// inconsistencies that the organizer and ledger tolerate but users may want
// to clean up.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTrackerName ConflictType = "duplicate_tracker_name"
	ConflictInvalidTracker       ConflictType = "invalid_tracker"
	ConflictMissingPinOrigin     ConflictType = "missing_pin_origin"
	ConflictEmptyCategory        ConflictType = "empty_category"
	ConflictOrphanedRecords      ConflictType = "orphaned_records"
	ConflictFutureRecord         ConflictType = "future_record"
)

// Conflict represents a detected problem in trackers or records
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Tracker or category names involved
	TrackerIDs  []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Input is a snapshot of everything the validator inspects.
type Input struct {
	Categories []models.TrackerCategory
	Records    []models.TrackerRecord
	// PinOrigins maps tracker ID to the category it returns to on unpin.
	PinOrigins map[string]string
	Today      time.Time
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate runs every check and returns conflicts ordered by check.
func (v *Validator) Validate(in Input) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	result.Conflicts = append(result.Conflicts, v.checkTrackers(in.Categories, in.PinOrigins)...)
	result.Conflicts = append(result.Conflicts, v.checkRecords(in.Categories, in.Records, in.Today)...)
	return result
}

func (v *Validator) checkTrackers(categories []models.TrackerCategory, origins map[string]string) []Conflict {
	var conflicts []Conflict
	names := make(map[string][]string)
	var order []string

	for _, category := range categories {
		if len(category.Trackers) == 0 && !category.IsPinned() {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictEmptyCategory,
				Description: fmt.Sprintf("Category \"%s\" has no trackers", category.Title),
				Items:       []string{category.Title},
			})
		}

		for _, t := range category.Trackers {
			if err := t.Validate(); err != nil {
				conflicts = append(conflicts, Conflict{
					Type:        ConflictInvalidTracker,
					Description: fmt.Sprintf("Tracker \"%s\" is invalid: %v", t.Name, err),
					Items:       []string{t.Name},
					TrackerIDs:  []string{t.ID},
				})
			}
			if category.IsPinned() {
				if _, ok := origins[t.ID]; !ok {
					conflicts = append(conflicts, Conflict{
						Type:        ConflictMissingPinOrigin,
						Description: fmt.Sprintf("Pinned tracker \"%s\" has no original category; unpin it with --to", t.Name),
						Items:       []string{t.Name},
						TrackerIDs:  []string{t.ID},
					})
				}
			}

			if t.Name == "" {
				continue
			}
			if _, seen := names[t.Name]; !seen {
				order = append(order, t.Name)
			}
			names[t.Name] = append(names[t.Name], t.ID)
		}
	}

	for _, name := range order {
		if ids := names[name]; len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateTrackerName,
				Description: fmt.Sprintf("Duplicate tracker name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				TrackerIDs:  ids,
			})
		}
	}
	return conflicts
}

func (v *Validator) checkRecords(categories []models.TrackerCategory, records []models.TrackerRecord, today time.Time) []Conflict {
	known := make(map[string]bool)
	for _, category := range categories {
		for _, t := range category.Trackers {
			known[t.ID] = true
		}
	}

	var conflicts []Conflict
	orphans := make(map[string]int)
	todayKey := ""
	if !today.IsZero() {
		todayKey = utils.DayKey(today)
	}

	for _, r := range records {
		if !known[r.TrackerID] {
			orphans[r.TrackerID]++
		}
		// Day keys compare lexically in date order
		if todayKey != "" && r.Day() > todayKey {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictFutureRecord,
				Description: fmt.Sprintf("Record for tracker %s is dated in the future: %s", r.TrackerID, r.Day()),
				TrackerIDs:  []string{r.TrackerID},
			})
		}
	}

	ids := make([]string, 0, len(orphans))
	for id := range orphans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictOrphanedRecords,
			Description: fmt.Sprintf("%d record(s) belong to deleted tracker %s", orphans[id], id),
			TrackerIDs:  []string{id},
		})
	}
	return conflicts
}
