// Package stats derives completion statistics from a snapshot of the ledger.
// Every function is pure and recomputes from scratch.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

// IdealMatch selects how IdealDays compares a day against the scheduled trackers.
type IdealMatch int

const (
	// IdealMatchIDSet requires the trackers completed that day to be exactly
	// the scheduled set.
	IdealMatchIDSet IdealMatch = iota
	// IdealMatchCount only compares how many trackers were completed.
	IdealMatchCount
)

// ParseIdealMatch maps a settings value to an IdealMatch.
func ParseIdealMatch(s string) (IdealMatch, error) {
	switch s {
	case "", constants.IdealDayModeIDSet:
		return IdealMatchIDSet, nil
	case constants.IdealDayModeCount:
		return IdealMatchCount, nil
	}
	return IdealMatchIDSet, fmt.Errorf("unknown ideal day mode %q (want %s or %s)",
		s, constants.IdealDayModeIDSet, constants.IdealDayModeCount)
}

func (m IdealMatch) String() string {
	if m == IdealMatchCount {
		return constants.IdealDayModeCount
	}
	return constants.IdealDayModeIDSet
}

// byDay groups the distinct tracker ids completed on each day key.
func byDay(records []models.TrackerRecord) map[string]map[string]struct{} {
	days := make(map[string]map[string]struct{})
	for _, r := range records {
		key := r.Day()
		ids, ok := days[key]
		if !ok {
			ids = make(map[string]struct{})
			days[key] = ids
		}
		ids[r.TrackerID] = struct{}{}
	}
	return days
}

// CompletedCount returns the number of completion records.
func CompletedCount(records []models.TrackerRecord) int {
	return len(records)
}

// BestStreak returns the longest run of consecutive calendar days with at
// least one completion.
func BestStreak(records []models.TrackerRecord) int {
	days := byDay(records)
	if len(days) == 0 {
		return 0
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, run := 1, 1
	prev, err := utils.ParseDayKey(keys[0])
	if err != nil {
		return 0
	}
	for _, k := range keys[1:] {
		cur, err := utils.ParseDayKey(k)
		if err != nil {
			continue
		}
		if cur.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = cur
	}
	return best
}

// IdealDays counts the days on which the scheduled trackers were all completed.
func IdealDays(records []models.TrackerRecord, scheduledIDs []string, match IdealMatch) int {
	scheduled := make(map[string]struct{}, len(scheduledIDs))
	for _, id := range scheduledIDs {
		scheduled[id] = struct{}{}
	}
	if len(scheduled) == 0 {
		return 0
	}

	ideal := 0
	for _, ids := range byDay(records) {
		if len(ids) != len(scheduled) {
			continue
		}
		if match == IdealMatchCount || sameSet(ids, scheduled) {
			ideal++
		}
	}
	return ideal
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// AverageCompletion returns completions per active day, truncated. It is 0
// when there are no records.
func AverageCompletion(records []models.TrackerRecord) int {
	days := len(byDay(records))
	if days == 0 {
		return 0
	}
	return len(records) / days
}

type Summary struct {
	CompletedCount    int `json:"completed_count" yaml:"completed_count"`
	BestStreak        int `json:"best_streak" yaml:"best_streak"`
	IdealDays         int `json:"ideal_days" yaml:"ideal_days"`
	AverageCompletion int `json:"average_completion" yaml:"average_completion"`
}

// Snapshotter supplies the records statistics are computed over.
type Snapshotter interface {
	Records() []models.TrackerRecord
}

// Engine computes statistics over the current contents of a Snapshotter.
type Engine struct {
	source Snapshotter
	match  IdealMatch
}

func New(source Snapshotter, match IdealMatch) *Engine {
	return &Engine{source: source, match: match}
}

func (e *Engine) CompletedCount() int {
	return CompletedCount(e.source.Records())
}

func (e *Engine) BestStreak() int {
	return BestStreak(e.source.Records())
}

func (e *Engine) IdealDays(scheduledIDs []string) int {
	return IdealDays(e.source.Records(), scheduledIDs, e.match)
}

func (e *Engine) AverageCompletion() int {
	return AverageCompletion(e.source.Records())
}

// Summary takes a single snapshot and computes every statistic from it.
func (e *Engine) Summary(scheduledIDs []string) Summary {
	records := e.source.Records()
	return Summary{
		CompletedCount:    CompletedCount(records),
		BestStreak:        BestStreak(records),
		IdealDays:         IdealDays(records, scheduledIDs, e.match),
		AverageCompletion: AverageCompletion(records),
	}
}
