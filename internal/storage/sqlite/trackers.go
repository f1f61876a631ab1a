package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/models"
)

const trackerColumns = "id, name, color, emoji, schedule_mask, category_title, created_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTracker reads one trackers row and returns the tracker and its category title.
func scanTracker(row rowScanner) (models.Tracker, string, error) {
	var t models.Tracker
	var mask sql.NullInt64
	var category, createdAt string

	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Emoji, &mask, &category, &createdAt); err != nil {
		return models.Tracker{}, "", err
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Tracker{}, "", fmt.Errorf("failed to parse created_at for tracker %s: %w", t.ID, err)
	}
	t.CreatedAt = created

	if !mask.Valid {
		t.Recurrence = models.Irregular{}
	} else {
		days := models.WeekDaySet(mask.Int64)
		if days.IsEmpty() {
			return models.Tracker{}, "", fmt.Errorf("tracker %s has an empty schedule", t.ID)
		}
		t.Recurrence = models.Weekly{Days: days}
	}

	return t, category, nil
}

func scheduleMask(t models.Tracker) sql.NullInt64 {
	if days, ok := t.Schedule(); ok {
		return sql.NullInt64{Int64: int64(days), Valid: true}
	}
	return sql.NullInt64{}
}

func (s *Store) LoadTrackers() ([]models.Tracker, error) {
	rows, err := s.db.Query("SELECT " + trackerColumns + " FROM trackers ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []models.Tracker
	for rows.Next() {
		t, _, err := scanTracker(rows)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

func (s *Store) LoadCategories() ([]models.TrackerCategory, error) {
	rows, err := s.db.Query("SELECT title FROM categories ORDER BY title")
	if err != nil {
		return nil, err
	}

	var categories []models.TrackerCategory
	index := make(map[string]int)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			rows.Close()
			return nil, err
		}
		index[title] = len(categories)
		categories = append(categories, models.TrackerCategory{Title: title})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	trackerRows, err := s.db.Query("SELECT " + trackerColumns + " FROM trackers ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer trackerRows.Close()

	for trackerRows.Next() {
		t, category, err := scanTracker(trackerRows)
		if err != nil {
			return nil, err
		}
		i, ok := index[category]
		if !ok {
			return nil, fmt.Errorf("tracker %s references missing category %q", t.ID, category)
		}
		categories[i].Trackers = append(categories[i].Trackers, t)
	}

	return categories, trackerRows.Err()
}

func (s *Store) SaveTracker(tracker models.Tracker, categoryTitle string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if err := ensureCategory(tx, categoryTitle); err != nil {
		_ = tx.Rollback()
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO trackers (`+trackerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			emoji = excluded.emoji,
			schedule_mask = excluded.schedule_mask,
			category_title = excluded.category_title`,
		tracker.ID, tracker.Name, tracker.Color, tracker.Emoji, scheduleMask(tracker),
		categoryTitle, tracker.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *Store) DeleteTracker(id string) error {
	result, err := s.db.Exec("DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("tracker %s not found", id)
	}

	return nil
}

func ensureCategory(tx *sql.Tx, title string) error {
	_, err := tx.Exec(`
		INSERT INTO categories (title, created_at) VALUES (?, ?)
		ON CONFLICT(title) DO NOTHING`,
		title, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) SaveCategory(category models.TrackerCategory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if err := ensureCategory(tx, category.Title); err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, t := range category.Trackers {
		_, err := tx.Exec(`
			INSERT INTO trackers (`+trackerColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET category_title = excluded.category_title`,
			t.ID, t.Name, t.Color, t.Emoji, scheduleMask(t),
			category.Title, t.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) DeleteCategory(title string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM trackers WHERE category_title = ?", title); err != nil {
		_ = tx.Rollback()
		return err
	}

	result, err := tx.Exec("DELETE FROM categories WHERE title = ?", title)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("category %q not found", title)
	}

	return tx.Commit()
}

func (s *Store) LoadPinOrigins() (map[string]string, error) {
	rows, err := s.db.Query("SELECT tracker_id, category_title FROM pin_origins")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	origins := make(map[string]string)
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		origins[id] = title
	}
	return origins, rows.Err()
}

func (s *Store) SavePinOrigin(trackerID, categoryTitle string) error {
	_, err := s.db.Exec(`
		INSERT INTO pin_origins (tracker_id, category_title) VALUES (?, ?)
		ON CONFLICT(tracker_id) DO UPDATE SET category_title = excluded.category_title`,
		trackerID, categoryTitle)
	return err
}

func (s *Store) DeletePinOrigin(trackerID string) error {
	_, err := s.db.Exec("DELETE FROM pin_origins WHERE tracker_id = ?", trackerID)
	return err
}
