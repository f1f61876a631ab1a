package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

func (s *Store) LoadCompletionRecords() ([]models.TrackerRecord, error) {
	rows, err := s.db.Query("SELECT tracker_id, day FROM tracker_records ORDER BY day, tracker_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TrackerRecord
	for rows.Next() {
		var r models.TrackerRecord
		var day string
		if err := rows.Scan(&r.TrackerID, &day); err != nil {
			return nil, err
		}
		r.Date, err = utils.ParseDateInLocation(day, s.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day for record %s/%s: %w", r.TrackerID, day, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) SaveCompletionRecord(record models.TrackerRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO tracker_records (tracker_id, day, created_at) VALUES (?, ?, ?)
		ON CONFLICT(tracker_id, day) DO NOTHING`,
		record.TrackerID, record.Day(), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) DeleteCompletionRecord(trackerID string, date time.Time) error {
	_, err := s.db.Exec("DELETE FROM tracker_records WHERE tracker_id = ? AND day = ?",
		trackerID, date.Format(constants.DateFormat))
	return err
}
