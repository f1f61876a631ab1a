package postgres

import (
	"time"

	"github.com/julianstephens/tracker/internal/models"
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
		var day time.Time
		if err := rows.Scan(&r.TrackerID, &day); err != nil {
			return nil, err
		}
		// DATE columns arrive as midnight UTC; rebuild the same calendar day locally
		r.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) SaveCompletionRecord(record models.TrackerRecord) error {
	_, err := s.db.Exec(`
INSERT INTO tracker_records (tracker_id, day) VALUES ($1, $2)
ON CONFLICT (tracker_id, day) DO NOTHING`,
		record.TrackerID, record.Day())
	return err
}

func (s *Store) DeleteCompletionRecord(trackerID string, date time.Time) error {
	_, err := s.db.Exec("DELETE FROM tracker_records WHERE tracker_id = $1 AND day = $2",
		trackerID, models.TrackerRecord{TrackerID: trackerID, Date: date}.Day())
	return err
}
