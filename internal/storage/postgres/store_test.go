package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracker/internal/models"
)

var trackerCols = []string{"id", "name", "color", "emoji", "schedule_mask", "category_title", "created_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewWithDB(db)
	s.SetLocation(time.UTC)
	return s, mock
}

func TestLoadTrackers(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM trackers").
		WillReturnRows(sqlmock.NewRows(trackerCols).
			AddRow("t1", "Run", "#ff0000", "🏃", int64(5), "Health", created).
			AddRow("t2", "Dentist", "", "", nil, "Health", created))

	trackers, err := s.LoadTrackers()
	require.NoError(t, err)
	require.Len(t, trackers, 2)

	days, ok := trackers[0].Schedule()
	require.True(t, ok)
	assert.True(t, days.Has(models.Monday))
	assert.True(t, days.Has(models.Wednesday))
	assert.False(t, days.Has(models.Tuesday))
	assert.True(t, trackers[1].IsIrregular())
	assert.True(t, trackers[0].CreatedAt.Equal(created))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTrackersRejectsEmptyMask(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM trackers").
		WillReturnRows(sqlmock.NewRows(trackerCols).
			AddRow("t1", "Run", "", "", int64(0), "Health", time.Now()))

	_, err := s.LoadTrackers()
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCategories(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT title FROM categories").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Health").AddRow("Work"))
	mock.ExpectQuery("SELECT (.+) FROM trackers").
		WillReturnRows(sqlmock.NewRows(trackerCols).
			AddRow("t1", "Run", "", "", int64(127), "Health", time.Now()))

	categories, err := s.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Health", categories[0].Title)
	assert.Len(t, categories[0].Trackers, 1)
	assert.Empty(t, categories[1].Trackers)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCategoriesMissingCategory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT title FROM categories").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Health"))
	mock.ExpectQuery("SELECT (.+) FROM trackers").
		WillReturnRows(sqlmock.NewRows(trackerCols).
			AddRow("t1", "Run", "", "", nil, "Gone", time.Now()))

	_, err := s.LoadCategories()
	assert.Error(t, err)
}

func TestSaveTrackerUpsertsInTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	tracker := models.Tracker{
		ID:         "t1",
		Name:       "Run",
		Recurrence: models.Weekly{Days: models.NewWeekDaySet(models.Monday)},
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Health").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO trackers").
		WithArgs("t1", "Run", "", "", int64(1), "Health", tracker.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveTracker(tracker, "Health"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTrackerRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	tracker := models.Tracker{ID: "t1", Name: "Run", Recurrence: models.Irregular{}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO trackers").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.SaveTracker(tracker, "Health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTrackerNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM trackers WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteTracker("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryNotFoundRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM trackers WHERE category_title").
		WithArgs("Nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM categories").
		WithArgs("Nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.Error(t, s.DeleteCategory("Nope"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletionRecords(t *testing.T) {
	s, mock := newMockStore(t)
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s.SetLocation(loc)

	mock.ExpectQuery("SELECT tracker_id, day FROM tracker_records").
		WillReturnRows(sqlmock.NewRows([]string{"tracker_id", "day"}).
			AddRow("t1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	records, err := s.LoadCompletionRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-02", records[0].Day())
	assert.Equal(t, loc, records[0].Date.Location())

	day := time.Date(2024, 1, 3, 21, 30, 0, 0, loc)
	mock.ExpectExec("INSERT INTO tracker_records").
		WithArgs("t1", "2024-01-03").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.SaveCompletionRecord(models.TrackerRecord{TrackerID: "t1", Date: day}))

	mock.ExpectExec("DELETE FROM tracker_records").
		WithArgs("t1", "2024-01-03").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.DeleteCompletionRecord("t1", day))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorsPropagate(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT tracker_id, day FROM tracker_records").WillReturnError(boom)
	_, err := s.LoadCompletionRecords()
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT tracker_id, category_title FROM pin_origins").WillReturnError(boom)
	_, err = s.LoadPinOrigins()
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPinOrigins(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO pin_origins").
		WithArgs("t1", "Health").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.SavePinOrigin("t1", "Health"))

	mock.ExpectQuery("SELECT tracker_id, category_title FROM pin_origins").
		WillReturnRows(sqlmock.NewRows([]string{"tracker_id", "category_title"}).AddRow("t1", "Health"))
	origins, err := s.LoadPinOrigins()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"t1": "Health"}, origins)

	mock.ExpectExec("DELETE FROM pin_origins").
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.DeletePinOrigin("t1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
