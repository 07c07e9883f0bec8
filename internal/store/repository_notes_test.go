package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteRepository(t *testing.T) (NoteRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	log := logger.Nop()
	repo := NewNoteRepository(&DB{DB: mockDB, logger: log}, log)
	return repo, mock
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestUpdateBowelNote_Accepted(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	observed := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	stamp := observed.Add(2 * time.Minute)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(int64(7), models.TruncWatermark(observed), 4, "loose stool", models.TruncWatermark(stamp)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(int64(7), observed))

	err := repo.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{
		BristolType: intPtr(4),
		Notes:       strPtr("loose stool"),
	}, observed, stamp)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBowelNote_WatermarkConflict(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	observed := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	stored := observed.Add(45 * time.Second) // someone else wrote in between
	stamp := observed.Add(2 * time.Minute)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(int64(7), models.TruncWatermark(observed), 4, models.TruncWatermark(stamp)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(nil, stored))

	err := repo.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{
		BristolType: intPtr(4),
	}, observed, stamp)

	assert.ErrorIs(t, err, ErrWatermarkConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBowelNote_NotFound(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	observed := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	stamp := observed.Add(time.Minute)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(int64(404), models.TruncWatermark(observed), 4, models.TruncWatermark(stamp)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(nil, nil))

	err := repo.UpdateBowelNote(context.Background(), 404, models.BowelNotePatch{
		BristolType: intPtr(4),
	}, observed, stamp)

	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBowelNote_TruncatesSuppliedWatermark(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	// sub-millisecond digits from the caller must not defeat the comparison
	observed := time.Date(2026, 3, 14, 9, 26, 53, 589_654_321, time.UTC)
	stamp := observed.Add(time.Minute)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(
			int64(7),
			time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC),
			"fine",
			models.TruncWatermark(stamp),
		).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(int64(7), observed))

	err := repo.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{
		Notes: strPtr("fine"),
	}, observed, stamp)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteCaseNote_Accepted(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	observed := time.Date(2026, 5, 2, 17, 0, 0, 0, time.UTC)
	stamp := observed.Add(10 * time.Second)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(int64(12), models.TruncWatermark(observed), models.TruncWatermark(stamp)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(int64(12), observed))

	err := repo.SoftDeleteCaseNote(context.Background(), 12, observed, stamp)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteCaseNote_AlreadyDeletedReadsAsNotFound(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	observed := time.Date(2026, 5, 2, 17, 0, 0, 0, time.UTC)
	stamp := observed.Add(10 * time.Second)

	mock.ExpectQuery(`WITH target_note AS`).
		WithArgs(int64(12), models.TruncWatermark(observed), models.TruncWatermark(stamp)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_id", "current_last_updated_at"}).
			AddRow(nil, nil))

	err := repo.SoftDeleteCaseNote(context.Background(), 12, observed, stamp)

	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveFoodDiaryNote_DuplicateMeal(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	mock.ExpectQuery(`INSERT INTO food_diary_notes`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	note := models.FoodDiaryNote{
		ClientID:   3,
		ReportDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MealType:   models.MealLunch,
		Food:       "soup",
	}
	err := repo.SaveFoodDiaryNote(context.Background(), &note)

	assert.ErrorIs(t, err, ErrDuplicateNote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBowelNote_UnknownClient(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	mock.ExpectQuery(`INSERT INTO bowel_notes`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	note := models.BowelNote{
		ClientID:    999,
		RecordedAt:  time.Now(),
		BristolType: 3,
	}
	err := repo.SaveBowelNote(context.Background(), &note)

	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNightReport_StampsWatermarkFromCreatedAt(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	created := time.Date(2026, 6, 10, 7, 30, 0, 123_987_654, time.UTC)
	truncated := time.Date(2026, 6, 10, 7, 30, 0, 123_000_000, time.UTC)

	mock.ExpectQuery(`INSERT INTO night_reports`).
		WithArgs(int64(5), sqlmock.AnyArg(), "hourly checks ok", "settled", "", truncated).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	report := models.NightReport{
		ClientID:     5,
		ReportDate:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		HourlyChecks: "hourly checks ok",
		SleepQuality: "settled",
		CreatedAt:    created,
	}
	err := repo.SaveNightReport(context.Background(), &report)

	require.NoError(t, err)
	assert.Equal(t, int64(42), report.ID)
	assert.Equal(t, truncated, report.CreatedAt)
	assert.Equal(t, truncated, report.LastUpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBowelNote_NotFound(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM bowel_notes`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "recorded_at", "bristol_type", "notes",
			"deleted", "created_at", "last_updated_at",
		}))

	_, err := repo.GetBowelNote(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCaseNotes(t *testing.T) {
	repo, mock := newTestNoteRepository(t)

	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM case_notes`).
		WithArgs(int64(3), false).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "occurred_at", "category", "content",
			"deleted", "created_at", "last_updated_at",
		}).
			AddRow(int64(2), int64(3), now, "health", "GP visit", false, now, now).
			AddRow(int64(1), int64(3), now.Add(-time.Hour), "daily", "quiet afternoon", false, now, now))

	notes, err := repo.ListCaseNotes(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "GP visit", notes[0].Content)
	assert.Equal(t, "quiet afternoon", notes[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}
