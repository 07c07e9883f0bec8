package service

import (
	"context"
	"testing"
	"time"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNoteRepository is a function-field test double for
// [store.NoteRepository]. Only the fields a test sets are exercised; calling
// an unset method fails the invariant loudly via nil dereference.
type mockNoteRepository struct {
	saveBowelNoteFunc       func(ctx context.Context, note *models.BowelNote) error
	getBowelNoteFunc        func(ctx context.Context, id int64) (models.BowelNote, error)
	listBowelNotesFunc      func(ctx context.Context, clientID int64) ([]models.BowelNote, error)
	updateBowelNoteFunc     func(ctx context.Context, id int64, patch models.BowelNotePatch, expected, stamp time.Time) error
	softDeleteBowelNoteFunc func(ctx context.Context, id int64, expected, stamp time.Time) error

	saveFoodDiaryNoteFunc       func(ctx context.Context, note *models.FoodDiaryNote) error
	getFoodDiaryNoteFunc        func(ctx context.Context, id int64) (models.FoodDiaryNote, error)
	listFoodDiaryNotesFunc      func(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error)
	updateFoodDiaryNoteFunc     func(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, expected, stamp time.Time) error
	softDeleteFoodDiaryNoteFunc func(ctx context.Context, id int64, expected, stamp time.Time) error

	saveNightReportFunc   func(ctx context.Context, report *models.NightReport) error
	getNightReportFunc    func(ctx context.Context, id int64) (models.NightReport, error)
	listNightReportsFunc  func(ctx context.Context, clientID int64) ([]models.NightReport, error)
	updateNightReportFunc func(ctx context.Context, id int64, patch models.NightReportPatch, expected, stamp time.Time) error

	saveSleepTrackerNoteFunc   func(ctx context.Context, note *models.SleepTrackerNote) error
	getSleepTrackerNoteFunc    func(ctx context.Context, id int64) (models.SleepTrackerNote, error)
	listSleepTrackerNotesFunc  func(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error)
	updateSleepTrackerNoteFunc func(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, expected, stamp time.Time) error

	saveCaseNoteFunc       func(ctx context.Context, note *models.CaseNote) error
	getCaseNoteFunc        func(ctx context.Context, id int64) (models.CaseNote, error)
	listCaseNotesFunc      func(ctx context.Context, clientID int64) ([]models.CaseNote, error)
	updateCaseNoteFunc     func(ctx context.Context, id int64, patch models.CaseNotePatch, expected, stamp time.Time) error
	softDeleteCaseNoteFunc func(ctx context.Context, id int64, expected, stamp time.Time) error
}

func (m *mockNoteRepository) SaveBowelNote(ctx context.Context, note *models.BowelNote) error {
	return m.saveBowelNoteFunc(ctx, note)
}

func (m *mockNoteRepository) GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error) {
	return m.getBowelNoteFunc(ctx, id)
}

func (m *mockNoteRepository) ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error) {
	return m.listBowelNotesFunc(ctx, clientID)
}

func (m *mockNoteRepository) UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, expected, stamp time.Time) error {
	return m.updateBowelNoteFunc(ctx, id, patch, expected, stamp)
}

func (m *mockNoteRepository) SoftDeleteBowelNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	return m.softDeleteBowelNoteFunc(ctx, id, expected, stamp)
}

func (m *mockNoteRepository) SaveFoodDiaryNote(ctx context.Context, note *models.FoodDiaryNote) error {
	return m.saveFoodDiaryNoteFunc(ctx, note)
}

func (m *mockNoteRepository) GetFoodDiaryNote(ctx context.Context, id int64) (models.FoodDiaryNote, error) {
	return m.getFoodDiaryNoteFunc(ctx, id)
}

func (m *mockNoteRepository) ListFoodDiaryNotes(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error) {
	return m.listFoodDiaryNotesFunc(ctx, clientID, reportDate)
}

func (m *mockNoteRepository) UpdateFoodDiaryNote(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, expected, stamp time.Time) error {
	return m.updateFoodDiaryNoteFunc(ctx, id, patch, expected, stamp)
}

func (m *mockNoteRepository) SoftDeleteFoodDiaryNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	return m.softDeleteFoodDiaryNoteFunc(ctx, id, expected, stamp)
}

func (m *mockNoteRepository) SaveNightReport(ctx context.Context, report *models.NightReport) error {
	return m.saveNightReportFunc(ctx, report)
}

func (m *mockNoteRepository) GetNightReport(ctx context.Context, id int64) (models.NightReport, error) {
	return m.getNightReportFunc(ctx, id)
}

func (m *mockNoteRepository) ListNightReports(ctx context.Context, clientID int64) ([]models.NightReport, error) {
	return m.listNightReportsFunc(ctx, clientID)
}

func (m *mockNoteRepository) UpdateNightReport(ctx context.Context, id int64, patch models.NightReportPatch, expected, stamp time.Time) error {
	return m.updateNightReportFunc(ctx, id, patch, expected, stamp)
}

func (m *mockNoteRepository) SaveSleepTrackerNote(ctx context.Context, note *models.SleepTrackerNote) error {
	return m.saveSleepTrackerNoteFunc(ctx, note)
}

func (m *mockNoteRepository) GetSleepTrackerNote(ctx context.Context, id int64) (models.SleepTrackerNote, error) {
	return m.getSleepTrackerNoteFunc(ctx, id)
}

func (m *mockNoteRepository) ListSleepTrackerNotes(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error) {
	return m.listSleepTrackerNotesFunc(ctx, clientID)
}

func (m *mockNoteRepository) UpdateSleepTrackerNote(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, expected, stamp time.Time) error {
	return m.updateSleepTrackerNoteFunc(ctx, id, patch, expected, stamp)
}

func (m *mockNoteRepository) SaveCaseNote(ctx context.Context, note *models.CaseNote) error {
	return m.saveCaseNoteFunc(ctx, note)
}

func (m *mockNoteRepository) GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error) {
	return m.getCaseNoteFunc(ctx, id)
}

func (m *mockNoteRepository) ListCaseNotes(ctx context.Context, clientID int64) ([]models.CaseNote, error) {
	return m.listCaseNotesFunc(ctx, clientID)
}

func (m *mockNoteRepository) UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, expected, stamp time.Time) error {
	return m.updateCaseNoteFunc(ctx, id, patch, expected, stamp)
}

func (m *mockNoteRepository) SoftDeleteCaseNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	return m.softDeleteCaseNoteFunc(ctx, id, expected, stamp)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newNoteServiceForTest(repo *mockNoteRepository) (NoteService, *metrics.Metrics) {
	m := metrics.New()
	return NewNoteService(repo, m, fixedClock, logger.Nop()), m
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestUpdateBowelNote_AcceptedAndRestamped(t *testing.T) {
	observed := fixedNow.Add(-time.Hour)

	var gotExpected, gotStamp time.Time
	repo := &mockNoteRepository{
		updateBowelNoteFunc: func(_ context.Context, id int64, patch models.BowelNotePatch, expected, stamp time.Time) error {
			gotExpected, gotStamp = expected, stamp
			return nil
		},
		getBowelNoteFunc: func(_ context.Context, id int64) (models.BowelNote, error) {
			return models.BowelNote{ID: id, BristolType: 5, LastUpdatedAt: fixedNow}, nil
		},
	}
	svc, m := newNoteServiceForTest(repo)

	updated, err := svc.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{BristolType: intPtr(5)}, observed)

	require.NoError(t, err)
	assert.Equal(t, observed, gotExpected)
	assert.Equal(t, fixedNow, gotStamp, "accepted update must be stamped from the clock")
	assert.Equal(t, fixedNow, updated.LastUpdatedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoteUpdates.WithLabelValues("bowel", metrics.OutcomeAccepted)))
}

func TestUpdateBowelNote_ConflictPassesThrough(t *testing.T) {
	repo := &mockNoteRepository{
		updateBowelNoteFunc: func(context.Context, int64, models.BowelNotePatch, time.Time, time.Time) error {
			return store.ErrWatermarkConflict
		},
	}
	svc, m := newNoteServiceForTest(repo)

	_, err := svc.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{Notes: strPtr("x")}, fixedNow.Add(-time.Hour))

	assert.ErrorIs(t, err, store.ErrWatermarkConflict)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoteUpdates.WithLabelValues("bowel", metrics.OutcomeConflict)))
}

func TestUpdateBowelNote_MissingWatermarkRejectedBeforeStorage(t *testing.T) {
	repo := &mockNoteRepository{
		updateBowelNoteFunc: func(context.Context, int64, models.BowelNotePatch, time.Time, time.Time) error {
			t.Fatal("storage must not be reached without a watermark")
			return nil
		},
	}
	svc, _ := newNoteServiceForTest(repo)

	_, err := svc.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{Notes: strPtr("x")}, time.Time{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateBowelNote_InvalidBristolTypeRejected(t *testing.T) {
	svc, _ := newNoteServiceForTest(&mockNoteRepository{})

	_, err := svc.UpdateBowelNote(context.Background(), 7, models.BowelNotePatch{BristolType: intPtr(9)}, fixedNow)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBowelNote_Validation(t *testing.T) {
	svc, _ := newNoteServiceForTest(&mockNoteRepository{})

	err := svc.CreateBowelNote(context.Background(), &models.BowelNote{ClientID: 1, RecordedAt: fixedNow, BristolType: 0})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.CreateBowelNote(context.Background(), &models.BowelNote{ClientID: 0, RecordedAt: fixedNow, BristolType: 4})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateFoodDiaryNote_DuplicateMealPassesThrough(t *testing.T) {
	repo := &mockNoteRepository{
		saveFoodDiaryNoteFunc: func(context.Context, *models.FoodDiaryNote) error {
			return store.ErrDuplicateNote
		},
	}
	svc, _ := newNoteServiceForTest(repo)

	err := svc.CreateFoodDiaryNote(context.Background(), &models.FoodDiaryNote{
		ClientID:   3,
		ReportDate: fixedNow,
		MealType:   models.MealBreakfast,
	})

	assert.ErrorIs(t, err, store.ErrDuplicateNote)
}

func TestCreateFoodDiaryNote_UnknownMealTypeRejected(t *testing.T) {
	svc, _ := newNoteServiceForTest(&mockNoteRepository{})

	err := svc.CreateFoodDiaryNote(context.Background(), &models.FoodDiaryNote{
		ClientID:   3,
		ReportDate: fixedNow,
		MealType:   "BRUNCH",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCaseNote_NotFoundCountsOutcome(t *testing.T) {
	repo := &mockNoteRepository{
		softDeleteCaseNoteFunc: func(context.Context, int64, time.Time, time.Time) error {
			return store.ErrNoteNotFound
		},
	}
	svc, m := newNoteServiceForTest(repo)

	err := svc.DeleteCaseNote(context.Background(), 12, fixedNow.Add(-time.Minute))

	assert.ErrorIs(t, err, store.ErrNoteNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoteUpdates.WithLabelValues("case", metrics.OutcomeNotFound)))
}

func TestUpdateNightReport_EmptyPatchStillRestamps(t *testing.T) {
	var gotStamp time.Time
	repo := &mockNoteRepository{
		updateNightReportFunc: func(_ context.Context, _ int64, _ models.NightReportPatch, _, stamp time.Time) error {
			gotStamp = stamp
			return nil
		},
		getNightReportFunc: func(_ context.Context, id int64) (models.NightReport, error) {
			return models.NightReport{ID: id, LastUpdatedAt: fixedNow}, nil
		},
	}
	svc, _ := newNoteServiceForTest(repo)

	updated, err := svc.UpdateNightReport(context.Background(), 3, models.NightReportPatch{}, fixedNow.Add(-time.Hour))

	require.NoError(t, err)
	assert.Equal(t, fixedNow, gotStamp)
	assert.Equal(t, fixedNow, updated.LastUpdatedAt)
}

func TestUpdateSleepTrackerNote_NegativeWakeCountRejected(t *testing.T) {
	svc, _ := newNoteServiceForTest(&mockNoteRepository{})

	_, err := svc.UpdateSleepTrackerNote(context.Background(), 5, models.SleepTrackerNotePatch{WakeCount: intPtr(-1)}, fixedNow)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCaseNote_StampsCreatedAtFromClock(t *testing.T) {
	var saved *models.CaseNote
	repo := &mockNoteRepository{
		saveCaseNoteFunc: func(_ context.Context, note *models.CaseNote) error {
			saved = note
			return nil
		},
	}
	svc, _ := newNoteServiceForTest(repo)

	err := svc.CreateCaseNote(context.Background(), &models.CaseNote{
		ClientID:   3,
		OccurredAt: fixedNow.Add(-2 * time.Hour),
		Content:    "afternoon walk, settled mood",
	})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, saved.CreatedAt)
}
