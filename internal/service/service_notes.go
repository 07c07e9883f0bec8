package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
)

// noteService implements [NoteService]. It validates payloads, stamps every
// accepted mutation from the clock, and delegates the watermark comparison
// itself to the storage layer, where it runs as one atomic conditional
// UPDATE. The service never reads-then-writes: there is no window in which
// two concurrent editors can both pass the guard.
type noteService struct {
	notes   store.NoteRepository
	metrics *metrics.Metrics
	clock   Clock
	logger  *logger.Logger
}

// NewNoteService constructs a [NoteService].
func NewNoteService(notes store.NoteRepository, m *metrics.Metrics, clock Clock, log *logger.Logger) NoteService {
	log.Debug().Msg("creating note service")
	return &noteService{
		notes:   notes,
		metrics: m,
		clock:   clock,
		logger:  log,
	}
}

// observeOutcome records the guard outcome for one mutation attempt.
func (s *noteService) observeOutcome(noteType string, err error) {
	if s.metrics == nil {
		return
	}

	outcome := metrics.OutcomeAccepted
	switch {
	case errors.Is(err, store.ErrWatermarkConflict):
		outcome = metrics.OutcomeConflict
	case errors.Is(err, store.ErrNoteNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		return
	}
	s.metrics.NoteUpdates.WithLabelValues(noteType, outcome).Inc()
}

func validBristolType(t int) bool {
	return t >= 1 && t <= 7
}

// requireWatermark rejects mutation requests that omit the observed
// watermark. A zero watermark would silently read as "note never updated"
// and defeat the guard.
func requireWatermark(observed time.Time) error {
	if observed.IsZero() {
		return fmt.Errorf("%w: currentLastUpdatedAt is required", ErrValidation)
	}
	return nil
}

// ─────────────────────────────────────────────
// Bowel notes
// ─────────────────────────────────────────────

func (s *noteService) CreateBowelNote(ctx context.Context, note *models.BowelNote) error {
	if note.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if note.RecordedAt.IsZero() {
		return fmt.Errorf("%w: recordedAt is required", ErrValidation)
	}
	if !validBristolType(note.BristolType) {
		return fmt.Errorf("%w: bristolType must be between 1 and 7", ErrValidation)
	}

	note.CreatedAt = s.clock()
	return s.notes.SaveBowelNote(ctx, note)
}

func (s *noteService) GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error) {
	return s.notes.GetBowelNote(ctx, id)
}

func (s *noteService) ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error) {
	return s.notes.ListBowelNotes(ctx, clientID)
}

func (s *noteService) UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error) {
	if err := requireWatermark(observed); err != nil {
		return models.BowelNote{}, err
	}
	if patch.BristolType != nil && !validBristolType(*patch.BristolType) {
		return models.BowelNote{}, fmt.Errorf("%w: bristolType must be between 1 and 7", ErrValidation)
	}

	err := s.notes.UpdateBowelNote(ctx, id, patch, observed, s.clock())
	s.observeOutcome("bowel", err)
	if err != nil {
		return models.BowelNote{}, err
	}

	return s.notes.GetBowelNote(ctx, id)
}

func (s *noteService) DeleteBowelNote(ctx context.Context, id int64, observed time.Time) error {
	if err := requireWatermark(observed); err != nil {
		return err
	}

	err := s.notes.SoftDeleteBowelNote(ctx, id, observed, s.clock())
	s.observeOutcome("bowel", err)
	return err
}

// ─────────────────────────────────────────────
// Food diary notes
// ─────────────────────────────────────────────

func (s *noteService) CreateFoodDiaryNote(ctx context.Context, note *models.FoodDiaryNote) error {
	if note.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if note.ReportDate.IsZero() {
		return fmt.Errorf("%w: reportDate is required", ErrValidation)
	}
	if !note.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrValidation, note.MealType)
	}

	note.CreatedAt = s.clock()
	return s.notes.SaveFoodDiaryNote(ctx, note)
}

func (s *noteService) GetFoodDiaryNote(ctx context.Context, id int64) (models.FoodDiaryNote, error) {
	return s.notes.GetFoodDiaryNote(ctx, id)
}

func (s *noteService) ListFoodDiaryNotes(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error) {
	return s.notes.ListFoodDiaryNotes(ctx, clientID, reportDate)
}

func (s *noteService) UpdateFoodDiaryNote(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, observed time.Time) (models.FoodDiaryNote, error) {
	if err := requireWatermark(observed); err != nil {
		return models.FoodDiaryNote{}, err
	}

	err := s.notes.UpdateFoodDiaryNote(ctx, id, patch, observed, s.clock())
	s.observeOutcome("food_diary", err)
	if err != nil {
		return models.FoodDiaryNote{}, err
	}

	return s.notes.GetFoodDiaryNote(ctx, id)
}

func (s *noteService) DeleteFoodDiaryNote(ctx context.Context, id int64, observed time.Time) error {
	if err := requireWatermark(observed); err != nil {
		return err
	}

	err := s.notes.SoftDeleteFoodDiaryNote(ctx, id, observed, s.clock())
	s.observeOutcome("food_diary", err)
	return err
}

// ─────────────────────────────────────────────
// Night reports
// ─────────────────────────────────────────────

func (s *noteService) CreateNightReport(ctx context.Context, report *models.NightReport) error {
	if report.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if report.ReportDate.IsZero() {
		return fmt.Errorf("%w: reportDate is required", ErrValidation)
	}

	report.CreatedAt = s.clock()
	return s.notes.SaveNightReport(ctx, report)
}

func (s *noteService) GetNightReport(ctx context.Context, id int64) (models.NightReport, error) {
	return s.notes.GetNightReport(ctx, id)
}

func (s *noteService) ListNightReports(ctx context.Context, clientID int64) ([]models.NightReport, error) {
	return s.notes.ListNightReports(ctx, clientID)
}

func (s *noteService) UpdateNightReport(ctx context.Context, id int64, patch models.NightReportPatch, observed time.Time) (models.NightReport, error) {
	if err := requireWatermark(observed); err != nil {
		return models.NightReport{}, err
	}

	err := s.notes.UpdateNightReport(ctx, id, patch, observed, s.clock())
	s.observeOutcome("night_report", err)
	if err != nil {
		return models.NightReport{}, err
	}

	return s.notes.GetNightReport(ctx, id)
}

// ─────────────────────────────────────────────
// Sleep tracker notes
// ─────────────────────────────────────────────

func (s *noteService) CreateSleepTrackerNote(ctx context.Context, note *models.SleepTrackerNote) error {
	if note.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if note.ReportDate.IsZero() {
		return fmt.Errorf("%w: reportDate is required", ErrValidation)
	}
	if note.BedTime.IsZero() || note.WakeTime.IsZero() {
		return fmt.Errorf("%w: bedTime and wakeTime are required", ErrValidation)
	}
	if note.WakeCount < 0 {
		return fmt.Errorf("%w: wakeCount cannot be negative", ErrValidation)
	}

	note.CreatedAt = s.clock()
	return s.notes.SaveSleepTrackerNote(ctx, note)
}

func (s *noteService) GetSleepTrackerNote(ctx context.Context, id int64) (models.SleepTrackerNote, error) {
	return s.notes.GetSleepTrackerNote(ctx, id)
}

func (s *noteService) ListSleepTrackerNotes(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error) {
	return s.notes.ListSleepTrackerNotes(ctx, clientID)
}

func (s *noteService) UpdateSleepTrackerNote(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, observed time.Time) (models.SleepTrackerNote, error) {
	if err := requireWatermark(observed); err != nil {
		return models.SleepTrackerNote{}, err
	}
	if patch.WakeCount != nil && *patch.WakeCount < 0 {
		return models.SleepTrackerNote{}, fmt.Errorf("%w: wakeCount cannot be negative", ErrValidation)
	}

	err := s.notes.UpdateSleepTrackerNote(ctx, id, patch, observed, s.clock())
	s.observeOutcome("sleep_tracker", err)
	if err != nil {
		return models.SleepTrackerNote{}, err
	}

	return s.notes.GetSleepTrackerNote(ctx, id)
}

// ─────────────────────────────────────────────
// Case notes
// ─────────────────────────────────────────────

func (s *noteService) CreateCaseNote(ctx context.Context, note *models.CaseNote) error {
	if note.ClientID <= 0 {
		return fmt.Errorf("%w: clientId is required", ErrValidation)
	}
	if note.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurredAt is required", ErrValidation)
	}
	if note.Content == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}

	note.CreatedAt = s.clock()
	return s.notes.SaveCaseNote(ctx, note)
}

func (s *noteService) GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error) {
	return s.notes.GetCaseNote(ctx, id)
}

func (s *noteService) ListCaseNotes(ctx context.Context, clientID int64) ([]models.CaseNote, error) {
	return s.notes.ListCaseNotes(ctx, clientID)
}

func (s *noteService) UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, observed time.Time) (models.CaseNote, error) {
	if err := requireWatermark(observed); err != nil {
		return models.CaseNote{}, err
	}
	if patch.Content != nil && *patch.Content == "" {
		return models.CaseNote{}, fmt.Errorf("%w: content cannot be emptied", ErrValidation)
	}

	err := s.notes.UpdateCaseNote(ctx, id, patch, observed, s.clock())
	s.observeOutcome("case", err)
	if err != nil {
		return models.CaseNote{}, err
	}

	return s.notes.GetCaseNote(ctx, id)
}

func (s *noteService) DeleteCaseNote(ctx context.Context, id int64, observed time.Time) error {
	if err := requireWatermark(observed); err != nil {
		return err
	}

	err := s.notes.SoftDeleteCaseNote(ctx, id, observed, s.clock())
	s.observeOutcome("case", err)
	return err
}
