package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/models"
)

// noteRepository is the PostgreSQL-backed implementation of [NoteRepository].
// It owns all versioned-note tables and implements the optimistic update
// guard as a single conditional UPDATE per mutation.
//
// Every mutation follows the same contract: the caller supplies the
// lastUpdatedAt watermark it last observed, both sides are truncated to
// millisecond precision, and the UPDATE applies only when they match. The
// CTE returns (updated id, current watermark) so "not found" and "watermark
// conflict" are distinguished in one round trip:
//   - both NULL            → the note does not exist → [ErrNoteNotFound]
//   - updated id NULL only → the watermark moved     → [ErrWatermarkConflict]
type noteRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection and logger.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	return &noteRepository{
		db:     db,
		logger: logger,
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// noteCASQuery builds the conditional-update CTE for one versioned-note
// table. Placeholders $1 (id) and $2 (expected watermark) are reserved;
// setClauses number their own arguments from $3 upwards. Soft-deletable
// tables additionally exclude flagged rows, so a soft-deleted note reads
// as not found rather than as a conflict.
func noteCASQuery(table string, softDelete bool, setClauses []string) string {
	filter := ""
	if softDelete {
		filter = " AND NOT deleted"
	}

	return fmt.Sprintf(`
	WITH target_note AS (
		SELECT id, last_updated_at
		FROM %[1]s
		WHERE id = $1%[2]s
	),
	updated_note AS (
		UPDATE %[1]s
		SET %[3]s
		WHERE id = $1%[2]s AND date_trunc('milliseconds', last_updated_at) = $2
		RETURNING id
	)
	SELECT
		(SELECT id FROM updated_note)             AS updated_id,
		(SELECT last_updated_at FROM target_note) AS current_last_updated_at`,
		table, filter, strings.Join(setClauses, ", "))
}

// execCAS runs a conditional note update and maps the CTE outcome onto the
// repository error taxonomy. Exactly one write happens on success; on
// rejection the row is untouched.
func (r *noteRepository) execCAS(ctx context.Context, table string, softDelete bool, id int64, expected time.Time, setClauses []string, args []any) error {
	log := logger.FromContext(ctx)

	query := noteCASQuery(table, softDelete, setClauses)
	queryArgs := append([]any{id, models.TruncWatermark(expected)}, args...)

	var updatedID *int64
	var currentWatermark *time.Time

	queryRowErr := r.db.QueryRowContext(ctx, query, queryArgs...).Scan(&updatedID, &currentWatermark)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "noteRepository.execCAS").
			Str("table", table).
			Int64("id", id).
			Msg("failed to execute conditional update query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// not found: target_note empty -> both NULL
	if currentWatermark == nil {
		log.Warn().
			Str("func", "noteRepository.execCAS").
			Str("table", table).
			Int64("id", id).
			Msg("note not found")
		return fmt.Errorf("%w: %s id %d", ErrNoteNotFound, table, id)
	}

	// found but not updated -> watermark mismatch
	if updatedID == nil {
		log.Warn().
			Str("func", "noteRepository.execCAS").
			Str("table", table).
			Int64("id", id).
			Time("stored_watermark", *currentWatermark).
			Time("supplied_watermark", expected).
			Msg("optimistic lock failed: watermark mismatch")
		return fmt.Errorf("failed to update %s id %d: %w", table, id, ErrWatermarkConflict)
	}

	return nil
}

// stampClause appends the mandatory last_updated_at re-stamp to a SET clause
// list. Every accepted update moves the watermark.
func stampClause(set []string, args []any, argIndex int, stamp time.Time) ([]string, []any) {
	set = append(set, fmt.Sprintf("last_updated_at = $%d", argIndex))
	args = append(args, models.TruncWatermark(stamp))
	return set, args
}

// ─────────────────────────────────────────────
// Bowel notes
// ─────────────────────────────────────────────

const saveBowelNote = `INSERT INTO bowel_notes (client_id, recorded_at, bristol_type, notes, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	RETURNING id;`

func (r *noteRepository) SaveBowelNote(ctx context.Context, note *models.BowelNote) error {
	log := logger.FromContext(ctx)

	note.CreatedAt = models.TruncWatermark(note.CreatedAt)
	note.LastUpdatedAt = note.CreatedAt

	err := r.db.QueryRowContext(ctx, saveBowelNote,
		note.ClientID, note.RecordedAt, note.BristolType, note.Notes, note.CreatedAt,
	).Scan(&note.ID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveBowelNote").
			Int64("client_id", note.ClientID).
			Msg("failed to save bowel note")
		return r.classifySaveError(err)
	}

	return nil
}

func (r *noteRepository) GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error) {
	query, args, err := psql.
		Select("id", "client_id", "recorded_at", "bristol_type", "notes", "deleted", "created_at", "last_updated_at").
		From("bowel_notes").
		Where(sq.Eq{"id": id, "deleted": false}).
		ToSql()
	if err != nil {
		return models.BowelNote{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var note models.BowelNote
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID, &note.ClientID, &note.RecordedAt, &note.BristolType, &note.Notes,
		&note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
	)
	if scanErr != nil {
		return models.BowelNote{}, r.classifyGetError(ctx, scanErr, "bowel_notes", id)
	}

	return note, nil
}

func (r *noteRepository) ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "client_id", "recorded_at", "bristol_type", "notes", "deleted", "created_at", "last_updated_at").
		From("bowel_notes").
		Where(sq.Eq{"client_id": clientID, "deleted": false}).
		OrderBy("recorded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.ListBowelNotes").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing bowel notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	notes := make([]models.BowelNote, 0, 20)
	for rows.Next() {
		var note models.BowelNote
		scanErr := rows.Scan(
			&note.ID, &note.ClientID, &note.RecordedAt, &note.BristolType, &note.Notes,
			&note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (r *noteRepository) UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, expected, stamp time.Time) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	argIndex := 3

	if patch.RecordedAt != nil {
		set = append(set, fmt.Sprintf("recorded_at = $%d", argIndex))
		args = append(args, *patch.RecordedAt)
		argIndex++
	}
	if patch.BristolType != nil {
		set = append(set, fmt.Sprintf("bristol_type = $%d", argIndex))
		args = append(args, *patch.BristolType)
		argIndex++
	}
	if patch.Notes != nil {
		set = append(set, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}
	set, args = stampClause(set, args, argIndex, stamp)

	return r.execCAS(ctx, "bowel_notes", true, id, expected, set, args)
}

func (r *noteRepository) SoftDeleteBowelNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	set := []string{"deleted = TRUE"}
	args := make([]any, 0, 1)
	set, args = stampClause(set, args, 3, stamp)

	return r.execCAS(ctx, "bowel_notes", true, id, expected, set, args)
}

// ─────────────────────────────────────────────
// Food diary notes
// ─────────────────────────────────────────────

const saveFoodDiaryNote = `INSERT INTO food_diary_notes (client_id, report_date, meal_type, food, drink, notes, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	RETURNING id;`

func (r *noteRepository) SaveFoodDiaryNote(ctx context.Context, note *models.FoodDiaryNote) error {
	log := logger.FromContext(ctx)

	note.CreatedAt = models.TruncWatermark(note.CreatedAt)
	note.LastUpdatedAt = note.CreatedAt

	err := r.db.QueryRowContext(ctx, saveFoodDiaryNote,
		note.ClientID, note.ReportDate, note.MealType, note.Food, note.Drink, note.Notes, note.CreatedAt,
	).Scan(&note.ID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveFoodDiaryNote").
			Int64("client_id", note.ClientID).
			Str("meal_type", string(note.MealType)).
			Msg("failed to save food diary note")
		return r.classifySaveError(err)
	}

	return nil
}

func (r *noteRepository) GetFoodDiaryNote(ctx context.Context, id int64) (models.FoodDiaryNote, error) {
	query, args, err := psql.
		Select("id", "client_id", "report_date", "meal_type", "food", "drink", "notes", "deleted", "created_at", "last_updated_at").
		From("food_diary_notes").
		Where(sq.Eq{"id": id, "deleted": false}).
		ToSql()
	if err != nil {
		return models.FoodDiaryNote{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var note models.FoodDiaryNote
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID, &note.ClientID, &note.ReportDate, &note.MealType, &note.Food, &note.Drink,
		&note.Notes, &note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
	)
	if scanErr != nil {
		return models.FoodDiaryNote{}, r.classifyGetError(ctx, scanErr, "food_diary_notes", id)
	}

	return note, nil
}

func (r *noteRepository) ListFoodDiaryNotes(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error) {
	log := logger.FromContext(ctx)

	builder := psql.
		Select("id", "client_id", "report_date", "meal_type", "food", "drink", "notes", "deleted", "created_at", "last_updated_at").
		From("food_diary_notes").
		Where(sq.Eq{"client_id": clientID, "deleted": false}).
		OrderBy("report_date DESC", "meal_type ASC")
	if !reportDate.IsZero() {
		builder = builder.Where(sq.Eq{"report_date": reportDate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.ListFoodDiaryNotes").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing food diary notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	notes := make([]models.FoodDiaryNote, 0, 8)
	for rows.Next() {
		var note models.FoodDiaryNote
		scanErr := rows.Scan(
			&note.ID, &note.ClientID, &note.ReportDate, &note.MealType, &note.Food, &note.Drink,
			&note.Notes, &note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (r *noteRepository) UpdateFoodDiaryNote(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, expected, stamp time.Time) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	argIndex := 3

	if patch.Food != nil {
		set = append(set, fmt.Sprintf("food = $%d", argIndex))
		args = append(args, *patch.Food)
		argIndex++
	}
	if patch.Drink != nil {
		set = append(set, fmt.Sprintf("drink = $%d", argIndex))
		args = append(args, *patch.Drink)
		argIndex++
	}
	if patch.Notes != nil {
		set = append(set, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}
	set, args = stampClause(set, args, argIndex, stamp)

	return r.execCAS(ctx, "food_diary_notes", true, id, expected, set, args)
}

func (r *noteRepository) SoftDeleteFoodDiaryNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	set := []string{"deleted = TRUE"}
	args := make([]any, 0, 1)
	set, args = stampClause(set, args, 3, stamp)

	return r.execCAS(ctx, "food_diary_notes", true, id, expected, set, args)
}

// ─────────────────────────────────────────────
// Night reports
// ─────────────────────────────────────────────

const saveNightReport = `INSERT INTO night_reports (client_id, report_date, hourly_checks, sleep_quality, notes, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	RETURNING id;`

func (r *noteRepository) SaveNightReport(ctx context.Context, report *models.NightReport) error {
	log := logger.FromContext(ctx)

	report.CreatedAt = models.TruncWatermark(report.CreatedAt)
	report.LastUpdatedAt = report.CreatedAt

	err := r.db.QueryRowContext(ctx, saveNightReport,
		report.ClientID, report.ReportDate, report.HourlyChecks, report.SleepQuality, report.Notes, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveNightReport").
			Int64("client_id", report.ClientID).
			Msg("failed to save night report")
		return r.classifySaveError(err)
	}

	return nil
}

func (r *noteRepository) GetNightReport(ctx context.Context, id int64) (models.NightReport, error) {
	query, args, err := psql.
		Select("id", "client_id", "report_date", "hourly_checks", "sleep_quality", "notes", "created_at", "last_updated_at").
		From("night_reports").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.NightReport{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var report models.NightReport
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&report.ID, &report.ClientID, &report.ReportDate, &report.HourlyChecks,
		&report.SleepQuality, &report.Notes, &report.CreatedAt, &report.LastUpdatedAt,
	)
	if scanErr != nil {
		return models.NightReport{}, r.classifyGetError(ctx, scanErr, "night_reports", id)
	}

	return report, nil
}

func (r *noteRepository) ListNightReports(ctx context.Context, clientID int64) ([]models.NightReport, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "client_id", "report_date", "hourly_checks", "sleep_quality", "notes", "created_at", "last_updated_at").
		From("night_reports").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("report_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.ListNightReports").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing night reports")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	reports := make([]models.NightReport, 0, 20)
	for rows.Next() {
		var report models.NightReport
		scanErr := rows.Scan(
			&report.ID, &report.ClientID, &report.ReportDate, &report.HourlyChecks,
			&report.SleepQuality, &report.Notes, &report.CreatedAt, &report.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		reports = append(reports, report)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return reports, nil
}

func (r *noteRepository) UpdateNightReport(ctx context.Context, id int64, patch models.NightReportPatch, expected, stamp time.Time) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	argIndex := 3

	if patch.HourlyChecks != nil {
		set = append(set, fmt.Sprintf("hourly_checks = $%d", argIndex))
		args = append(args, *patch.HourlyChecks)
		argIndex++
	}
	if patch.SleepQuality != nil {
		set = append(set, fmt.Sprintf("sleep_quality = $%d", argIndex))
		args = append(args, *patch.SleepQuality)
		argIndex++
	}
	if patch.Notes != nil {
		set = append(set, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}
	set, args = stampClause(set, args, argIndex, stamp)

	return r.execCAS(ctx, "night_reports", false, id, expected, set, args)
}

// ─────────────────────────────────────────────
// Sleep tracker notes
// ─────────────────────────────────────────────

const saveSleepTrackerNote = `INSERT INTO sleep_tracker_notes (client_id, report_date, bed_time, wake_time, wake_count, notes, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	RETURNING id;`

func (r *noteRepository) SaveSleepTrackerNote(ctx context.Context, note *models.SleepTrackerNote) error {
	log := logger.FromContext(ctx)

	note.CreatedAt = models.TruncWatermark(note.CreatedAt)
	note.LastUpdatedAt = note.CreatedAt

	err := r.db.QueryRowContext(ctx, saveSleepTrackerNote,
		note.ClientID, note.ReportDate, note.BedTime, note.WakeTime, note.WakeCount, note.Notes, note.CreatedAt,
	).Scan(&note.ID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveSleepTrackerNote").
			Int64("client_id", note.ClientID).
			Msg("failed to save sleep tracker note")
		return r.classifySaveError(err)
	}

	return nil
}

func (r *noteRepository) GetSleepTrackerNote(ctx context.Context, id int64) (models.SleepTrackerNote, error) {
	query, args, err := psql.
		Select("id", "client_id", "report_date", "bed_time", "wake_time", "wake_count", "notes", "created_at", "last_updated_at").
		From("sleep_tracker_notes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SleepTrackerNote{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var note models.SleepTrackerNote
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID, &note.ClientID, &note.ReportDate, &note.BedTime, &note.WakeTime,
		&note.WakeCount, &note.Notes, &note.CreatedAt, &note.LastUpdatedAt,
	)
	if scanErr != nil {
		return models.SleepTrackerNote{}, r.classifyGetError(ctx, scanErr, "sleep_tracker_notes", id)
	}

	return note, nil
}

func (r *noteRepository) ListSleepTrackerNotes(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "client_id", "report_date", "bed_time", "wake_time", "wake_count", "notes", "created_at", "last_updated_at").
		From("sleep_tracker_notes").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("report_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.ListSleepTrackerNotes").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing sleep tracker notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	notes := make([]models.SleepTrackerNote, 0, 20)
	for rows.Next() {
		var note models.SleepTrackerNote
		scanErr := rows.Scan(
			&note.ID, &note.ClientID, &note.ReportDate, &note.BedTime, &note.WakeTime,
			&note.WakeCount, &note.Notes, &note.CreatedAt, &note.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (r *noteRepository) UpdateSleepTrackerNote(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, expected, stamp time.Time) error {
	set := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argIndex := 3

	if patch.BedTime != nil {
		set = append(set, fmt.Sprintf("bed_time = $%d", argIndex))
		args = append(args, *patch.BedTime)
		argIndex++
	}
	if patch.WakeTime != nil {
		set = append(set, fmt.Sprintf("wake_time = $%d", argIndex))
		args = append(args, *patch.WakeTime)
		argIndex++
	}
	if patch.WakeCount != nil {
		set = append(set, fmt.Sprintf("wake_count = $%d", argIndex))
		args = append(args, *patch.WakeCount)
		argIndex++
	}
	if patch.Notes != nil {
		set = append(set, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}
	set, args = stampClause(set, args, argIndex, stamp)

	return r.execCAS(ctx, "sleep_tracker_notes", false, id, expected, set, args)
}

// ─────────────────────────────────────────────
// Case notes
// ─────────────────────────────────────────────

const saveCaseNote = `INSERT INTO case_notes (client_id, occurred_at, category, content, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	RETURNING id;`

func (r *noteRepository) SaveCaseNote(ctx context.Context, note *models.CaseNote) error {
	log := logger.FromContext(ctx)

	note.CreatedAt = models.TruncWatermark(note.CreatedAt)
	note.LastUpdatedAt = note.CreatedAt

	err := r.db.QueryRowContext(ctx, saveCaseNote,
		note.ClientID, note.OccurredAt, note.Category, note.Content, note.CreatedAt,
	).Scan(&note.ID)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.SaveCaseNote").
			Int64("client_id", note.ClientID).
			Msg("failed to save case note")
		return r.classifySaveError(err)
	}

	return nil
}

func (r *noteRepository) GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error) {
	query, args, err := psql.
		Select("id", "client_id", "occurred_at", "category", "content", "deleted", "created_at", "last_updated_at").
		From("case_notes").
		Where(sq.Eq{"id": id, "deleted": false}).
		ToSql()
	if err != nil {
		return models.CaseNote{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var note models.CaseNote
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&note.ID, &note.ClientID, &note.OccurredAt, &note.Category, &note.Content,
		&note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
	)
	if scanErr != nil {
		return models.CaseNote{}, r.classifyGetError(ctx, scanErr, "case_notes", id)
	}

	return note, nil
}

func (r *noteRepository) ListCaseNotes(ctx context.Context, clientID int64) ([]models.CaseNote, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "client_id", "occurred_at", "category", "content", "deleted", "created_at", "last_updated_at").
		From("case_notes").
		Where(sq.Eq{"client_id": clientID, "deleted": false}).
		OrderBy("occurred_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "noteRepository.ListCaseNotes").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing case notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	notes := make([]models.CaseNote, 0, 20)
	for rows.Next() {
		var note models.CaseNote
		scanErr := rows.Scan(
			&note.ID, &note.ClientID, &note.OccurredAt, &note.Category, &note.Content,
			&note.Deleted, &note.CreatedAt, &note.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

func (r *noteRepository) UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, expected, stamp time.Time) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	argIndex := 3

	if patch.OccurredAt != nil {
		set = append(set, fmt.Sprintf("occurred_at = $%d", argIndex))
		args = append(args, *patch.OccurredAt)
		argIndex++
	}
	if patch.Category != nil {
		set = append(set, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *patch.Category)
		argIndex++
	}
	if patch.Content != nil {
		set = append(set, fmt.Sprintf("content = $%d", argIndex))
		args = append(args, *patch.Content)
		argIndex++
	}
	set, args = stampClause(set, args, argIndex, stamp)

	return r.execCAS(ctx, "case_notes", true, id, expected, set, args)
}

func (r *noteRepository) SoftDeleteCaseNote(ctx context.Context, id int64, expected, stamp time.Time) error {
	set := []string{"deleted = TRUE"}
	args := make([]any, 0, 1)
	set, args = stampClause(set, args, 3, stamp)

	return r.execCAS(ctx, "case_notes", true, id, expected, set, args)
}

// ─────────────────────────────────────────────
// Error classification
// ─────────────────────────────────────────────

func (r *noteRepository) classifySaveError(err error) error {
	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		return ErrDuplicateNote
	case pgerrcode.ForeignKeyViolation:
		return ErrClientNotFound
	default:
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}

func (r *noteRepository) classifyGetError(ctx context.Context, err error, table string, id int64) error {
	log := logger.FromContext(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s id %d", ErrNoteNotFound, table, id)
	}

	log.Err(err).
		Str("func", "noteRepository.classifyGetError").
		Str("table", table).
		Int64("id", id).
		Msg("failed to read note row")
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
