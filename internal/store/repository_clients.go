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

// clientRepository is the PostgreSQL-backed implementation of
// [ClientRepository].
type clientRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewClientRepository constructs a [ClientRepository] backed by the provided
// database connection and logger.
func NewClientRepository(db *DB, logger *logger.Logger) ClientRepository {
	logger.Debug().Msg("creating client repository")
	return &clientRepository{
		db:     db,
		logger: logger,
	}
}

const saveClient = `INSERT INTO clients (first_name, last_name, date_of_birth, support_plan_ref, house_id, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	RETURNING id;`

const assignClientToHouse = `UPDATE clients SET house_id = $2, last_updated_at = $3 WHERE id = $1;`

const detachClientFromHouse = `UPDATE clients SET house_id = NULL, last_updated_at = $2 WHERE id = $1;`

func (r *clientRepository) SaveClient(ctx context.Context, client *models.Client) error {
	log := logger.FromContext(ctx)

	client.CreatedAt = models.TruncWatermark(client.CreatedAt)
	client.LastUpdatedAt = client.CreatedAt

	err := r.db.QueryRowContext(ctx, saveClient,
		client.FirstName, client.LastName, client.DateOfBirth,
		client.SupportPlanRef, client.HouseID, client.CreatedAt,
	).Scan(&client.ID)
	if err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: house id %v", ErrHouseNotFound, client.HouseID)
		}
		log.Err(err).
			Str("func", "clientRepository.SaveClient").
			Msg("failed to save client")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *clientRepository) GetClient(ctx context.Context, id int64) (models.Client, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "first_name", "last_name", "date_of_birth", "support_plan_ref", "house_id", "created_at", "last_updated_at").
		From("clients").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Client{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var client models.Client
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&client.ID, &client.FirstName, &client.LastName, &client.DateOfBirth,
		&client.SupportPlanRef, &client.HouseID, &client.CreatedAt, &client.LastUpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Client{}, fmt.Errorf("%w: id %d", ErrClientNotFound, id)
		}
		log.Err(scanErr).
			Str("func", "clientRepository.GetClient").
			Int64("id", id).
			Msg("failed to read client row")
		return models.Client{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return client, nil
}

func (r *clientRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	return r.listClients(ctx, nil)
}

func (r *clientRepository) ListClientsByHouse(ctx context.Context, houseID int64) ([]models.Client, error) {
	return r.listClients(ctx, sq.Eq{"house_id": houseID})
}

func (r *clientRepository) listClients(ctx context.Context, where sq.Eq) ([]models.Client, error) {
	log := logger.FromContext(ctx)

	builder := psql.
		Select("id", "first_name", "last_name", "date_of_birth", "support_plan_ref", "house_id", "created_at", "last_updated_at").
		From("clients").
		OrderBy("last_name ASC", "first_name ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "clientRepository.listClients").
			Msg("failed to execute query for listing clients")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	clients := make([]models.Client, 0, 20)
	for rows.Next() {
		var client models.Client
		scanErr := rows.Scan(
			&client.ID, &client.FirstName, &client.LastName, &client.DateOfBirth,
			&client.SupportPlanRef, &client.HouseID, &client.CreatedAt, &client.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		clients = append(clients, client)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return clients, nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, id int64, patch models.ClientPatch, stamp time.Time) error {
	log := logger.FromContext(ctx)

	set := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argIndex := 2

	if patch.FirstName != nil {
		set = append(set, fmt.Sprintf("first_name = $%d", argIndex))
		args = append(args, *patch.FirstName)
		argIndex++
	}
	if patch.LastName != nil {
		set = append(set, fmt.Sprintf("last_name = $%d", argIndex))
		args = append(args, *patch.LastName)
		argIndex++
	}
	if patch.DateOfBirth != nil {
		set = append(set, fmt.Sprintf("date_of_birth = $%d", argIndex))
		args = append(args, *patch.DateOfBirth)
		argIndex++
	}
	if patch.SupportPlanRef != nil {
		set = append(set, fmt.Sprintf("support_plan_ref = $%d", argIndex))
		args = append(args, *patch.SupportPlanRef)
		argIndex++
	}
	set = append(set, fmt.Sprintf("last_updated_at = $%d", argIndex))
	args = append(args, models.TruncWatermark(stamp))

	query := fmt.Sprintf("UPDATE clients SET %s WHERE id = $1;", strings.Join(set, ", "))

	result, execErr := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "clientRepository.UpdateClient").
			Int64("id", id).
			Msg("failed to update client")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
	}

	return r.requireAffected(result, id)
}

func (r *clientRepository) AssignClientToHouse(ctx context.Context, clientID, houseID int64, stamp time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, assignClientToHouse, clientID, houseID, models.TruncWatermark(stamp))
	if err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: id %d", ErrHouseNotFound, houseID)
		}
		log.Err(err).
			Str("func", "clientRepository.AssignClientToHouse").
			Int64("client_id", clientID).
			Int64("house_id", houseID).
			Msg("failed to assign client to house")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return r.requireAffected(result, clientID)
}

func (r *clientRepository) DetachClientFromHouse(ctx context.Context, clientID int64, stamp time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, detachClientFromHouse, clientID, models.TruncWatermark(stamp))
	if err != nil {
		log.Err(err).
			Str("func", "clientRepository.DetachClientFromHouse").
			Int64("client_id", clientID).
			Msg("failed to detach client from house")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return r.requireAffected(result, clientID)
}

func (r *clientRepository) requireAffected(result sql.Result, clientID int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrClientNotFound, clientID)
	}
	return nil
}
