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

// houseRepository is the PostgreSQL-backed implementation of
// [HouseRepository].
type houseRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewHouseRepository constructs a [HouseRepository] backed by the provided
// database connection and logger.
func NewHouseRepository(db *DB, logger *logger.Logger) HouseRepository {
	logger.Debug().Msg("creating house repository")
	return &houseRepository{
		db:     db,
		logger: logger,
	}
}

const saveHouse = `INSERT INTO houses (name, address_line, postcode, phone, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	RETURNING id;`

const deleteHouse = `DELETE FROM houses WHERE id = $1;`

func (r *houseRepository) SaveHouse(ctx context.Context, house *models.House) error {
	log := logger.FromContext(ctx)

	house.CreatedAt = models.TruncWatermark(house.CreatedAt)
	house.LastUpdatedAt = house.CreatedAt

	err := r.db.QueryRowContext(ctx, saveHouse,
		house.Name, house.AddressLine, house.Postcode, house.Phone, house.CreatedAt,
	).Scan(&house.ID)
	if err != nil {
		log.Err(err).
			Str("func", "houseRepository.SaveHouse").
			Str("name", house.Name).
			Msg("failed to save house")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *houseRepository) GetHouse(ctx context.Context, id int64) (models.House, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "name", "address_line", "postcode", "phone", "created_at", "last_updated_at").
		From("houses").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.House{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var house models.House
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&house.ID, &house.Name, &house.AddressLine, &house.Postcode,
		&house.Phone, &house.CreatedAt, &house.LastUpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.House{}, fmt.Errorf("%w: id %d", ErrHouseNotFound, id)
		}
		log.Err(scanErr).
			Str("func", "houseRepository.GetHouse").
			Int64("id", id).
			Msg("failed to read house row")
		return models.House{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return house, nil
}

func (r *houseRepository) ListHouses(ctx context.Context) ([]models.House, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "name", "address_line", "postcode", "phone", "created_at", "last_updated_at").
		From("houses").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "houseRepository.ListHouses").
			Msg("failed to execute query for listing houses")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	houses := make([]models.House, 0, 10)
	for rows.Next() {
		var house models.House
		scanErr := rows.Scan(
			&house.ID, &house.Name, &house.AddressLine, &house.Postcode,
			&house.Phone, &house.CreatedAt, &house.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		houses = append(houses, house)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return houses, nil
}

func (r *houseRepository) UpdateHouse(ctx context.Context, id int64, patch models.HousePatch, stamp time.Time) error {
	log := logger.FromContext(ctx)

	set := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argIndex := 2

	if patch.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *patch.Name)
		argIndex++
	}
	if patch.AddressLine != nil {
		set = append(set, fmt.Sprintf("address_line = $%d", argIndex))
		args = append(args, *patch.AddressLine)
		argIndex++
	}
	if patch.Postcode != nil {
		set = append(set, fmt.Sprintf("postcode = $%d", argIndex))
		args = append(args, *patch.Postcode)
		argIndex++
	}
	if patch.Phone != nil {
		set = append(set, fmt.Sprintf("phone = $%d", argIndex))
		args = append(args, *patch.Phone)
		argIndex++
	}
	set = append(set, fmt.Sprintf("last_updated_at = $%d", argIndex))
	args = append(args, models.TruncWatermark(stamp))

	query := fmt.Sprintf("UPDATE houses SET %s WHERE id = $1;", strings.Join(set, ", "))

	result, execErr := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "houseRepository.UpdateHouse").
			Int64("id", id).
			Msg("failed to update house")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
	}

	affected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrHouseNotFound, id)
	}

	return nil
}

func (r *houseRepository) DeleteHouse(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteHouse, id)
	if err != nil {
		// both clients.house_id and users.house_id reference houses; the
		// constraint name tells which assignment keeps the house alive
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			if strings.HasPrefix(postgresConstraint(err), "users_") {
				return fmt.Errorf("%w: id %d", ErrHouseHasUsers, id)
			}
			return fmt.Errorf("%w: id %d", ErrHouseHasClients, id)
		}
		log.Err(err).
			Str("func", "houseRepository.DeleteHouse").
			Int64("id", id).
			Msg("failed to delete house")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrHouseNotFound, id)
	}

	return nil
}
