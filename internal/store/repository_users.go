package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, email, name, role, house_id, password_hash, created_at, last_updated_at"

const saveUser = `INSERT INTO users (email, name, role, house_id, password_hash, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	RETURNING id;`

const setResetToken = `UPDATE users SET reset_token = $2, reset_expires = $3 WHERE id = $1;`

const updatePassword = `UPDATE users
	SET password_hash = $2, reset_token = NULL, reset_expires = NULL, last_updated_at = $3
	WHERE id = $1;`

const updateUserRole = `UPDATE users SET role = $2, last_updated_at = $3 WHERE id = $1;`

func (r *userRepository) SaveUser(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx)

	user.CreatedAt = models.TruncWatermark(user.CreatedAt)
	user.LastUpdatedAt = user.CreatedAt

	err := r.db.QueryRowContext(ctx, saveUser,
		user.Email, user.Name, user.Role, user.HouseID, user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Warn().
				Str("func", "userRepository.SaveUser").
				Str("email", user.Email).
				Msg("email already registered")
			return ErrEmailAlreadyExists
		}
		log.Err(err).
			Str("func", "userRepository.SaveUser").
			Str("email", user.Email).
			Msg("failed to save user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *userRepository) getUser(ctx context.Context, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "email", "name", "role", "house_id", "password_hash", "created_at", "last_updated_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.HouseID,
		&user.PasswordHash, &user.CreatedAt, &user.LastUpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(scanErr).
			Str("func", "userRepository.getUser").
			Msg("failed to read user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "email", "name", "role", "house_id", "password_hash", "created_at", "last_updated_at").
		From("users").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "userRepository.ListUsers").
			Msg("failed to execute query for listing users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	users := make([]models.User, 0, 20)
	for rows.Next() {
		var user models.User
		scanErr := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.Role, &user.HouseID,
			&user.PasswordHash, &user.CreatedAt, &user.LastUpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return users, nil
}

func (r *userRepository) UpdateUserRole(ctx context.Context, id int64, role models.Role, stamp time.Time) error {
	return r.execUserUpdate(ctx, updateUserRole, "userRepository.UpdateUserRole", id, role, models.TruncWatermark(stamp))
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	return r.execUserUpdate(ctx, setResetToken, "userRepository.SetResetToken", userID, token, expires)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string, stamp time.Time) error {
	return r.execUserUpdate(ctx, updatePassword, "userRepository.UpdatePassword", userID, passwordHash, models.TruncWatermark(stamp))
}

// execUserUpdate runs a single-row user UPDATE and treats zero affected rows
// as [ErrUserNotFound].
func (r *userRepository) execUserUpdate(ctx context.Context, query, funcName string, id int64, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Int64("user_id", id).
			Msg("failed to execute user update")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

const getUserByResetToken = `SELECT ` + userColumns + `, reset_expires
	FROM users
	WHERE reset_token = $1;`

func (r *userRepository) GetUserByResetToken(ctx context.Context, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	var resetExpires *time.Time
	scanErr := r.db.QueryRowContext(ctx, getUserByResetToken, token).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.HouseID,
		&user.PasswordHash, &user.CreatedAt, &user.LastUpdatedAt, &resetExpires,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(scanErr).
			Str("func", "userRepository.GetUserByResetToken").
			Msg("failed to read user row by reset token")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	// an expired token is indistinguishable from an unknown one for callers
	if resetExpires == nil || resetExpires.Before(time.Now()) {
		return models.User{}, ErrUserNotFound
	}

	return user, nil
}
