package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHouseRepository(t *testing.T) (HouseRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	log := logger.Nop()
	repo := NewHouseRepository(&DB{DB: mockDB, logger: log}, log)
	return repo, mock
}

func TestDeleteHouse(t *testing.T) {
	repo, mock := newTestHouseRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteHouse)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteHouse(context.Background(), 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHouse_NotFound(t *testing.T) {
	repo, mock := newTestHouseRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteHouse)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteHouse(context.Background(), 404)

	assert.ErrorIs(t, err, ErrHouseNotFound)
}

func TestDeleteHouse_AssignedClients(t *testing.T) {
	repo, mock := newTestHouseRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteHouse)).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.ForeignKeyViolation,
			ConstraintName: "clients_house_id_fkey",
		})

	err := repo.DeleteHouse(context.Background(), 3)

	assert.ErrorIs(t, err, ErrHouseHasClients)
}

func TestDeleteHouse_AssignedStaff(t *testing.T) {
	repo, mock := newTestHouseRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteHouse)).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.ForeignKeyViolation,
			ConstraintName: "users_house_id_fkey",
		})

	err := repo.DeleteHouse(context.Background(), 3)

	assert.ErrorIs(t, err, ErrHouseHasUsers)
	assert.NotErrorIs(t, err, ErrHouseHasClients)
}
