package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
)

func newMockScope(t *testing.T) (*GormTransactionScope, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionScope(gormDB), mock, mockDB
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("runs writes at serializable isolation", func(t *testing.T) {
		assert.Equal(t, sql.LevelSerializable, writeTxOptions.Isolation)
	})

	t.Run("commits when the function succeeds", func(t *testing.T) {
		scope, mock, mockDB := newMockScope(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			require.NotNil(t, repos.ProductRepo())
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		scope, mock, mockDB := newMockScope(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		wantErr := errors.New("boom")
		err := scope.Execute(ctx, func(apptrade.TransactionalRepositories) error {
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslateTxError(t *testing.T) {
	t.Run("serialization failure becomes a retryable conflict", func(t *testing.T) {
		err := translateTxError(&pgconn.PgError{Code: pgSerializationFailure, Message: "could not serialize access"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
	})

	t.Run("other errors pass through unchanged", func(t *testing.T) {
		wantErr := errors.New("connection reset")
		assert.ErrorIs(t, translateTxError(wantErr), wantErr)

		pgErr := &pgconn.PgError{Code: "23505"}
		assert.ErrorIs(t, translateTxError(pgErr), pgErr)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateTxError(nil))
	})
}
