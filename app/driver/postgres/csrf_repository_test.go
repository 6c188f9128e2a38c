package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/app/domain"
	"postboard/app/utils/logger"
)

// Helper function to create a test CSRF repository with mocked database
func createTestCSRFRepository(t *testing.T) (*CSRFRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)

	testLogger, err := logger.New("debug")
	require.NoError(t, err)

	repo := NewCSRFRepository(mockDB, testLogger).(*CSRFRepository)

	return repo, mockDB
}

func createTestCSRFToken(t *testing.T) *domain.CSRFToken {
	t.Helper()

	token, err := domain.NewCSRFToken("client-123", 32, 30*time.Minute)
	require.NoError(t, err)

	return token
}

func TestCSRFRepository_Store(t *testing.T) {
	t.Run("successful store", func(t *testing.T) {
		repo, mockDB := createTestCSRFRepository(t)
		defer mockDB.Close()

		token := createTestCSRFToken(t)
		mockDB.ExpectExec("INSERT INTO csrf_tokens").
			WithArgs(token.Token, token.ClientID, token.CreatedAt, token.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Store(context.Background(), token)
		assert.NoError(t, err)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mockDB := createTestCSRFRepository(t)
		defer mockDB.Close()

		token := createTestCSRFToken(t)
		mockDB.ExpectExec("INSERT INTO csrf_tokens").
			WithArgs(token.Token, token.ClientID, token.CreatedAt, token.ExpiresAt).
			WillReturnError(pgx.ErrTxClosed)

		err := repo.Store(context.Background(), token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store CSRF token")

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestCSRFRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mockDB := createTestCSRFRepository(t)
		defer mockDB.Close()

		stored := createTestCSRFToken(t)
		mockDB.ExpectQuery("SELECT (.+) FROM csrf_tokens WHERE token").
			WithArgs(stored.Token).
			WillReturnRows(pgxmock.NewRows([]string{"token", "client_id", "created_at", "expires_at"}).
				AddRow(stored.Token, stored.ClientID, stored.CreatedAt, stored.ExpiresAt))

		token, err := repo.Get(context.Background(), stored.Token)
		require.NoError(t, err)
		assert.Equal(t, stored.Token, token.Token)
		assert.Equal(t, stored.ClientID, token.ClientID)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("unknown token", func(t *testing.T) {
		repo, mockDB := createTestCSRFRepository(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT (.+) FROM csrf_tokens WHERE token").
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)

		token, err := repo.Get(context.Background(), "unknown")
		assert.ErrorIs(t, err, domain.ErrInvalidCSRFToken)
		assert.Nil(t, token)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestCSRFRepository_Delete(t *testing.T) {
	repo, mockDB := createTestCSRFRepository(t)
	defer mockDB.Close()

	mockDB.ExpectExec("DELETE FROM csrf_tokens").
		WithArgs("token-to-delete").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "token-to-delete")
	assert.NoError(t, err)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}
