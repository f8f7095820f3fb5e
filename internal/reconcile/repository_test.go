package reconcile

import (
	"context"
	"regexp"
	"testing"

	"chargeledger/internal/ledger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReconcileMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func sumRow(v int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"coalesce"}).AddRow(v)
}

func TestGlobalFigures(t *testing.T) {
	repo, mock, close := setupReconcileMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM credit_requests")).
		WillReturnRows(sumRow(100))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(credit), 0) FROM users")).
		WillReturnRows(sumRow(70))
	mock.ExpectQuery(regexp.QuoteMeta("FROM charge_sales")).
		WillReturnRows(sumRow(30))

	f, err := repo.GlobalFigures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), f.ApprovedCredits)
	assert.Equal(t, int64(70), f.CurrentCredits)
	assert.Equal(t, int64(30), f.ChargeSales)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalFigures_OnlyCountsProcessedApproved(t *testing.T) {
	repo, mock, close := setupReconcileMock(t)
	defer close()

	// Pending and rejected rows must be filtered by the query itself.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'APPROVED' AND processed = true")).
		WillReturnRows(sumRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnRows(sumRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'COMPLETED' AND processed = true")).
		WillReturnRows(sumRow(0))

	f, err := repo.GlobalFigures(context.Background())
	require.NoError(t, err)
	assert.Zero(t, f.ApprovedCredits)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFigures_MissingUser(t *testing.T) {
	repo, mock, close := setupReconcileMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT credit FROM users WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"credit"}))

	f, err := repo.UserFigures(context.Background(), 99)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Nil(t, f)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFigures_Success(t *testing.T) {
	repo, mock, close := setupReconcileMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT credit FROM users WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"credit"}).AddRow(70))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND status = 'APPROVED' AND processed = true")).
		WithArgs(1).
		WillReturnRows(sumRow(100))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND status = 'COMPLETED' AND processed = true")).
		WithArgs(1).
		WillReturnRows(sumRow(30))

	f, err := repo.UserFigures(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), f.ApprovedCredits)
	assert.Equal(t, int64(70), f.CurrentCredits)
	assert.Equal(t, int64(30), f.ChargeSales)
	require.NoError(t, mock.ExpectationsWereMet())
}
