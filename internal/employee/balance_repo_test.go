package employee_test

import (
	"context"
	"testing"

	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupBalanceRepoTest(t *testing.T) (employee.BalanceRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Discard,
	})
	assert.NoError(t, err)

	return employee.NewBalanceRepository(gormDB), mock
}

func TestBalanceRepository_Consume(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("books days and recomputes remaining in one statement", func(t *testing.T) {
		repo, mock := setupBalanceRepoTest(t)

		mock.ExpectExec(`UPDATE employees`).
			WithArgs(3, 3, employeeID, companyID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Consume(ctx, companyID, employeeID, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching row maps to employee not found", func(t *testing.T) {
		repo, mock := setupBalanceRepoTest(t)

		mock.ExpectExec(`UPDATE employees`).
			WithArgs(3, 3, employeeID, companyID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Consume(ctx, companyID, employeeID, 3)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestBalanceRepository_Restore(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("hands days back with the clamp applied to both columns", func(t *testing.T) {
		repo, mock := setupBalanceRepoTest(t)

		mock.ExpectExec(`(?s)UPDATE employees.*GREATEST`).
			WithArgs(5, 5, employeeID, companyID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Restore(ctx, companyID, employeeID, 5)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching row maps to employee not found", func(t *testing.T) {
		repo, mock := setupBalanceRepoTest(t)

		mock.ExpectExec(`UPDATE employees`).
			WithArgs(5, 5, employeeID, companyID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Restore(ctx, companyID, employeeID, 5)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
