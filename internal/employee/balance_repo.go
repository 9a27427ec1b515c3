package employee

import (
	"context"

	employeeerrors "go-hrms/internal/employee/errors"

	"gorm.io/gorm"
)

type Balance struct {
	Total     int
	Used      int
	Remaining int
}

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock

// BalanceRepository owns the leave balance columns. Every mutation is a
// single UPDATE that recomputes used and remaining together, so readers
// never observe the pair mid-adjustment.
type BalanceRepository interface {
	Consume(ctx context.Context, companyID, employeeID string, days int) error
	Restore(ctx context.Context, companyID, employeeID string, days int) error
	GetBalance(ctx context.Context, companyID, employeeID string) (Balance, error)
}

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

// Consume books days against the balance. Remaining may go negative;
// whether over-consumption is rejected is a policy decision taken above
// this layer, the ledger itself just stays arithmetically consistent.
func (r *balanceRepository) Consume(ctx context.Context, companyID, employeeID string, days int) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE employees
		SET leave_used = leave_used + ?,
		    leave_remaining = leave_total - (leave_used + ?),
		    updated_at = now()
		WHERE id = ? AND company_id = ? AND deleted_at IS NULL
	`, days, days, employeeID, companyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

// Restore hands days back, clamping used at zero so repeated restores
// (or restores racing a concurrent rejection) cannot push the balance
// past its allocation.
func (r *balanceRepository) Restore(ctx context.Context, companyID, employeeID string, days int) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE employees
		SET leave_used = GREATEST(leave_used - ?, 0),
		    leave_remaining = leave_total - GREATEST(leave_used - ?, 0),
		    updated_at = now()
		WHERE id = ? AND company_id = ? AND deleted_at IS NULL
	`, days, days, employeeID, companyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *balanceRepository) GetBalance(ctx context.Context, companyID, employeeID string) (Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("leave_total AS total", "leave_used AS used", "leave_remaining AS remaining").
		Where("id = ? AND company_id = ?", employeeID, companyID).
		Scan(&b).Error
	return b, err
}
