package leave

import (
	"context"
	"time"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Leave) error
	List(ctx context.Context, companyID string, filter ListFilter, allowedEmployeeIDs []string) ([]Leave, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Leave, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error)
	CompareAndSwapStatus(ctx context.Context, l *Leave, expectedStatus string) (bool, error)
	Delete(ctx context.Context, companyID, id, expectedStatus string) (bool, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	FindEmployeeManagerID(ctx context.Context, companyID, employeeID string) (string, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter, allowedEmployeeIDs []string) ([]Leave, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Order("start_date DESC")

	if allowedEmployeeIDs != nil {
		q = q.Where("employee_id IN ?", allowedEmployeeIDs)
	}
	if len(filter.EmployeeIDs) > 0 {
		q = q.Where("employee_id IN ?", filter.EmployeeIDs)
	}
	if filter.Employee != "" {
		q = q.Where("employee_id = ?", filter.Employee)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var leaves []Leave
	err := q.Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

// CompareAndSwapStatus persists every mutable field of l, but only if
// the stored status still equals expectedStatus. The returned bool is
// false when another writer got there first; the caller treats that as
// a conflict and must not apply the balance side effect it derived from
// the stale status.
func (r *repository) CompareAndSwapStatus(ctx context.Context, l *Leave, expectedStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND company_id = ? AND status = ?", l.ID, l.CompanyID, expectedStatus).
		Updates(map[string]interface{}{
			"employee_id":               l.EmployeeID,
			"leave_type":                l.LeaveType,
			"start_date":                l.StartDate,
			"end_date":                  l.EndDate,
			"total_days":                l.TotalDays,
			"reason":                    l.Reason,
			"comments":                  l.Comments,
			"status":                    l.Status,
			"manager_approval_status":   l.ManagerApprovalStatus,
			"manager_approved_by":       l.ManagerApprovedBy,
			"manager_approved_at":       l.ManagerApprovedAt,
			"manager_approval_comments": l.ManagerApprovalComments,
			"updated_at":                time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete soft-deletes the record behind the same guard as
// CompareAndSwapStatus: the row must still carry expectedStatus. False
// means another writer deleted or re-transitioned it first, so the
// caller must not hand back any balance it derived from the stale read.
func (r *repository) Delete(ctx context.Context, companyID, id, expectedStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", expectedStatus).
		Delete(&Leave{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// FindEmployeeManagerID returns the employee's reporting manager id, or
// "" when no manager is assigned.
func (r *repository) FindEmployeeManagerID(ctx context.Context, companyID, employeeID string) (string, error) {
	var managerID *string
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("manager_id").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Scan(&managerID).Error
	if err != nil {
		return "", err
	}
	if managerID == nil {
		return "", nil
	}
	return *managerID, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusCanceled, StatusRejected}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
