package timeclock

import (
	"context"
	"time"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeclock_repo.go -destination=mock/timeclock_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e *TimeEntry) error
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*TimeEntry, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]TimeEntry, error)
	FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]TimeEntry, error)
	Update(ctx context.Context, e *TimeEntry) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&e).Error
	return &e, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Order("work_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("work_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}
