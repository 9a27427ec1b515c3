package employee

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindByID(ctx context.Context, id string) (string, error)
	DirectReportIDs(ctx context.Context, companyID string, managerID string) ([]string, error)
	LinkUserAccount(ctx context.Context, companyID, userID, employeeID string) error
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, companyID string, id string) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Department").
		Preload("Manager").
		Find(&empls).Error
	return empls, err
}

// FindOptionsByCompany is the lightweight listing backing dropdowns; it
// skips the preloads and the balance columns stay zero-valued.
func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Select("id", "company_id", "full_name", "email", "employee_number").
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Department").
		Preload("Manager").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

// FindByID resolves the owning company for an employee id regardless of
// tenant; used during account registration before a tenant is known.
func (r *repository) FindByID(ctx context.Context, id string) (string, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Select("id", "company_id").
		First(&empl, "id = ?", id).Error
	if err != nil {
		return "", err
	}
	return empl.CompanyID.String(), nil
}

func (r *repository) DirectReportIDs(ctx context.Context, companyID string, managerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) LinkUserAccount(ctx context.Context, companyID, userID, employeeID string) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND company_id = ?", userID, companyID).
		Update("employee_id", employeeID).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id).Error
}
