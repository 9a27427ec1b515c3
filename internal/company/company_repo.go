package company

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Companies are the tenant roots; unlike every other repository there
// is no company scope to apply here.
//
//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, comp *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetByEmail(ctx context.Context, email string) (*Company, error)
	Update(ctx context.Context, comp *Company) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction, so onboarding can
// insert the company and its admin account atomically.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, comp *Company) error {
	return r.db.WithContext(ctx).Create(comp).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var comp Company
	err := r.db.WithContext(ctx).First(&comp, "id = ?", id).Error
	return &comp, err
}

// GetByEmail backs the duplicate-tenant check during onboarding.
func (r *repository) GetByEmail(ctx context.Context, email string) (*Company, error) {
	var comp Company
	err := r.db.WithContext(ctx).First(&comp, "email = ?", email).Error
	return &comp, err
}

func (r *repository) Update(ctx context.Context, comp *Company) error {
	return r.db.WithContext(ctx).Save(comp).Error
}
