package reconciliation

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=incident_repo.go -destination=mock/incident_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, incident *Incident) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Incident, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, incident *Incident) error {
	return r.db.WithContext(ctx).Create(incident).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Incident, error) {
	var incidents []Incident
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("occurred_at DESC").
		Find(&incidents).Error
	return incidents, err
}
