package company

import (
	"context"
	"errors"

	"go-hrms/internal/auth"
	companyerrors "go-hrms/internal/company/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	Onboard(ctx context.Context, req OnboardRequest) (*OnboardResponse, error)
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
}

type service struct {
	db    *gorm.DB
	repo  Repository
	users auth.Repository
}

func NewService(db *gorm.DB, repo Repository, users auth.Repository) Service {
	return &service{db: db, repo: repo, users: users}
}

// Onboard provisions a new tenant: the company record and its first admin
// account are created in one transaction so a half-registered tenant can
// never exist.
func (s *service) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, companyerrors.ErrCompanyAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	comp := &Company{
		ID:                 uuid.New(),
		Name:               req.Name,
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
		IsActive:           true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, comp); err != nil {
			return err
		}

		admin := &auth.User{
			ID:        uuid.New(),
			CompanyID: comp.ID,
			Name:      req.AdminName,
			Email:     req.AdminEmail,
			Password:  string(hashed),
			Role:      "COMPANY_ADMIN",
			IsActive:  true,
		}
		return s.users.WithTx(tx).Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	return &OnboardResponse{
		Company:    *s.mapToResponse(comp),
		AdminEmail: req.AdminEmail,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return s.mapToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		comp.Name = req.Name
	}
	if req.RegistrationNumber != "" {
		comp.RegistrationNumber = req.RegistrationNumber
	}
	if req.IsActive != nil {
		comp.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, err
	}

	return s.mapToResponse(comp), nil
}

func (s *service) mapToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Email:              c.Email,
		RegistrationNumber: c.RegistrationNumber,
		IsActive:           c.IsActive,
	}
}
