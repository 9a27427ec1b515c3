package department_test

import (
	"context"
	"testing"

	"go-hrms/internal/department"
	departmenterrors "go-hrms/internal/department/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	createFn             func(ctx context.Context, dept *department.Department) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]department.Department, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*department.Department, error)
	updateFn             func(ctx context.Context, dept *department.Department) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeDepartmentRepository) WithTx(tx *gorm.DB) department.Repository {
	return f
}

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) FindAllByCompany(ctx context.Context, companyID string) ([]department.Department, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*department.Department, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	repo := &fakeDepartmentRepository{}
	svc := department.NewService(repo)

	var created *department.Department
	repo.createFn = func(ctx context.Context, dept *department.Department) error {
		created = dept
		return nil
	}

	resp, err := svc.Create(ctx, companyID, department.CreateDepartmentRequest{
		Name:        "Engineering",
		Description: "Product engineering",
	})
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, companyID, created.CompanyID.String())
	assert.Equal(t, "Engineering", resp.Name)
	assert.Equal(t, "Product engineering", resp.Description)
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("found", func(t *testing.T) {
		deptID := uuid.New()
		repo := &fakeDepartmentRepository{
			findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*department.Department, error) {
				return &department.Department{ID: deptID, CompanyID: uuid.MustParse(companyID), Name: "HR"}, nil
			},
		}
		svc := department.NewService(repo)

		resp, err := svc.GetByID(ctx, companyID, deptID.String())
		assert.NoError(t, err)
		assert.Equal(t, "HR", resp.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc := department.NewService(&fakeDepartmentRepository{})

		_, err := svc.GetByID(ctx, companyID, uuid.New().String())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := department.NewService(&fakeDepartmentRepository{})

		_, err := svc.GetByID(ctx, companyID, "not-a-uuid")
		assert.ErrorIs(t, err, departmenterrors.ErrInvalidDepartmentID)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	deptID := uuid.New()

	t.Run("applies the new name and description", func(t *testing.T) {
		repo := &fakeDepartmentRepository{
			findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*department.Department, error) {
				return &department.Department{ID: deptID, CompanyID: uuid.MustParse(companyID), Name: "HR"}, nil
			},
		}
		svc := department.NewService(repo)

		var updated *department.Department
		repo.updateFn = func(ctx context.Context, dept *department.Department) error {
			updated = dept
			return nil
		}

		resp, err := svc.Update(ctx, companyID, deptID.String(), department.UpdateDepartmentRequest{
			Name:        "People Ops",
			Description: "Renamed",
		})
		assert.NoError(t, err)
		assert.Equal(t, "People Ops", updated.Name)
		assert.Equal(t, "People Ops", resp.Name)
	})

	t.Run("unknown department maps to not found", func(t *testing.T) {
		svc := department.NewService(&fakeDepartmentRepository{})

		_, err := svc.Update(ctx, companyID, deptID.String(), department.UpdateDepartmentRequest{Name: "X"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	deptID := uuid.New()

	t.Run("deletes an existing department", func(t *testing.T) {
		deleted := false
		repo := &fakeDepartmentRepository{
			findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*department.Department, error) {
				return &department.Department{ID: deptID, CompanyID: uuid.MustParse(companyID)}, nil
			},
			deleteFn: func(ctx context.Context, companyID, id string) error {
				deleted = true
				return nil
			},
		}
		svc := department.NewService(repo)

		assert.NoError(t, svc.Delete(ctx, companyID, deptID.String()))
		assert.True(t, deleted)
	})

	t.Run("unknown department maps to not found", func(t *testing.T) {
		svc := department.NewService(&fakeDepartmentRepository{})

		err := svc.Delete(ctx, companyID, deptID.String())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}
