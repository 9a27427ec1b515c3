package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"go-hrms/internal/domain"
	"go-hrms/internal/events"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeLeaveRepository struct {
	createFn                 func(ctx context.Context, l *leave.Leave) error
	listFn                   func(ctx context.Context, companyID string, filter leave.ListFilter, allowedEmployeeIDs []string) ([]leave.Leave, error)
	findAllByEmployeeFn      func(ctx context.Context, companyID, employeeID string) ([]leave.Leave, error)
	findByIDAndCompanyFn     func(ctx context.Context, companyID, id string) (*leave.Leave, error)
	compareAndSwapStatusFn   func(ctx context.Context, l *leave.Leave, expectedStatus string) (bool, error)
	deleteFn                 func(ctx context.Context, companyID, id, expectedStatus string) (bool, error)
	employeeBelongsToCompany func(ctx context.Context, companyID, employeeID string) (bool, error)
	findEmployeeManagerIDFn  func(ctx context.Context, companyID, employeeID string) (string, error)
	hasOverlappingPeriodFn   func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository {
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) List(ctx context.Context, companyID string, filter leave.ListFilter, allowedEmployeeIDs []string) ([]leave.Leave, error) {
	if f.listFn != nil {
		return f.listFn(ctx, companyID, filter, allowedEmployeeIDs)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.Leave, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) CompareAndSwapStatus(ctx context.Context, l *leave.Leave, expectedStatus string) (bool, error) {
	if f.compareAndSwapStatusFn != nil {
		return f.compareAndSwapStatusFn(ctx, l, expectedStatus)
	}
	return true, nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, companyID, id, expectedStatus string) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id, expectedStatus)
	}
	return true, nil
}

func (f *fakeLeaveRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompany != nil {
		return f.employeeBelongsToCompany(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) FindEmployeeManagerID(ctx context.Context, companyID, employeeID string) (string, error) {
	if f.findEmployeeManagerIDFn != nil {
		return f.findEmployeeManagerIDFn(ctx, companyID, employeeID)
	}
	return "", nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type balanceCall struct {
	action     string
	employeeID string
	days       int
}

type fakeBalances struct {
	mu        sync.Mutex
	calls     []balanceCall
	consumeFn func(ctx context.Context, companyID, employeeID string, days int) error
	restoreFn func(ctx context.Context, companyID, employeeID string, days int) error
}

func (f *fakeBalances) Consume(ctx context.Context, companyID, employeeID string, days int) error {
	f.mu.Lock()
	f.calls = append(f.calls, balanceCall{action: "consume", employeeID: employeeID, days: days})
	f.mu.Unlock()
	if f.consumeFn != nil {
		return f.consumeFn(ctx, companyID, employeeID, days)
	}
	return nil
}

func (f *fakeBalances) Restore(ctx context.Context, companyID, employeeID string, days int) error {
	f.mu.Lock()
	f.calls = append(f.calls, balanceCall{action: "restore", employeeID: employeeID, days: days})
	f.mu.Unlock()
	if f.restoreFn != nil {
		return f.restoreFn(ctx, companyID, employeeID, days)
	}
	return nil
}

type fakeDirectory struct {
	directReportIDsFn func(ctx context.Context, companyID, managerID string) ([]string, error)
}

func (f *fakeDirectory) DirectReportIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	if f.directReportIDsFn != nil {
		return f.directReportIDsFn(ctx, companyID, managerID)
	}
	return nil, nil
}

type fakeAuthorizer struct {
	enforceFn func(req domain.EnforceRequest) (bool, error)
}

func (f *fakeAuthorizer) Enforce(req domain.EnforceRequest) (bool, error) {
	if f.enforceFn != nil {
		return f.enforceFn(req)
	}
	return false, nil
}

type fakeOutbox struct {
	mu       sync.Mutex
	events   []kafka.OutboxEvent
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func (f *fakeOutbox) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.events))
	for i, e := range f.events {
		types[i] = e.EventType
	}
	return types
}

type leaveServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	balances  *fakeBalances
	directory *fakeDirectory
	authz     *fakeAuthorizer
	outbox    *fakeOutbox
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Discard,
	})
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	balances := &fakeBalances{}
	directory := &fakeDirectory{}
	authz := &fakeAuthorizer{}
	outbox := &fakeOutbox{}

	svc := leave.NewService(gormDB, repo, balances, directory, authz, outbox)

	return &leaveServiceDeps{
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		balances:  balances,
		directory: directory,
		authz:     authz,
		outbox:    outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func storedLeave(companyID, employeeID string, status string, totalDays int) *leave.Leave {
	start, _ := time.Parse("2006-01-02", "2025-03-10")
	return &leave.Leave{
		ID:                    uuid.New(),
		CompanyID:             uuid.MustParse(companyID),
		EmployeeID:            uuid.MustParse(employeeID),
		LeaveType:             "ANNUAL",
		StartDate:             start,
		EndDate:               start.AddDate(0, 0, totalDays-1),
		TotalDays:             totalDays,
		Reason:                "family trip",
		Status:                status,
		ManagerApprovalStatus: leave.StatusPending,
		CreatedBy:             uuid.MustParse(employeeID),
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	validReq := leave.CreateLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  "ANNUAL",
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-12",
		Reason:     "family trip",
	}

	t.Run("success creates a pending request with inclusive day count", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		var created *leave.Leave
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			created = l
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, validReq)
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusPending, created.Status)
		assert.Equal(t, leave.StatusPending, created.ManagerApprovalStatus)
		assert.Equal(t, 3, created.TotalDays)
		assert.Equal(t, actorID, created.CreatedBy.String())
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Empty(t, deps.balances.calls, "creating a request never touches the balance")
	})

	t.Run("employee outside the company is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.employeeBelongsToCompany = func(ctx context.Context, companyID, employeeID string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, validReq)
		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotInCompany)
	})

	t.Run("overlapping period is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, validReq)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		req := validReq
		req.StartDate = "2025-03-15"
		req.EndDate = "2025-03-10"

		_, err := deps.service.Create(ctx, companyID, actorID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		req := validReq
		req.StartDate = "10-03-2025"

		_, err := deps.service.Create(ctx, companyID, actorID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("unknown leave type is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		req := validReq
		req.LeaveType = "SABBATICAL"

		_, err := deps.service.Create(ctx, companyID, actorID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("blank reason is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		req := validReq
		req.Reason = "   "

		_, err := deps.service.Create(ctx, companyID, actorID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})
}

func TestLeaveService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("approving consumes the day count once", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		var casExpected string
		deps.repo.compareAndSwapStatusFn = func(ctx context.Context, l *leave.Leave, expectedStatus string) (bool, error) {
			casExpected = expectedStatus
			return true, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateStatus(ctx, companyID, actorID, stored.ID.String(), leave.UpdateStatusRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusPending, casExpected)

		assert.Equal(t, []balanceCall{{action: "consume", employeeID: employeeID, days: 3}}, deps.balances.calls)
		assert.Equal(t, []string{events.EventLeaveStatusChanged}, deps.outbox.eventTypes())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejecting an approved leave restores the day count", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateStatus(ctx, companyID, actorID, stored.ID.String(), leave.UpdateStatusRequest{
			Status: leave.StatusRejected,
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, []balanceCall{{action: "restore", employeeID: employeeID, days: 3}}, deps.balances.calls)
	})

	t.Run("re-approving an approved leave is a no-op for the balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 5)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateStatus(ctx, companyID, actorID, stored.ID.String(), leave.UpdateStatusRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Empty(t, deps.balances.calls)
		assert.Empty(t, deps.outbox.eventTypes(), "unchanged status emits no event")
	})

	t.Run("lost race surfaces a conflict and applies nothing", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.compareAndSwapStatusFn = func(ctx context.Context, l *leave.Leave, expectedStatus string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.UpdateStatus(ctx, companyID, actorID, stored.ID.String(), leave.UpdateStatusRequest{
			Status: leave.StatusApproved,
		})
		assert.ErrorIs(t, err, leaveerrors.ErrTransitionConflict)
		assert.Empty(t, deps.balances.calls)
		assert.Empty(t, deps.outbox.eventTypes())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reconciliation failure is swallowed but recorded", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.balances.consumeFn = func(ctx context.Context, companyID, employeeID string, days int) error {
			return errors.New("employees table unavailable")
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.UpdateStatus(ctx, companyID, actorID, stored.ID.String(), leave.UpdateStatusRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err, "the committed transition is never rolled back")
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t,
			[]string{events.EventLeaveStatusChanged, events.EventLeaveReconciliationFailed},
			deps.outbox.eventTypes(),
		)
	})

	t.Run("unknown leave id maps to not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.UpdateStatus(ctx, companyID, actorID, uuid.New().String(), leave.UpdateStatusRequest{
			Status: leave.StatusApproved,
		})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_FullUpdate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	strPtr := func(v string) *string { return &v }

	t.Run("nested manager approval promotes the main status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			ManagerApproval: &leave.ManagerApprovalMerge{Status: strPtr(leave.StatusApproved)},
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusApproved, resp.ManagerApproval.Status)
		assert.Equal(t, []balanceCall{{action: "consume", employeeID: employeeID, days: 3}}, deps.balances.calls)
	})

	t.Run("nested manager rejection does not demote the main status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			ManagerApproval: &leave.ManagerApprovalMerge{Status: strPtr(leave.StatusRejected)},
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusRejected, resp.ManagerApproval.Status)
		assert.Empty(t, deps.balances.calls)
	})

	t.Run("changing dates recomputes the day count", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			StartDate: strPtr("2025-03-10"),
			EndDate:   strPtr("2025-03-16"),
		})
		assert.NoError(t, err)
		assert.Equal(t, 7, resp.TotalDays)
	})

	t.Run("reverting while changing dates restores the originally consumed days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		// Only 3 days were ever consumed; the widened span must not
		// inflate the amount handed back.
		resp, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			EndDate: strPtr("2025-03-20"),
			Status:  strPtr(leave.StatusRejected),
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, 11, resp.TotalDays)
		assert.Equal(t, []balanceCall{{action: "restore", employeeID: employeeID, days: 3}}, deps.balances.calls)
	})

	t.Run("a fresh approval with changed dates consumes the new count", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			EndDate: strPtr("2025-03-16"),
			Status:  strPtr(leave.StatusApproved),
		})
		assert.NoError(t, err)
		assert.Equal(t, []balanceCall{{action: "consume", employeeID: employeeID, days: 7}}, deps.balances.calls)
	})

	t.Run("direct status inside the merge wins", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 3)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.FullUpdate(ctx, companyID, actorID, stored.ID.String(), leave.UpdateLeaveRequest{
			Status: strPtr(leave.StatusCanceled),
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCanceled, resp.Status)
		assert.Equal(t, []balanceCall{{action: "restore", employeeID: employeeID, days: 3}}, deps.balances.calls)
	})
}

func TestLeaveService_ManagerApproval(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("the reporting manager can approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 4)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.findEmployeeManagerIDFn = func(ctx context.Context, companyID, employeeID string) (string, error) {
			return managerID, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ManagerApproval(ctx, companyID, managerID, stored.ID.String(), leave.ManagerApprovalRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusApproved, resp.ManagerApproval.Status)
		assert.NotNil(t, resp.ManagerApproval.ApprovedBy)
		assert.Equal(t, managerID, *resp.ManagerApproval.ApprovedBy)
		assert.Equal(t, []balanceCall{{action: "consume", employeeID: employeeID, days: 4}}, deps.balances.calls)
	})

	t.Run("a manager rejection demotes the main status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 4)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.findEmployeeManagerIDFn = func(ctx context.Context, companyID, employeeID string) (string, error) {
			return managerID, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ManagerApproval(ctx, companyID, managerID, stored.ID.String(), leave.ManagerApprovalRequest{
			Status: leave.StatusRejected,
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, []balanceCall{{action: "restore", employeeID: employeeID, days: 4}}, deps.balances.calls)
	})

	t.Run("a stranger without the approve capability is refused", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 4)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.findEmployeeManagerIDFn = func(ctx context.Context, companyID, employeeID string) (string, error) {
			return managerID, nil
		}

		_, err := deps.service.ManagerApproval(ctx, companyID, uuid.New().String(), stored.ID.String(), leave.ManagerApprovalRequest{
			Status: leave.StatusApproved,
		})
		assert.ErrorIs(t, err, leaveerrors.ErrNotReportingManager)
		assert.Empty(t, deps.balances.calls)
	})

	t.Run("the approve capability substitutes for the reporting line", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 4)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.repo.findEmployeeManagerIDFn = func(ctx context.Context, companyID, employeeID string) (string, error) {
			return managerID, nil
		}
		deps.authz.enforceFn = func(req domain.EnforceRequest) (bool, error) {
			return req.Resource == "leave" && req.Action == "approve", nil
		}

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.ManagerApproval(ctx, companyID, uuid.New().String(), stored.ID.String(), leave.ManagerApprovalRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err)
	})

	t.Run("no assigned manager means anyone in the tenant may act", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 4)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.ManagerApproval(ctx, companyID, uuid.New().String(), stored.ID.String(), leave.ManagerApprovalRequest{
			Status: leave.StatusApproved,
		})
		assert.NoError(t, err)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("deleting an approved leave restores its days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 5)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, companyID, id, expectedStatus string) (bool, error) {
			deleted = true
			assert.Equal(t, leave.StatusApproved, expectedStatus)
			return true, nil
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, companyID, stored.ID.String())
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []balanceCall{{action: "restore", employeeID: employeeID, days: 5}}, deps.balances.calls)
		assert.Equal(t, []string{events.EventLeaveStatusChanged}, deps.outbox.eventTypes())
	})

	t.Run("deleting a pending leave never touches the balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusPending, 5)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, companyID, stored.ID.String())
		assert.NoError(t, err)
		assert.Empty(t, deps.balances.calls)
	})

	t.Run("a failed restore never blocks the delete", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 5)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		deps.balances.restoreFn = func(ctx context.Context, companyID, employeeID string, days int) error {
			return errors.New("employees table unavailable")
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, companyID, stored.ID.String())
		assert.NoError(t, err)
		assert.Equal(t,
			[]string{events.EventLeaveStatusChanged, events.EventLeaveReconciliationFailed},
			deps.outbox.eventTypes(),
		)
	})

	t.Run("a raced delete surfaces a conflict and restores nothing", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		stored := storedLeave(companyID, employeeID, leave.StatusApproved, 5)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*leave.Leave, error) {
			return stored, nil
		}
		// Another writer deleted or re-transitioned the row between our
		// read and the guarded delete.
		deps.repo.deleteFn = func(ctx context.Context, companyID, id, expectedStatus string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, companyID, stored.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrTransitionConflict)
		assert.Empty(t, deps.balances.calls, "the loser must not credit the balance again")
		assert.Empty(t, deps.outbox.eventTypes())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown leave id maps to not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		err := deps.service.Delete(ctx, companyID, uuid.New().String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetAll_Scoping(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	capture := func(deps *leaveServiceDeps) *[]string {
		var got []string
		sentinel := []string{"__unset__"}
		got = sentinel
		deps.repo.listFn = func(ctx context.Context, companyID string, filter leave.ListFilter, allowedEmployeeIDs []string) ([]leave.Leave, error) {
			got = allowedEmployeeIDs
			return nil, nil
		}
		return &got
	}

	t.Run("read_all capability sees the whole tenant", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		got := capture(deps)
		deps.authz.enforceFn = func(req domain.EnforceRequest) (bool, error) {
			return req.Action == "read_all", nil
		}

		_, err := deps.service.GetAll(ctx, companyID, actorID, leave.ListFilter{})
		assert.NoError(t, err)
		assert.Nil(t, *got, "nil scope means unrestricted")
	})

	t.Run("regular employees see themselves plus direct reports", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		got := capture(deps)
		reportID := uuid.New().String()
		deps.directory.directReportIDsFn = func(ctx context.Context, companyID, managerID string) ([]string, error) {
			return []string{reportID}, nil
		}

		_, err := deps.service.GetAll(ctx, companyID, actorID, leave.ListFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []string{actorID, reportID}, *got)
	})

	t.Run("team view with no reports matches nothing", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		got := capture(deps)

		_, err := deps.service.GetAll(ctx, companyID, actorID, leave.ListFilter{View: "team-leaves"})
		assert.NoError(t, err)
		assert.NotNil(t, *got)
		assert.Empty(t, *got)
	})

	t.Run("team view narrows even privileged callers", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		got := capture(deps)
		deps.authz.enforceFn = func(req domain.EnforceRequest) (bool, error) {
			return true, nil
		}
		reportID := uuid.New().String()
		deps.directory.directReportIDsFn = func(ctx context.Context, companyID, managerID string) ([]string, error) {
			return []string{reportID}, nil
		}

		_, err := deps.service.GetAll(ctx, companyID, actorID, leave.ListFilter{View: "team-leaves"})
		assert.NoError(t, err)
		assert.Equal(t, []string{reportID}, *got)
	})
}
