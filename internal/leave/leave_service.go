package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/domain"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Authorizer answers capability questions; satisfied by rbac.Service.
type Authorizer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// BalanceReconciler adjusts the employee leave balance; satisfied by
// employee.BalanceRepository. The leave workflow mutates the balance
// but does not own it.
type BalanceReconciler interface {
	Consume(ctx context.Context, companyID, employeeID string, days int) error
	Restore(ctx context.Context, companyID, employeeID string, days int) error
}

// EmployeeDirectory resolves reporting lines for list scoping; satisfied
// by employee.Repository.
type EmployeeDirectory interface {
	DirectReportIDs(ctx context.Context, companyID, managerID string) ([]string, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID, actorEmployeeID string, filter ListFilter) ([]LeaveResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, companyID, actorID, id string, req UpdateStatusRequest) (LeaveResponse, error)
	FullUpdate(ctx context.Context, companyID, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	ManagerApproval(ctx context.Context, companyID, actorID, id string, req ManagerApprovalRequest) (LeaveResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db        *gorm.DB
	repo      Repository
	balances  BalanceReconciler
	directory EmployeeDirectory
	authz     Authorizer
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balances BalanceReconciler,
	directory EmployeeDirectory,
	authz Authorizer,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		balances:  balances,
		directory: directory,
		authz:     authz,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if !ValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	belongs, err := s.repo.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:                    uuid.New(),
		CompanyID:             companyUUID,
		EmployeeID:            employeeUUID,
		LeaveType:             req.LeaveType,
		StartDate:             startDate,
		EndDate:               endDate,
		TotalDays:             DayCount(startDate, endDate),
		Reason:                req.Reason,
		Comments:              req.Comments,
		Status:                StatusPending,
		ManagerApprovalStatus: StatusPending,
		CreatedBy:             createdByUUID,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", l.TotalDays),
	)
	return mapToResponse(*l), nil
}

// GetAll applies a single scope predicate instead of separate code paths
// per caller type: privileged callers see the whole tenant, everyone
// else sees themselves plus their direct reports. The team-leaves view
// narrows any caller to direct reports only.
func (s *service) GetAll(ctx context.Context, companyID, actorEmployeeID string, filter ListFilter) ([]LeaveResponse, error) {
	allowed, err := s.scopeEmployeeIDs(ctx, companyID, actorEmployeeID, filter.View)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.List(ctx, companyID, filter, allowed)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// scopeEmployeeIDs returns nil for an unrestricted scope.
func (s *service) scopeEmployeeIDs(ctx context.Context, companyID, actorEmployeeID, view string) ([]string, error) {
	canReadAll := false
	if s.authz != nil && actorEmployeeID != "" {
		var err error
		canReadAll, err = s.authz.Enforce(domain.EnforceRequest{
			EmployeeID: actorEmployeeID,
			CompanyID:  companyID,
			Resource:   "leave",
			Action:     "read_all",
		})
		if err != nil {
			return nil, err
		}
	}

	if view == "team-leaves" {
		reports, err := s.directory.DirectReportIDs(ctx, companyID, actorEmployeeID)
		if err != nil {
			return nil, err
		}
		if len(reports) == 0 {
			// Non-nil empty scope matches nothing.
			return []string{}, nil
		}
		return reports, nil
	}

	if canReadAll {
		return nil, nil
	}

	if _, err := uuid.Parse(actorEmployeeID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	reports, err := s.directory.DirectReportIDs(ctx, companyID, actorEmployeeID)
	if err != nil {
		return nil, err
	}
	return append([]string{actorEmployeeID}, reports...), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// UpdateStatus is the admin status patch. RBAC middleware has already
// checked the leave:approve capability before this runs.
func (s *service) UpdateStatus(ctx context.Context, companyID, actorID, id string, req UpdateStatusRequest) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	oldStatus := l.Status
	l.Status = EffectiveStatus(ChannelDirect, oldStatus, req.Status)
	if req.Comments != nil {
		l.Comments = *req.Comments
	}

	if err := s.commitTransition(ctx, l, oldStatus); err != nil {
		return LeaveResponse{}, err
	}

	s.reconcileBalance(ctx, l, oldStatus, l.Status, l.TotalDays)

	s.logger.Info("leave status updated",
		zap.String("leave_id", id),
		zap.String("old_status", oldStatus),
		zap.String("new_status", l.Status),
	)
	return mapToResponse(*l), nil
}

// FullUpdate merges the non-nil request fields onto the stored record.
// A manager_approval.status of APPROVED inside the merge promotes the
// main status; a REJECTED there does not demote it.
func (s *service) FullUpdate(ctx context.Context, companyID, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	oldStatus := l.Status
	oldDays := l.TotalDays

	if req.LeaveType != nil {
		if !ValidLeaveType(*req.LeaveType) {
			return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
		}
		l.LeaveType = *req.LeaveType
	}
	datesChanged := false
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.StartDate = start
		datesChanged = true
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.EndDate = end
		datesChanged = true
	}
	if l.StartDate.After(l.EndDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if datesChanged {
		l.TotalDays = DayCount(l.StartDate, l.EndDate)
	}
	if req.Reason != nil {
		if strings.TrimSpace(*req.Reason) == "" {
			return LeaveResponse{}, leaveerrors.ErrReasonRequired
		}
		l.Reason = *req.Reason
	}
	if req.Comments != nil {
		l.Comments = *req.Comments
	}

	finalStatus := oldStatus
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return LeaveResponse{}, leaveerrors.ErrInvalidStatus
		}
		finalStatus = EffectiveStatus(ChannelDirect, finalStatus, *req.Status)
	}
	if req.ManagerApproval != nil {
		if req.ManagerApproval.Status != nil {
			l.ManagerApprovalStatus = *req.ManagerApproval.Status
			finalStatus = EffectiveStatus(ChannelManagerApproval, finalStatus, *req.ManagerApproval.Status)
		}
		if req.ManagerApproval.Comments != nil {
			l.ManagerApprovalComments = *req.ManagerApproval.Comments
		}
	}
	l.Status = finalStatus

	if err := s.commitTransition(ctx, l, oldStatus); err != nil {
		return LeaveResponse{}, err
	}

	// A revert hands back the days that were consumed at approval, which
	// is the span as it stood before this merge; only a fresh consume may
	// use the recomputed count.
	days := l.TotalDays
	if DecideBalanceAction(oldStatus, l.Status) == BalanceRestore {
		days = oldDays
	}
	s.reconcileBalance(ctx, l, oldStatus, l.Status, days)

	s.logger.Info("leave updated",
		zap.String("leave_id", id),
		zap.String("old_status", oldStatus),
		zap.String("new_status", l.Status),
	)
	return mapToResponse(*l), nil
}

// ManagerApproval records the reporting manager's decision. The caller
// must be the employee's manager, hold the leave:approve capability, or
// the employee must have no manager assigned.
func (s *service) ManagerApproval(ctx context.Context, companyID, actorID, id string, req ManagerApprovalRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	allowed, err := s.canActOnApproval(ctx, companyID, actorID, l.EmployeeID.String())
	if err != nil {
		return LeaveResponse{}, err
	}
	if !allowed {
		return LeaveResponse{}, leaveerrors.ErrNotReportingManager
	}

	oldStatus := l.Status
	now := time.Now().UTC()
	l.ManagerApprovalStatus = req.Status
	l.ManagerApprovedBy = &actorUUID
	l.ManagerApprovedAt = &now
	if req.Comments != nil {
		l.ManagerApprovalComments = *req.Comments
	}

	// An approval promotes through the manager channel; a rejection is
	// this endpoint speaking for the main status directly.
	if req.Status == StatusApproved {
		l.Status = EffectiveStatus(ChannelManagerApproval, oldStatus, StatusApproved)
	} else {
		l.Status = EffectiveStatus(ChannelDirect, oldStatus, StatusRejected)
	}

	if err := s.commitTransition(ctx, l, oldStatus); err != nil {
		return LeaveResponse{}, err
	}

	s.reconcileBalance(ctx, l, oldStatus, l.Status, l.TotalDays)

	s.logger.Info("manager approval recorded",
		zap.String("leave_id", id),
		zap.String("decision", req.Status),
		zap.String("old_status", oldStatus),
		zap.String("new_status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) canActOnApproval(ctx context.Context, companyID, actorID, employeeID string) (bool, error) {
	managerID, err := s.repo.FindEmployeeManagerID(ctx, companyID, employeeID)
	if err != nil {
		return false, err
	}
	if managerID == "" {
		return true, nil
	}
	if managerID == actorID {
		return true, nil
	}
	if s.authz == nil {
		return false, nil
	}
	return s.authz.Enforce(domain.EnforceRequest{
		EmployeeID: actorID,
		CompanyID:  companyID,
		Resource:   "leave",
		Action:     "approve",
	})
}

// Delete removes the record behind the status guard: the row must still
// carry the status we read, otherwise a racing delete or transition has
// already settled the balance and we surface a conflict instead of
// crediting it twice. If it was APPROVED the consumed days are handed
// back after the commit; a failed restore is recorded and does not undo
// the delete.
func (s *service) Delete(ctx context.Context, companyID, id string) error {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	oldStatus := l.Status

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.repo.WithTx(tx).Delete(ctx, companyID, id, oldStatus)
		if err != nil {
			return err
		}
		if !deleted {
			s.logger.Warn("leave delete lost race",
				zap.String("leave_id", id),
				zap.String("expected_status", oldStatus),
			)
			return leaveerrors.ErrTransitionConflict
		}
		return s.enqueueStatusChanged(ctx, tx, l, oldStatus, StatusDeleted)
	})
	if err != nil {
		if errors.Is(err, leaveerrors.ErrTransitionConflict) {
			return err
		}
		s.logger.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	s.reconcileBalance(ctx, l, oldStatus, StatusDeleted, l.TotalDays)

	s.logger.Info("delete leave success",
		zap.String("leave_id", id),
		zap.String("old_status", oldStatus),
	)
	return nil
}

// commitTransition persists the mutated record behind the CAS guard and
// enqueues the status-changed event in the same transaction. A lost race
// surfaces as ErrTransitionConflict and nothing is written.
func (s *service) commitTransition(ctx context.Context, l *Leave, oldStatus string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swapped, err := s.repo.WithTx(tx).CompareAndSwapStatus(ctx, l, oldStatus)
		if err != nil {
			return err
		}
		if !swapped {
			s.logger.Warn("leave transition lost race",
				zap.String("leave_id", l.ID.String()),
				zap.String("expected_status", oldStatus),
			)
			return leaveerrors.ErrTransitionConflict
		}

		if l.Status == oldStatus {
			return nil
		}
		return s.enqueueStatusChanged(ctx, tx, l, oldStatus, l.Status)
	})
}

func (s *service) enqueueStatusChanged(ctx context.Context, tx *gorm.DB, l *Leave, oldStatus, newStatus string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveStatusChangedEvent{
		EventType:  events.EventLeaveStatusChanged,
		RequestID:  contextutil.GetRequestID(ctx),
		LeaveID:    l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		TotalDays:  l.TotalDays,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sqlTx, ok := tx.Statement.ConnPool.(*sql.Tx)
	if !ok {
		return errors.New("transaction does not expose a sql.Tx")
	}
	return s.outbox.WithTx(sqlTx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// reconcileBalance applies the balance side effect of a committed
// transition. days is chosen by the caller: a restore must hand back the
// amount that was consumed, which may differ from the record's current
// span after a merge. The leave write has already committed, so a failure
// here is swallowed but never silent: it is logged and recorded as a
// reconciliation-failed event for operators.
func (s *service) reconcileBalance(ctx context.Context, l *Leave, oldStatus, newStatus string, days int) {
	action := DecideBalanceAction(oldStatus, newStatus)
	if action == BalanceNone {
		return
	}

	companyID := l.CompanyID.String()
	employeeID := l.EmployeeID.String()

	var err error
	switch action {
	case BalanceConsume:
		err = s.balances.Consume(ctx, companyID, employeeID, days)
	case BalanceRestore:
		err = s.balances.Restore(ctx, companyID, employeeID, days)
	}
	if err == nil {
		return
	}

	s.logger.Warn("leave balance reconciliation failed",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("action", action.String()),
		zap.Int("days", days),
		zap.Error(err),
	)

	if s.outbox == nil {
		return
	}
	event := events.LeaveReconciliationFailedEvent{
		EventType:  events.EventLeaveReconciliationFailed,
		RequestID:  contextutil.GetRequestID(ctx),
		LeaveID:    l.ID.String(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Action:     action.String(),
		Days:       days,
		Reason:     err.Error(),
		OccurredAt: time.Now().UTC(),
	}
	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		s.logger.Error("marshal reconciliation event failed", zap.Error(marshalErr))
		return
	}
	if obErr := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); obErr != nil {
		s.logger.Error("record reconciliation failure event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(obErr),
		)
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Comments:   l.Comments,
		Status:     l.Status,
		CreatedBy:  l.CreatedBy.String(),
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		ManagerApproval: ManagerApprovalResponse{
			Status:   l.ManagerApprovalStatus,
			Comments: l.ManagerApprovalComments,
		},
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.ManagerApprovedBy != nil {
		v := l.ManagerApprovedBy.String()
		resp.ManagerApproval.ApprovedBy = &v
	}
	if l.ManagerApprovedAt != nil {
		v := l.ManagerApprovedAt.Format(time.RFC3339)
		resp.ManagerApproval.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
