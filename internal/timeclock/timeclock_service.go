package timeclock

import (
	"context"
	"errors"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"
	timeclockerrors "go-hrms/internal/timeclock/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	statusPresent = "PRESENT"
	statusLate    = "LATE"
)

// lateThreshold is when a clock-in flips from PRESENT to LATE, in UTC.
var lateThreshold = struct{ hour, minute int }{9, 15}

//go:generate mockgen -source=timeclock_service.go -destination=mock/timeclock_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (TimeEntryResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]TimeEntryResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (TimeEntryResponse, error) {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	_, err := s.repo.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err == nil {
		return TimeEntryResponse{}, timeclockerrors.ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}

	status := statusPresent
	if now.Hour() > lateThreshold.hour ||
		(now.Hour() == lateThreshold.hour && now.Minute() > lateThreshold.minute) {
		status = statusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &TimeEntry{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: uuid.MustParse(employeeID),
		WorkDate:   today,
		ClockIn:    now,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Status:     status,
		Source:     source,
		Notes:      req.Notes,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return TimeEntryResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (TimeEntryResponse, error) {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := s.repo.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeclockerrors.ErrNoOpenEntry
		}
		return TimeEntryResponse{}, err
	}
	if row.ClockOut != nil {
		return TimeEntryResponse{}, timeclockerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return TimeEntryResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]TimeEntryResponse, error) {
	var (
		rows []TimeEntry
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]TimeEntryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:          e.ID.String(),
		CompanyID:   e.CompanyID.String(),
		EmployeeID:  e.EmployeeID.String(),
		WorkDate:    e.WorkDate.Format("2006-01-02"),
		ClockIn:     e.ClockIn.Format(time.RFC3339),
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Status:      e.Status,
		Source:      e.Source,
		ExternalRef: e.ExternalRef,
		Notes:       e.Notes,
	}
	if e.ClockOut != nil {
		v := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if e.Employee != nil {
		resp.EmployeeName = e.Employee.FullName
	}
	return resp
}
