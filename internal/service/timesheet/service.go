package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type TimesheetServiceImpl struct {
	timesheetRepo timesheet.TimesheetRepository
	employeeRepo  employee.EmployeeRepository
	metrics       *metrics.Collector
	now           func() time.Time
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	employeeRepo employee.EmployeeRepository,
	collector *metrics.Collector,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		timesheetRepo: timesheetRepo,
		employeeRepo:  employeeRepo,
		metrics:       collector,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func mapTimesheetToResponse(t timesheet.Timesheet) timesheet.TimesheetResponse {
	resp := timesheet.TimesheetResponse{
		ID:              t.ID,
		EmployeeID:      t.EmployeeID,
		EmployeeName:    t.EmployeeName,
		Date:            t.Date.Format(validator.DateLayout),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		BreakTime:       t.BreakTime,
		TotalHours:      t.TotalHours,
		OvertimeHours:   t.OvertimeHours,
		Project:         t.Project,
		Description:     t.Description,
		Status:          string(t.Status),
		ApprovedBy:      t.ApprovedBy,
		RejectionReason: t.RejectionReason,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
	if t.ApprovedAt != nil {
		approvedAt := t.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

// Create implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Create(ctx context.Context, req timesheet.CreateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return timesheet.TimesheetResponse{}, timesheet.ErrEmployeeNotFound
		}
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, _ := validator.IsValidDate(req.Date)
	newTimesheet := timesheet.Timesheet{
		EmployeeID:  req.EmployeeID,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BreakTime:   req.BreakTime,
		Project:     req.Project,
		Description: req.Description,
		Status:      timesheet.StatusPending,
	}
	if err := newTimesheet.Recalculate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	created, err := s.timesheetRepo.Create(ctx, newTimesheet)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return mapTimesheetToResponse(created), nil
}

// Get implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Get(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	t, err := s.timesheetRepo.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return mapTimesheetToResponse(t), nil
}

// List implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) List(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}

	rows, total, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, fmt.Errorf("failed to list timesheets: %w", err)
	}

	timesheets := make([]timesheet.TimesheetResponse, 0, len(rows))
	for _, t := range rows {
		timesheets = append(timesheets, mapTimesheetToResponse(t))
	}

	return timesheet.ListTimesheetResponse{
		Timesheets: timesheets,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements timesheet.TimesheetService. Totals are recomputed from the
// merged clock fields on every update.
func (s *TimesheetServiceImpl) Update(ctx context.Context, req timesheet.UpdateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	t, err := s.timesheetRepo.GetByID(ctx, req.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if t.Status != timesheet.StatusPending {
		return timesheet.TimesheetResponse{}, timesheet.ErrTimesheetNotPending
	}

	if req.Date != nil {
		t.Date, _ = validator.IsValidDate(*req.Date)
	}
	if req.StartTime != nil {
		t.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		t.EndTime = *req.EndTime
	}
	if req.BreakTime != nil {
		t.BreakTime = *req.BreakTime
	}
	if req.Project != nil {
		t.Project = req.Project
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if err := t.Recalculate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	updated, err := s.timesheetRepo.Update(ctx, t)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return mapTimesheetToResponse(updated), nil
}

// Delete implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Delete(ctx context.Context, id string) error {
	t, err := s.timesheetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != timesheet.StatusPending {
		return timesheet.ErrTimesheetNotPending
	}
	return s.timesheetRepo.Delete(ctx, id)
}

// Approve implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Approve(ctx context.Context, id string, reviewerID string) (timesheet.TimesheetResponse, error) {
	return s.review(ctx, id, reviewerID, timesheet.StatusApproved, nil)
}

// Reject implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Reject(ctx context.Context, req timesheet.RejectTimesheetRequest, reviewerID string) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return s.review(ctx, req.ID, reviewerID, timesheet.StatusRejected, &req.RejectionReason)
}

func (s *TimesheetServiceImpl) review(ctx context.Context, id, reviewerID string, decision timesheet.Status, reason *string) (timesheet.TimesheetResponse, error) {
	t, err := s.timesheetRepo.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if t.Status != timesheet.StatusPending {
		return timesheet.TimesheetResponse{}, timesheet.ErrTimesheetNotPending
	}

	reviewedAt := s.now()
	t.Status = decision
	t.ApprovedBy = &reviewerID
	t.ApprovedAt = &reviewedAt
	t.RejectionReason = reason

	updated, err := s.timesheetRepo.Update(ctx, t)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	s.metrics.TimesheetReviewed(string(decision))
	slog.Info("Reviewed timesheet", "timesheet_id", id, "decision", decision, "reviewer_id", reviewerID)
	return mapTimesheetToResponse(updated), nil
}
