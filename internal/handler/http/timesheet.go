package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	ListTimesheets(w http.ResponseWriter, r *http.Request)
	GetTimesheet(w http.ResponseWriter, r *http.Request)
	CreateTimesheet(w http.ResponseWriter, r *http.Request)
	UpdateTimesheet(w http.ResponseWriter, r *http.Request)
	DeleteTimesheet(w http.ResponseWriter, r *http.Request)
	ApproveTimesheet(w http.ResponseWriter, r *http.Request)
	RejectTimesheet(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// ownEmployee returns the employee the caller is restricted to, or "" when
// the caller reviews timesheets and may act on anyone's.
func ownEmployee(r *http.Request) (string, error) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if claims.Can(user.PermissionTimesheetReview) {
		return "", nil
	}
	if claims.EmployeeID == nil {
		return "", user.ErrInsufficientPermissions
	}
	return *claims.EmployeeID, nil
}

// authorize loads the sheet and hides it from self-scoped callers who do not own it.
func (h *timesheetHandlerImpl) authorize(ctx context.Context, r *http.Request, id string) error {
	own, err := ownEmployee(r)
	if err != nil {
		return err
	}
	if own == "" {
		return nil
	}
	sheet, err := h.timesheetService.Get(ctx, id)
	if err != nil {
		return err
	}
	if sheet.EmployeeID != own {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// ListTimesheets implements TimesheetHandler
func (h *timesheetHandlerImpl) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	own, err := ownEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var filter timesheet.TimesheetFilter
	filter.EmployeeID = queryParam(r, "employeeId")
	filter.Status = queryParam(r, "status")
	filter.From = queryParam(r, "from")
	filter.To = queryParam(r, "to")
	filter.Page, filter.Limit = pagination(r)
	if own != "" {
		filter.EmployeeID = &own
	}

	result, err := h.timesheetService.List(r.Context(), filter)
	if err != nil {
		slog.Error("ListTimesheets service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorize(r.Context(), r, id); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timesheetService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	own, err := ownEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timesheet.CreateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if own != "" {
		if req.EmployeeID != "" && req.EmployeeID != own {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		req.EmployeeID = own
	}

	result, err := h.timesheetService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreateTimesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet created successfully", result)
}

// UpdateTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req timesheet.UpdateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := h.authorize(r.Context(), r, id); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timesheetService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdateTimesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet updated successfully", result)
}

// DeleteTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.authorize(r.Context(), r, id); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.timesheetService.Delete(r.Context(), id); err != nil {
		slog.Error("DeleteTimesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet deleted successfully", nil)
}

// ApproveTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.timesheetService.Approve(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		slog.Error("ApproveTimesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet approved", result)
}

// RejectTimesheet implements TimesheetHandler
func (h *timesheetHandlerImpl) RejectTimesheet(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	// An empty body falls through to validation, which names the missing reason.
	var req timesheet.RejectTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timesheetService.Reject(r.Context(), req, claims.UserID)
	if err != nil {
		slog.Error("RejectTimesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet rejected", result)
}
