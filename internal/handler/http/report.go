package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	PayrollSummary(w http.ResponseWriter, r *http.Request)
	TimesheetSummary(w http.ResponseWriter, r *http.Request)
	DepartmentSummary(w http.ResponseWriter, r *http.Request)
	TopEmployees(w http.ResponseWriter, r *http.Request)
	OvertimeLeaders(w http.ResponseWriter, r *http.Request)
	TimesheetTrends(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// limitParam returns 0 when absent so the service default applies.
func limitParam(r *http.Request) (int, bool) {
	l := r.URL.Query().Get("limit")
	if l == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(l)
	return limit, err == nil
}

func (h *reportHandlerImpl) PayrollSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PayrollSummary(r.Context())
	if err != nil {
		slog.Error("PayrollSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) TimesheetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TimesheetSummary(r.Context())
	if err != nil {
		slog.Error("TimesheetSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) DepartmentSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DepartmentSummary(r.Context())
	if err != nil {
		slog.Error("DepartmentSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) TopEmployees(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		response.BadRequest(w, "limit must be a number", nil)
		return
	}

	result, err := h.reportService.TopEmployees(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) OvertimeLeaders(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		response.BadRequest(w, "limit must be a number", nil)
		return
	}

	result, err := h.reportService.OvertimeLeaders(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reportHandlerImpl) TimesheetTrends(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TimesheetTrends(r.Context())
	if err != nil {
		slog.Error("TimesheetTrends service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Export streams a report as an attachment: /export/employees?format=csv
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		Type:   chi.URLParam(r, "type"),
		Format: r.URL.Query().Get("format"),
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		slog.Error("Export service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Body)
}
