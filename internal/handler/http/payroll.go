package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PayrollHandler interface {
	ListPayrolls(w http.ResponseWriter, r *http.Request)
	GetPayroll(w http.ResponseWriter, r *http.Request)
	PreviewPayroll(w http.ResponseWriter, r *http.Request)
	CreatePayroll(w http.ResponseWriter, r *http.Request)
	UpdatePayroll(w http.ResponseWriter, r *http.Request)
	DeletePayroll(w http.ResponseWriter, r *http.Request)
	ProcessPayroll(w http.ResponseWriter, r *http.Request)
	CancelPayroll(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListPayrolls implements PayrollHandler
func (h *payrollHandlerImpl) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	var filter payroll.PayrollFilter
	filter.Status = queryParam(r, "status")
	filter.Type = queryParam(r, "type")
	filter.Page, filter.Limit = pagination(r)

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		slog.Error("ListPayrolls service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPayroll implements PayrollHandler
func (h *payrollHandlerImpl) GetPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PreviewPayroll implements PayrollHandler
func (h *payrollHandlerImpl) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		slog.Error("PreviewPayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreatePayroll implements PayrollHandler
func (h *payrollHandlerImpl) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req payroll.CreatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Create(r.Context(), req, claims.UserID)
	if err != nil {
		slog.Error("CreatePayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll created successfully", result)
}

// UpdatePayroll implements PayrollHandler
func (h *payrollHandlerImpl) UpdatePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.Update(r.Context(), req)
	if err != nil {
		slog.Error("UpdatePayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll updated successfully", result)
}

// DeletePayroll implements PayrollHandler
func (h *payrollHandlerImpl) DeletePayroll(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("DeletePayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll deleted successfully", nil)
}

// ProcessPayroll implements PayrollHandler. An empty body advances to processed.
func (h *payrollHandlerImpl) ProcessPayroll(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req payroll.ProcessPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.Process(r.Context(), req, claims.UserID)
	if err != nil {
		slog.Error("ProcessPayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated to "+result.Status, result)
}

// CancelPayroll implements PayrollHandler
func (h *payrollHandlerImpl) CancelPayroll(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.payrollService.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		slog.Error("CancelPayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cancelled", result)
}

// GetPayslip implements PayrollHandler. Payroll viewers see any payslip;
// other callers only their own. ?format=pdf streams a printable document.
func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	employeeID := chi.URLParam(r, "employeeId")
	own := claims.EmployeeID != nil && *claims.EmployeeID == employeeID
	if !own && !claims.Can(user.PermissionPayrollView) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	result, err := h.payrollService.Payslip(r.Context(), chi.URLParam(r, "id"), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") != "pdf" {
		response.Success(w, result)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePayslip(&buf, payslipDocument(result)); err != nil {
		slog.Error("Payslip render error", "error", err)
		response.InternalServerError(w, "Failed to render payslip")
		return
	}
	filename := fmt.Sprintf("payslip-%s-%s.pdf", result.Reference, employeeID)
	response.File(w, filename, "application/pdf", buf.Bytes())
}

func payslipDocument(p payroll.PayslipResponse) export.Payslip {
	item := p.Item
	money := func(d decimal.Decimal) string { return d.StringFixed(2) }
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	earnings := []export.PayslipLine{
		{Label: "Base salary", Amount: money(item.BaseSalary)},
		{Label: fmt.Sprintf("Overtime (%s h @ %s)", item.OvertimeHours.StringFixed(2), money(item.OvertimeRate)), Amount: money(item.OvertimePay)},
		{Label: "Bonuses", Amount: money(item.Bonuses)},
	}
	for _, b := range item.CustomBonuses {
		earnings = append(earnings, export.PayslipLine{Label: b.Name, Amount: money(b.Amount)})
	}
	earnings = append(earnings, export.PayslipLine{Label: "Allowances", Amount: money(item.Allowances)})

	deductions := []export.PayslipLine{
		{Label: "Deductions", Amount: money(item.Deductions)},
	}
	for _, d := range item.CustomDeductions {
		deductions = append(deductions, export.PayslipLine{Label: d.Name, Amount: money(d.Amount)})
	}
	deductions = append(deductions, export.PayslipLine{Label: "Taxes", Amount: money(item.Taxes)})

	return export.Payslip{
		Reference:     p.Reference,
		Period:        fmt.Sprintf("%s (%s - %s)", p.Period, p.StartDate, p.EndDate),
		EmployeeName:  deref(item.EmployeeName),
		EmployeeEmail: deref(item.EmployeeEmail),
		Department:    deref(item.Department),
		PaymentMethod: p.PaymentMethod,
		Status:        p.PayrollStatus,
		Earnings:      earnings,
		Deductions:    deductions,
		GrossPay:      money(item.GrossPay),
		NetPay:        money(item.NetPay),
	}
}
