package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	db           database.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	rates        payroll.Rates
	metrics      *metrics.Collector
	now          func() time.Time
}

func NewPayrollService(
	db database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	rates payroll.Rates,
	collector *metrics.Collector,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		rates:        rates,
		metrics:      collector,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ========== CALCULATION ==========

// calculateItems prices every employee for the period. Employees without an
// adjustment get an empty one so the configured rates apply.
func (s *PayrollServiceImpl) calculateItems(
	ctx context.Context,
	runType payroll.Type,
	start, end time.Time,
	employees []employee.Employee,
	adjustments map[string]payroll.Adjustment,
) ([]payroll.Item, error) {
	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	summaries, err := s.payrollRepo.GetTimesheetSummary(ctx, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get timesheet summary: %w", err)
	}
	hoursByEmployee := make(map[string]payroll.TimesheetSummary, len(summaries))
	for _, summary := range summaries {
		hoursByEmployee[summary.EmployeeID] = summary
	}

	items := make([]payroll.Item, 0, len(employees))
	for _, emp := range employees {
		hours := hoursByEmployee[emp.ID]
		adj, ok := adjustments[emp.ID]
		if !ok {
			adj = payroll.Adjustment{EmployeeID: emp.ID}
		}

		item := s.rates.CalculateItem(runType, payroll.EmployeeInput{
			EmployeeID:    emp.ID,
			AnnualSalary:  emp.Salary,
			HourlyRate:    emp.HourlyRate,
			HoursWorked:   payroll.HoursFromFloat(hours.TotalHours),
			OvertimeHours: payroll.HoursFromFloat(hours.OvertimeHours),
		}, adj)

		name, email := emp.Name, emp.Email
		item.EmployeeName = &name
		item.EmployeeEmail = &email
		item.Department = emp.Department
		item.Position = emp.Position
		items = append(items, item)
	}

	return items, nil
}

// buildRun validates the request and computes an unsaved draft run.
func (s *PayrollServiceImpl) buildRun(ctx context.Context, req *payroll.CreatePayrollRequest) (payroll.Payroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payroll{}, err
	}

	employees, err := s.employeeRepo.GetForPayroll(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to get employees: %w", err)
	}

	var errs validator.ValidationErrors
	included := make(map[string]bool, len(employees))
	for _, emp := range employees {
		included[emp.ID] = true
	}
	for i, id := range req.EmployeeIDs {
		if !included[id] {
			errs.Add(fmt.Sprintf("employeeIds[%d]", i), employee.ErrEmployeeNotFound.Error())
		}
	}
	adjustments := make(map[string]payroll.Adjustment, len(req.Adjustments))
	for i, adj := range req.Adjustments {
		if !included[adj.EmployeeID] {
			errs.Add(fmt.Sprintf("adjustments[%d].employeeId", i), payroll.ErrPayrollItemNotFound.Error())
		}
		adjustments[adj.EmployeeID] = adj
	}
	if err := errs.Err(); err != nil {
		return payroll.Payroll{}, err
	}
	if len(employees) == 0 {
		return payroll.Payroll{}, payroll.ErrNoEligibleEmployees
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	runType := payroll.Type(req.Type)

	items, err := s.calculateItems(ctx, runType, start, end, employees, adjustments)
	if err != nil {
		return payroll.Payroll{}, err
	}

	run := payroll.Payroll{
		Period:        req.Period,
		StartDate:     start,
		EndDate:       end,
		Type:          runType,
		Status:        payroll.PayrollStatusDraft,
		PaymentMethod: payroll.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		Items:         items,
	}
	run.ApplyTotals()
	return run, nil
}

// ========== PAYROLL RUNS ==========

// Preview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	run, err := s.buildRun(ctx, &req)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapPayrollToResponse(run, true), nil
}

// Create implements payroll.PayrollService. The reference is allocated in the
// same transaction as the run so a failed insert does not consume it.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest, createdBy string) (payroll.PayrollResponse, error) {
	run, err := s.buildRun(ctx, &req)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if createdBy != "" {
		run.CreatedBy = &createdBy
	}

	var created payroll.Payroll
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		month := payroll.ReferenceMonth(s.now())
		seq, err := s.payrollRepo.NextReferenceSequence(txCtx, month)
		if err != nil {
			return fmt.Errorf("failed to allocate payroll reference: %w", err)
		}
		run.Reference = payroll.FormatReference(month, seq)

		created, err = s.payrollRepo.Create(txCtx, run)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.metrics.PayrollEvent("created")
	slog.Info("Created payroll", "payroll_id", created.ID, "reference", created.Reference,
		"employee_count", created.EmployeeCount, "net_amount", created.NetAmount.String())
	return mapPayrollToResponse(created, true), nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	run, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapPayrollToResponse(run, true), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	rows, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	payrolls := make([]payroll.PayrollResponse, 0, len(rows))
	for _, run := range rows {
		payrolls = append(payrolls, mapPayrollToResponse(run, false))
	}

	return payroll.ListPayrollResponse{
		Payrolls:   payrolls,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements payroll.PayrollService. Only draft runs change; every item
// is recomputed so totals stay consistent with the items.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	run, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if run.Status != payroll.PayrollStatusDraft {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotEditable
	}

	if req.Period != nil {
		run.Period = *req.Period
	}
	if req.PaymentMethod != nil {
		run.PaymentMethod = payroll.PaymentMethod(*req.PaymentMethod)
	}
	if req.Notes != nil {
		run.Notes = req.Notes
	}

	adjustments := make(map[string]payroll.Adjustment, len(run.Items))
	employeeIDs := make([]string, 0, len(run.Items))
	for _, item := range run.Items {
		adj := item.Adjustment
		adj.EmployeeID = item.EmployeeID
		adjustments[item.EmployeeID] = adj
		employeeIDs = append(employeeIDs, item.EmployeeID)
	}
	var errs validator.ValidationErrors
	for i, adj := range req.Adjustments {
		if _, ok := adjustments[adj.EmployeeID]; !ok {
			errs.Add(fmt.Sprintf("adjustments[%d].employeeId", i), payroll.ErrPayrollItemNotFound.Error())
			continue
		}
		adjustments[adj.EmployeeID] = adj
	}
	if err := errs.Err(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	employees, err := s.employeeRepo.GetForPayroll(ctx, employeeIDs)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	recomputed, err := s.calculateItems(ctx, run.Type, run.StartDate, run.EndDate, employees, adjustments)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	// Employees deleted since the run was drafted keep their last computed item.
	byEmployee := make(map[string]payroll.Item, len(recomputed))
	for _, item := range recomputed {
		byEmployee[item.EmployeeID] = item
	}
	items := make([]payroll.Item, 0, len(run.Items))
	for _, existing := range run.Items {
		item, ok := byEmployee[existing.EmployeeID]
		if !ok {
			item = existing
		}
		item.ID = existing.ID
		items = append(items, item)
	}
	run.Items = items
	run.ApplyTotals()

	// The guarded header write goes first so a run processed or cancelled
	// since it was read keeps its items.
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.Update(txCtx, run, payroll.PayrollStatusDraft); err != nil {
			return err
		}
		return s.payrollRepo.ReplaceItems(txCtx, run.ID, run.Items)
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, run.ID)
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	run, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != payroll.PayrollStatusDraft && run.Status != payroll.PayrollStatusCancelled {
		return payroll.ErrPayrollNotDeletable
	}
	if err := s.payrollRepo.Delete(ctx, id, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled); err != nil {
		return err
	}
	slog.Info("Deleted payroll", "payroll_id", id, "reference", run.Reference)
	return nil
}

// Process implements payroll.PayrollService.
func (s *PayrollServiceImpl) Process(ctx context.Context, req payroll.ProcessPayrollRequest, processedBy string) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.transition(ctx, req.ID, payroll.PayrollStatus(req.Status), processedBy)
}

// Cancel implements payroll.PayrollService.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string, cancelledBy string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, payroll.PayrollStatusCancelled, cancelledBy)
}

// transition writes the status change only if the run is still in the status
// it was read in. processed_* record who moved the run forward; a cancel
// leaves them as they were.
func (s *PayrollServiceImpl) transition(ctx context.Context, id string, next payroll.PayrollStatus, actorID string) (payroll.PayrollResponse, error) {
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !run.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusTransition, run.Status, next)
		}

		var processedBy *string
		var processedAt *time.Time
		if next != payroll.PayrollStatusCancelled {
			now := s.now()
			processedBy, processedAt = &actorID, &now
		}
		if err := s.payrollRepo.UpdateStatus(txCtx, id, run.Status, next, processedBy, processedAt); err != nil {
			return err
		}
		return s.payrollRepo.UpdateItemStatuses(txCtx, id, next.ItemStatus())
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	switch next {
	case payroll.PayrollStatusProcessed, payroll.PayrollStatusPaid, payroll.PayrollStatusCancelled:
		s.metrics.PayrollEvent(string(next))
	}
	slog.Info("Changed payroll status", "payroll_id", id, "status", next, "actor_id", actorID)

	return s.Get(ctx, id)
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, payrollID, employeeID string) (payroll.PayslipResponse, error) {
	run, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	for _, item := range run.Items {
		if item.EmployeeID != employeeID {
			continue
		}
		return payroll.PayslipResponse{
			Reference:     run.Reference,
			Period:        run.Period,
			StartDate:     run.StartDate.Format(validator.DateLayout),
			EndDate:       run.EndDate.Format(validator.DateLayout),
			PaymentMethod: string(run.PaymentMethod),
			PayrollStatus: string(run.Status),
			Item:          mapItemToResponse(item),
		}, nil
	}
	return payroll.PayslipResponse{}, payroll.ErrPayrollItemNotFound
}

// ========== MAPPING ==========

func mapItemToResponse(item payroll.Item) payroll.PayrollItemResponse {
	return payroll.PayrollItemResponse{
		ID:               item.ID,
		EmployeeID:       item.EmployeeID,
		EmployeeName:     item.EmployeeName,
		EmployeeEmail:    item.EmployeeEmail,
		Department:       item.Department,
		Position:         item.Position,
		BaseSalary:       item.BaseSalary,
		HoursWorked:      item.HoursWorked,
		OvertimeHours:    item.OvertimeHours,
		OvertimeRate:     item.OvertimeRate,
		OvertimePay:      item.OvertimePay,
		Bonuses:          item.Bonuses,
		CustomBonuses:    nonNilLines(item.CustomBonuses),
		Allowances:       item.Allowances,
		GrossPay:         item.GrossPay(),
		Deductions:       item.Deductions,
		CustomDeductions: nonNilLines(item.CustomDeductions),
		Taxes:            item.Taxes,
		NetPay:           item.NetPay,
		Status:           string(item.Status),
	}
}

func mapPayrollToResponse(run payroll.Payroll, withItems bool) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:            run.ID,
		Reference:     run.Reference,
		Period:        run.Period,
		StartDate:     run.StartDate.Format(validator.DateLayout),
		EndDate:       run.EndDate.Format(validator.DateLayout),
		Type:          string(run.Type),
		Status:        string(run.Status),
		TotalAmount:   run.TotalAmount,
		EmployeeCount: run.EmployeeCount,
		Deductions:    run.Deductions,
		Taxes:         run.Taxes,
		NetAmount:     run.NetAmount,
		PaymentMethod: string(run.PaymentMethod),
		Notes:         run.Notes,
		CreatedBy:     run.CreatedBy,
		ProcessedBy:   run.ProcessedBy,
	}
	if run.ProcessedAt != nil {
		processedAt := run.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processedAt
	}
	if !run.CreatedAt.IsZero() {
		resp.CreatedAt = run.CreatedAt.Format(time.RFC3339)
		resp.UpdatedAt = run.UpdatedAt.Format(time.RFC3339)
	}

	if withItems {
		items := make([]payroll.Item, len(run.Items))
		copy(items, run.Items)
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(stringOrEmpty(items[i].EmployeeName)) < strings.ToLower(stringOrEmpty(items[j].EmployeeName))
		})
		resp.Items = make([]payroll.PayrollItemResponse, 0, len(items))
		for _, item := range items {
			resp.Items = append(resp.Items, mapItemToResponse(item))
		}
	}
	return resp
}

func nonNilLines(lines []payroll.LineItem) []payroll.LineItem {
	if lines == nil {
		return []payroll.LineItem{}
	}
	return lines
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
