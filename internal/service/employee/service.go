package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:         emp.ID,
		Name:       emp.Name,
		Email:      emp.Email,
		Position:   stringOrEmpty(emp.Position),
		Department: stringOrEmpty(emp.Department),
		Salary:     emp.Salary,
		HourlyRate: emp.HourlyRate,
		Status:     string(emp.Status),
		HireDate:   emp.HireDate.Format(validator.DateLayout),
		Phone:      stringOrEmpty(emp.Phone),
		Address: employee.AddressDTO{
			Street:     emp.Address.Street,
			City:       emp.Address.City,
			State:      emp.Address.State,
			PostalCode: emp.Address.PostalCode,
			Country:    emp.Address.Country,
		},
		TaxInfo: &employee.TaxInfoDTO{
			TaxID:        emp.TaxInfo.TaxID,
			FilingStatus: emp.TaxInfo.FilingStatus,
			Allowances:   emp.TaxInfo.Allowances,
		},
		Benefits: employee.BenefitsDTO{
			HealthInsurance: emp.Benefits.HealthInsurance,
			DentalInsurance: emp.Benefits.DentalInsurance,
			RetirementPlan:  emp.Benefits.RetirementPlan,
			LifeInsurance:   emp.Benefits.LifeInsurance,
		},
		CreatedAt: emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: emp.UpdatedAt.Format(time.RFC3339),
	}
	if emp.TerminationDate != nil {
		terminated := emp.TerminationDate.Format(validator.DateLayout)
		resp.TerminationDate = &terminated
	}
	return resp
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func applyAddress(dst *employee.Address, src *employee.AddressDTO) {
	if src == nil {
		return
	}
	if src.Street != nil {
		dst.Street = src.Street
	}
	if src.City != nil {
		dst.City = src.City
	}
	if src.State != nil {
		dst.State = src.State
	}
	if src.PostalCode != nil {
		dst.PostalCode = src.PostalCode
	}
	if src.Country != nil {
		dst.Country = src.Country
	}
}

func applyTaxInfo(dst *employee.TaxInfo, src *employee.TaxInfoDTO) {
	if src == nil {
		return
	}
	if src.TaxID != nil {
		dst.TaxID = src.TaxID
	}
	if src.FilingStatus != nil {
		dst.FilingStatus = src.FilingStatus
	}
	dst.Allowances = src.Allowances
}

func applyBenefits(dst *employee.Benefits, src *employee.BenefitsDTO) {
	if src == nil {
		return
	}
	*dst = employee.Benefits{
		HealthInsurance: src.HealthInsurance,
		DentalInsurance: src.DentalInsurance,
		RetirementPlan:  src.RetirementPlan,
		LifeInsurance:   src.LifeInsurance,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, nil)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)
	newEmployee := employee.Employee{
		Name:       req.Name,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Salary:     *req.Salary,
		HourlyRate: req.HourlyRate,
		Status:     employee.Status(req.Status),
		HireDate:   hireDate,
		Phone:      req.Phone,
	}
	if req.TerminationDate != nil {
		terminationDate, _ := validator.IsValidDate(*req.TerminationDate)
		newEmployee.TerminationDate = &terminationDate
	}
	applyAddress(&newEmployee.Address, req.Address)
	applyTaxInfo(&newEmployee.TaxInfo, req.TaxInfo)
	applyBenefits(&newEmployee.Benefits, req.Benefits)

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Created employee", "employee_id", created.ID, "department", stringOrEmpty(created.Department))
	return mapEmployeeToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	rows, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]employee.EmployeeResponse, 0, len(rows))
	for _, emp := range rows {
		employees = append(employees, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Employees:  employees,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil && *req.Email != emp.Email {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, *req.Email, &emp.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee email: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
		emp.Email = *req.Email
	}
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Position != nil {
		emp.Position = req.Position
	}
	if req.Department != nil {
		emp.Department = req.Department
	}
	if req.Salary != nil {
		emp.Salary = *req.Salary
	}
	if req.HourlyRate != nil {
		emp.HourlyRate = req.HourlyRate
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
	if req.HireDate != nil {
		emp.HireDate, _ = validator.IsValidDate(*req.HireDate)
	}
	if req.TerminationDate != nil {
		terminationDate, _ := validator.IsValidDate(*req.TerminationDate)
		emp.TerminationDate = &terminationDate
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	applyAddress(&emp.Address, req.Address)
	applyTaxInfo(&emp.TaxInfo, req.TaxInfo)
	applyBenefits(&emp.Benefits, req.Benefits)

	if emp.TerminationDate != nil && emp.TerminationDate.Before(emp.HireDate) {
		var errs validator.ValidationErrors
		errs.Add("terminationDate", employee.ErrTerminationBeforeHire.Error())
		return employee.EmployeeResponse{}, errs
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	slog.Info("Deleted employee", "employee_id", id)
	return nil
}
