package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
	StatusOnLeave    Status = "on-leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusTerminated, StatusOnLeave:
		return true
	}
	return false
}

type Employee struct {
	ID              string
	Name            string
	Email           string
	Position        *string
	Department      *string
	Salary          decimal.Decimal // annual
	HourlyRate      *decimal.Decimal
	Status          Status
	HireDate        time.Time
	TerminationDate *time.Time
	Phone           *string
	Address         Address
	TaxInfo         TaxInfo
	Benefits        Benefits
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type Address struct {
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

// TaxInfo is sensitive and only serialized for callers holding employee.tax_info.
type TaxInfo struct {
	TaxID        *string
	FilingStatus *string
	Allowances   int
}

type Benefits struct {
	HealthInsurance bool
	DentalInsurance bool
	RetirementPlan  bool
	LifeInsurance   bool
}

func (e Employee) IsDeleted() bool {
	return e.DeletedAt != nil
}

// DepartmentOrDefault is the reporting bucket for the employee.
func (e Employee) DepartmentOrDefault() string {
	if e.Department == nil || *e.Department == "" {
		return UnassignedDepartment
	}
	return *e.Department
}

const UnassignedDepartment = "Unassigned"
