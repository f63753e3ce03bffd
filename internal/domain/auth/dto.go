package auth

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
	TokenType   string `json:"tokenType"`
	Role        string `json:"role"`
}

// CreateUserRequest is used by the operator CLI to seed dashboard accounts.
type CreateUserRequest struct {
	Email      string
	Password   string
	Role       string
	EmployeeID *string
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", user.ErrInvalidEmailFormat.Error())
	}
	if len(r.Password) < 8 {
		errs.Add("password", user.ErrInvalidPasswordLength.Error())
	}
	if !user.Role(r.Role).IsValid() {
		errs.Add("role", user.ErrInvalidRole.Error())
	}

	return errs.Err()
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employeeId,omitempty"`
}
