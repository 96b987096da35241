package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required,max=50"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	HireDate     string `json:"hire_date" validate:"required,date"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validator.Struct(r).Err()
}

type EmployeeResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	HireDate     string    `json:"hire_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		IsActive:     e.IsActive,
		HireDate:     e.HireDate.Format("2006-01-02"),
		CreatedAt:    e.CreatedAt,
	}
}
