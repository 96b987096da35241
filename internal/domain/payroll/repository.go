package payroll

import (
	"context"
	"time"
)

type SalaryStructureRepository interface {
	Create(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
	// GetEffective returns the structure with the latest effective date on or before date.
	GetEffective(ctx context.Context, userID string, date time.Time) (SalaryStructure, error)
}

type PayslipRepository interface {
	Get(ctx context.Context, userID string, month, year int) (Payslip, error)
	// GetForUpdate locks the payslip row for the period, returning ErrPayslipNotFound when absent.
	GetForUpdate(ctx context.Context, userID string, month, year int) (Payslip, error)
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	Update(ctx context.Context, payslip Payslip) (Payslip, error)
}
