package payroll

import "context"

type PayrollService interface {
	CreateSalaryStructure(ctx context.Context, req CreateSalaryStructureRequest) (SalaryStructureResponse, error)

	// RunPayroll generates payslips for every active employee. Per-employee
	// failures are reported in the response and do not abort the run.
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error)
	GeneratePayslip(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)
	GetPayslip(ctx context.Context, userID string, month, year int) (PayslipResponse, error)
}
