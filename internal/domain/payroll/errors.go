package payroll

import "errors"

var (
	ErrSalaryStructureNotFound = errors.New("no salary structure effective for this period")
	ErrPayslipNotFound         = errors.New("payslip not found")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)
