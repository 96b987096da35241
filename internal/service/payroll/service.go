package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

// SummaryProvider supplies the attendance facts a payslip is computed from.
type SummaryProvider interface {
	GetMonthlySummary(ctx context.Context, userID string, year int, month time.Month, asOf time.Time) (attendance.Summary, error)
	Today() time.Time
}

type PayrollServiceImpl struct {
	tx           database.Transactor
	salaryRepo   payroll.SalaryStructureRepository
	payslipRepo  payroll.PayslipRepository
	employeeRepo employee.EmployeeRepository
	summaries    SummaryProvider
	calculator   *Calculator
}

func NewPayrollService(
	tx database.Transactor,
	salaryRepo payroll.SalaryStructureRepository,
	payslipRepo payroll.PayslipRepository,
	employeeRepo employee.EmployeeRepository,
	summaries SummaryProvider,
	calculator *Calculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		salaryRepo:   salaryRepo,
		payslipRepo:  payslipRepo,
		employeeRepo: employeeRepo,
		summaries:    summaries,
		calculator:   calculator,
	}
}

// CreateSalaryStructure implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateSalaryStructure(ctx context.Context, req payroll.CreateSalaryStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.UserID); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	effective, _ := calendar.Parse(req.EffectiveDate)
	created, err := s.salaryRepo.Create(ctx, payroll.SalaryStructure{
		UserID:          req.UserID,
		EffectiveDate:   effective,
		Basic:           req.Basic,
		HRA:             req.HRA,
		Conveyance:      req.Conveyance,
		Medical:         req.Medical,
		Special:         req.Special,
		LTA:             req.LTA,
		OtherEarnings:   req.OtherEarnings,
		OtherDeductions: req.OtherDeductions,
	})
	if err != nil {
		return payroll.SalaryStructureResponse{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	slog.Info("salary structure created", "user_id", created.UserID, "effective_date", req.EffectiveDate, "basic", created.Basic.String())
	return payroll.NewSalaryStructureResponse(created), nil
}

// RunPayroll implements payroll.PayrollService. Employees are processed one
// at a time, each in its own transaction.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunPayrollResponse{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.RunPayrollResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	res := payroll.RunPayrollResponse{
		Month:     req.Month,
		Year:      req.Year,
		Processed: []payroll.PayslipResponse{},
		Skipped:   []payroll.EmployeeRunIssue{},
		Failed:    []payroll.EmployeeRunIssue{},
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		slip, err := s.generate(ctx, emp.ID, req.Month, req.Year)
		switch {
		case err == nil:
			res.Processed = append(res.Processed, payroll.NewPayslipResponse(slip))
		case errors.Is(err, payroll.ErrSalaryStructureNotFound):
			slog.Warn("payroll skipped: no salary structure", "user_id", emp.ID, "employee_code", emp.EmployeeCode, "month", req.Month, "year", req.Year)
			res.Skipped = append(res.Skipped, payroll.EmployeeRunIssue{UserID: emp.ID, Reason: err.Error()})
		default:
			slog.Error("payroll failed for employee", "user_id", emp.ID, "employee_code", emp.EmployeeCode, "month", req.Month, "year", req.Year, "error", err)
			res.Failed = append(res.Failed, payroll.EmployeeRunIssue{UserID: emp.ID, Reason: err.Error()})
		}
	}

	slog.Info("payroll run finished",
		"month", req.Month,
		"year", req.Year,
		"processed", len(res.Processed),
		"skipped", len(res.Skipped),
		"failed", len(res.Failed),
	)
	return res, nil
}

// GeneratePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.UserID); err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.generate(ctx, req.UserID, req.Month, req.Year)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.NewPayslipResponse(slip), nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, userID string, month, year int) (payroll.PayslipResponse, error) {
	if month < 1 || month > 12 || year < 1 {
		return payroll.PayslipResponse{}, payroll.ErrInvalidPeriod
	}

	slip, err := s.payslipRepo.Get(ctx, userID, month, year)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.NewPayslipResponse(slip), nil
}

// generate computes the payslip and stores it, replacing any earlier one for
// the same period. The attendance summary is read before the transaction
// opens because it fans out concurrent reads.
func (s *PayrollServiceImpl) generate(ctx context.Context, userID string, month, year int) (payroll.Payslip, error) {
	_, monthEnd := calendar.MonthBounds(year, time.Month(month))

	structure, err := s.salaryRepo.GetEffective(ctx, userID, monthEnd)
	if err != nil {
		return payroll.Payslip{}, err
	}

	summary, err := s.summaries.GetMonthlySummary(ctx, userID, year, time.Month(month), s.summaries.Today())
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to compute attendance summary: %w", err)
	}

	slip := s.calculator.Calculate(CalculationInput{
		Structure:    structure,
		CalendarDays: summary.CalendarDays,
		PayableDays:  summary.PayableDaysForPayroll,
		UnpaidLeaves: summary.UnpaidLeaveDays,
	})
	slip.UserID = userID
	slip.Month = month
	slip.Year = year

	var stored payroll.Payslip
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.payslipRepo.GetForUpdate(ctx, userID, month, year)
		if errors.Is(err, payroll.ErrPayslipNotFound) {
			stored, err = s.payslipRepo.Create(ctx, slip)
			return err
		}
		if err != nil {
			return err
		}

		if existing.SameFigures(slip) && existing.SalaryStructureID == slip.SalaryStructureID {
			stored = existing
			return nil
		}

		slip.ID = existing.ID
		slip.CreatedAt = existing.CreatedAt
		stored, err = s.payslipRepo.Update(ctx, slip)
		return err
	})
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to store payslip: %w", err)
	}

	slog.Debug("payslip generated", "user_id", userID, "month", month, "year", year, "net_pay", stored.NetPay.String())
	return stored, nil
}
