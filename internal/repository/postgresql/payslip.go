package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipColumns = `
	id, user_id, month, year, salary_structure_id,
	calendar_days, paid_days, unpaid_leaves, pro_rata_factor,
	basic, hra, conveyance, medical, special, lta, other_earnings, gross_earnings,
	epf_employee, epf_employer, esi_employee, esi_employer,
	professional_tax, mediclaim, tds, loan_deduction, other_deductions,
	total_deductions, net_pay, created_at, updated_at`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var (
		p              payroll.Payslip
		earningsJSON   []byte
		deductionsJSON []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Month, &p.Year, &p.SalaryStructureID,
		&p.CalendarDays, &p.PaidDays, &p.UnpaidLeaves, &p.ProRataFactor,
		&p.Basic, &p.HRA, &p.Conveyance, &p.Medical, &p.Special, &p.LTA, &earningsJSON, &p.GrossEarnings,
		&p.EPFEmployee, &p.EPFEmployer, &p.ESIEmployee, &p.ESIEmployer,
		&p.ProfessionalTax, &p.Mediclaim, &p.TDS, &p.LoanDeduction, &deductionsJSON,
		&p.TotalDeductions, &p.NetPay, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if p.OtherEarnings, err = unmarshalAmounts(earningsJSON); err != nil {
		return payroll.Payslip{}, err
	}
	if p.OtherDeductions, err = unmarshalAmounts(deductionsJSON); err != nil {
		return payroll.Payslip{}, err
	}
	return p, nil
}

// Get implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Get(ctx context.Context, userID string, month, year int) (payroll.Payslip, error) {
	return r.get(ctx, userID, month, year, "")
}

// GetForUpdate implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) GetForUpdate(ctx context.Context, userID string, month, year int) (payroll.Payslip, error) {
	return r.get(ctx, userID, month, year, "FOR UPDATE")
}

func (r *payslipRepositoryImpl) get(ctx context.Context, userID string, month, year int, lock string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + `
		FROM payslips
		WHERE user_id = $1 AND month = $2 AND year = $3
	` + lock

	p, err := scanPayslip(q.QueryRow(ctx, query, userID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

// Create implements payroll.PayslipRepository. A concurrent insert for the
// same period fails on the unique key and rolls the caller back.
func (r *payslipRepositoryImpl) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, err := marshalAmounts(p.OtherEarnings)
	if err != nil {
		return payroll.Payslip{}, err
	}
	deductionsJSON, err := marshalAmounts(p.OtherDeductions)
	if err != nil {
		return payroll.Payslip{}, err
	}

	query := `
		INSERT INTO payslips (
			id, user_id, month, year, salary_structure_id,
			calendar_days, paid_days, unpaid_leaves, pro_rata_factor,
			basic, hra, conveyance, medical, special, lta, other_earnings, gross_earnings,
			epf_employee, epf_employer, esi_employee, esi_employer,
			professional_tax, mediclaim, tds, loan_deduction, other_deductions,
			total_deductions, net_pay
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		) RETURNING created_at, updated_at
	`

	p.ID = newID()
	err = q.QueryRow(ctx, query,
		p.ID, p.UserID, p.Month, p.Year, p.SalaryStructureID,
		p.CalendarDays, p.PaidDays, p.UnpaidLeaves, p.ProRataFactor,
		p.Basic, p.HRA, p.Conveyance, p.Medical, p.Special, p.LTA, earningsJSON, p.GrossEarnings,
		p.EPFEmployee, p.EPFEmployer, p.ESIEmployee, p.ESIEmployer,
		p.ProfessionalTax, p.Mediclaim, p.TDS, p.LoanDeduction, deductionsJSON,
		p.TotalDeductions, p.NetPay,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return p, nil
}

// Update implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Update(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, err := marshalAmounts(p.OtherEarnings)
	if err != nil {
		return payroll.Payslip{}, err
	}
	deductionsJSON, err := marshalAmounts(p.OtherDeductions)
	if err != nil {
		return payroll.Payslip{}, err
	}

	query := `
		UPDATE payslips SET
			salary_structure_id = $2,
			calendar_days = $3, paid_days = $4, unpaid_leaves = $5, pro_rata_factor = $6,
			basic = $7, hra = $8, conveyance = $9, medical = $10, special = $11, lta = $12,
			other_earnings = $13, gross_earnings = $14,
			epf_employee = $15, epf_employer = $16, esi_employee = $17, esi_employer = $18,
			professional_tax = $19, mediclaim = $20, tds = $21, loan_deduction = $22,
			other_deductions = $23, total_deductions = $24, net_pay = $25,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		p.ID, p.SalaryStructureID,
		p.CalendarDays, p.PaidDays, p.UnpaidLeaves, p.ProRataFactor,
		p.Basic, p.HRA, p.Conveyance, p.Medical, p.Special, p.LTA,
		earningsJSON, p.GrossEarnings,
		p.EPFEmployee, p.EPFEmployer, p.ESIEmployee, p.ESIEmployer,
		p.ProfessionalTax, p.Mediclaim, p.TDS, p.LoanDeduction,
		deductionsJSON, p.TotalDeductions, p.NetPay,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to update payslip: %w", err)
	}

	return p, nil
}
