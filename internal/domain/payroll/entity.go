package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure is a user's monthly salary. The latest EffectiveDate on or
// before the payroll month applies.
type SalaryStructure struct {
	ID              string
	UserID          string
	EffectiveDate   time.Time
	Basic           decimal.Decimal
	HRA             decimal.Decimal
	Conveyance      decimal.Decimal
	Medical         decimal.Decimal
	Special         decimal.Decimal
	LTA             decimal.Decimal
	OtherEarnings   map[string]decimal.Decimal
	OtherDeductions map[string]decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Payslip is unique per (UserID, Month, Year). Amounts are rounded to two
// decimals.
type Payslip struct {
	ID                string
	UserID            string
	Month             int
	Year              int
	SalaryStructureID string

	CalendarDays  int
	PaidDays      decimal.Decimal
	UnpaidLeaves  decimal.Decimal
	ProRataFactor decimal.Decimal

	// Earnings (pro-rated)
	Basic         decimal.Decimal
	HRA           decimal.Decimal
	Conveyance    decimal.Decimal
	Medical       decimal.Decimal
	Special       decimal.Decimal
	LTA           decimal.Decimal
	OtherEarnings map[string]decimal.Decimal
	GrossEarnings decimal.Decimal

	// Deductions
	EPFEmployee     decimal.Decimal
	EPFEmployer     decimal.Decimal
	ESIEmployee     decimal.Decimal
	ESIEmployer     decimal.Decimal
	ProfessionalTax decimal.Decimal
	Mediclaim       decimal.Decimal
	TDS             decimal.Decimal
	LoanDeduction   decimal.Decimal
	OtherDeductions map[string]decimal.Decimal
	TotalDeductions decimal.Decimal

	NetPay decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SameFigures reports whether two payslips carry identical computed amounts.
func (p Payslip) SameFigures(o Payslip) bool {
	pairs := [][2]decimal.Decimal{
		{p.PaidDays, o.PaidDays}, {p.UnpaidLeaves, o.UnpaidLeaves}, {p.ProRataFactor, o.ProRataFactor},
		{p.Basic, o.Basic}, {p.HRA, o.HRA}, {p.Conveyance, o.Conveyance}, {p.Medical, o.Medical},
		{p.Special, o.Special}, {p.LTA, o.LTA}, {p.GrossEarnings, o.GrossEarnings},
		{p.EPFEmployee, o.EPFEmployee}, {p.EPFEmployer, o.EPFEmployer},
		{p.ESIEmployee, o.ESIEmployee}, {p.ESIEmployer, o.ESIEmployer},
		{p.ProfessionalTax, o.ProfessionalTax}, {p.Mediclaim, o.Mediclaim},
		{p.TDS, o.TDS}, {p.LoanDeduction, o.LoanDeduction},
		{p.TotalDeductions, o.TotalDeductions}, {p.NetPay, o.NetPay},
	}
	for _, pair := range pairs {
		if !pair[0].Equal(pair[1]) {
			return false
		}
	}
	return p.CalendarDays == o.CalendarDays &&
		sameAmounts(p.OtherEarnings, o.OtherEarnings) &&
		sameAmounts(p.OtherDeductions, o.OtherDeductions)
}

func sameAmounts(a, b map[string]decimal.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}
