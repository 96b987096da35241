package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// CalculationInput carries everything one payslip depends on.
type CalculationInput struct {
	Structure    payroll.SalaryStructure
	CalendarDays int
	PayableDays  decimal.Decimal
	UnpaidLeaves decimal.Decimal
}

// Calculator turns a salary structure and the month's payable days into a
// payslip. It has no side effects.
type Calculator struct {
	rates config.StatutoryConfig
}

func NewCalculator(rates config.StatutoryConfig) *Calculator {
	return &Calculator{rates: rates}
}

// Calculate pro-rates every earning by payable/calendar days and applies the
// statutory deductions. Threshold checks use the gross rounded to two
// decimals; everything else is kept at full precision until the final
// rounding of each presented figure. Net pay is the rounded gross less the
// rounded total deductions, so a payslip always balances.
func (c *Calculator) Calculate(in CalculationInput) payroll.Payslip {
	payable := decimal.Max(decimal.Zero, in.PayableDays)
	calendarDays := decimal.NewFromInt(int64(in.CalendarDays))
	if in.CalendarDays > 0 && payable.GreaterThan(calendarDays) {
		payable = calendarDays
	}

	prorate := func(amount decimal.Decimal) decimal.Decimal {
		if in.CalendarDays <= 0 {
			return decimal.Zero
		}
		return amount.Mul(payable).Div(calendarDays)
	}

	s := in.Structure
	basic := prorate(s.Basic)
	hra := prorate(s.HRA)
	conveyance := prorate(s.Conveyance)
	medical := prorate(s.Medical)
	special := prorate(s.Special)
	lta := prorate(s.LTA)

	gross := decimal.Sum(basic, hra, conveyance, medical, special, lta)
	otherEarnings := make(map[string]decimal.Decimal, len(s.OtherEarnings))
	for name, amount := range s.OtherEarnings {
		v := prorate(amount)
		otherEarnings[name] = v.Round(2)
		gross = gross.Add(v)
	}
	grossRounded := gross.Round(2)

	epfWage := decimal.Min(basic, c.rates.EPFWageCeiling)
	epfEmployee := epfWage.Mul(c.rates.EPFEmployeeRate)
	epfEmployer := epfWage.Mul(c.rates.EPFEmployerRate)

	esiEmployee, esiEmployer := decimal.Zero, decimal.Zero
	if grossRounded.LessThan(c.rates.ESIWageLimit) {
		esiEmployee = gross.Mul(c.rates.ESIEmployeeRate)
		esiEmployer = gross.Mul(c.rates.ESIEmployerRate)
	}

	pt := ProfessionalTax(c.rates.PTSlabs, grossRounded)

	mediclaim := decimal.Zero
	if grossRounded.GreaterThan(c.rates.MediclaimThreshold) {
		mediclaim = c.rates.MediclaimAmount
	}

	tds, loan := decimal.Zero, decimal.Zero

	total := decimal.Sum(epfEmployee, esiEmployee, pt, mediclaim, tds, loan)
	otherDeductions := make(map[string]decimal.Decimal, len(s.OtherDeductions))
	for name, amount := range s.OtherDeductions {
		otherDeductions[name] = amount.Round(2)
		total = total.Add(amount)
	}

	totalRounded := total.Round(2)

	factor := decimal.Zero
	if in.CalendarDays > 0 {
		factor = payable.Div(calendarDays)
	}

	return payroll.Payslip{
		UserID:            s.UserID,
		SalaryStructureID: s.ID,
		CalendarDays:      in.CalendarDays,
		PaidDays:          payable.Round(2),
		UnpaidLeaves:      in.UnpaidLeaves.Round(2),
		ProRataFactor:     factor.Round(4),
		Basic:             basic.Round(2),
		HRA:               hra.Round(2),
		Conveyance:        conveyance.Round(2),
		Medical:           medical.Round(2),
		Special:           special.Round(2),
		LTA:               lta.Round(2),
		OtherEarnings:     otherEarnings,
		GrossEarnings:     grossRounded,
		EPFEmployee:       epfEmployee.Round(2),
		EPFEmployer:       epfEmployer.Round(2),
		ESIEmployee:       esiEmployee.Round(2),
		ESIEmployer:       esiEmployer.Round(2),
		ProfessionalTax:   pt.Round(2),
		Mediclaim:         mediclaim.Round(2),
		TDS:               tds,
		LoanDeduction:     loan,
		OtherDeductions:   otherDeductions,
		TotalDeductions:   totalRounded,
		NetPay:            grossRounded.Sub(totalRounded),
	}
}

// ProfessionalTax returns the amount of the first slab whose upper bound
// covers gross. Slabs are expected in ascending order; gross above every
// bounded slab with no open-ended slab pays nothing.
func ProfessionalTax(slabs []config.PTSlab, gross decimal.Decimal) decimal.Decimal {
	for _, slab := range slabs {
		if slab.UpTo == nil || gross.LessThanOrEqual(*slab.UpTo) {
			return slab.Amount
		}
	}
	return decimal.Zero
}
