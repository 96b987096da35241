package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryStructureRequest struct {
	UserID          string                     `json:"user_id" validate:"required,uuid"`
	EffectiveDate   string                     `json:"effective_date" validate:"required,date"`
	Basic           decimal.Decimal            `json:"basic"`
	HRA             decimal.Decimal            `json:"hra"`
	Conveyance      decimal.Decimal            `json:"conveyance"`
	Medical         decimal.Decimal            `json:"medical"`
	Special         decimal.Decimal            `json:"special"`
	LTA             decimal.Decimal            `json:"lta"`
	OtherEarnings   map[string]decimal.Decimal `json:"other_earnings,omitempty"`
	OtherDeductions map[string]decimal.Decimal `json:"other_deductions,omitempty"`
}

func (r *CreateSalaryStructureRequest) Validate() error {
	errs := validator.Struct(r)

	components := []struct {
		field string
		value decimal.Decimal
	}{
		{"basic", r.Basic},
		{"hra", r.HRA},
		{"conveyance", r.Conveyance},
		{"medical", r.Medical},
		{"special", r.Special},
		{"lta", r.LTA},
	}
	for _, c := range components {
		if c.value.IsNegative() {
			errs.Add(c.field, c.field+" must not be negative")
		}
	}
	if r.Basic.IsZero() {
		errs.Add("basic", "basic must be greater than 0")
	}

	for name, v := range r.OtherEarnings {
		if validator.IsEmpty(name) || v.IsNegative() {
			errs.Add("other_earnings", "other_earnings entries need a name and a non-negative amount")
			break
		}
	}
	for name, v := range r.OtherDeductions {
		if validator.IsEmpty(name) || v.IsNegative() {
			errs.Add("other_deductions", "other_deductions entries need a name and a non-negative amount")
			break
		}
	}

	return errs.Err()
}

type RunPayrollRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=1900,max=9999"`
}

func (r *RunPayrollRequest) Validate() error {
	return validator.Struct(r).Err()
}

type GeneratePayslipRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Month  int    `json:"month" validate:"required,min=1,max=12"`
	Year   int    `json:"year" validate:"required,min=1900,max=9999"`
}

func (r *GeneratePayslipRequest) Validate() error {
	return validator.Struct(r).Err()
}

type SalaryStructureResponse struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	EffectiveDate   string                     `json:"effective_date"`
	Basic           decimal.Decimal            `json:"basic"`
	HRA             decimal.Decimal            `json:"hra"`
	Conveyance      decimal.Decimal            `json:"conveyance"`
	Medical         decimal.Decimal            `json:"medical"`
	Special         decimal.Decimal            `json:"special"`
	LTA             decimal.Decimal            `json:"lta"`
	OtherEarnings   map[string]decimal.Decimal `json:"other_earnings,omitempty"`
	OtherDeductions map[string]decimal.Decimal `json:"other_deductions,omitempty"`
}

func NewSalaryStructureResponse(s SalaryStructure) SalaryStructureResponse {
	return SalaryStructureResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		EffectiveDate:   s.EffectiveDate.Format("2006-01-02"),
		Basic:           s.Basic,
		HRA:             s.HRA,
		Conveyance:      s.Conveyance,
		Medical:         s.Medical,
		Special:         s.Special,
		LTA:             s.LTA,
		OtherEarnings:   s.OtherEarnings,
		OtherDeductions: s.OtherDeductions,
	}
}

type PayslipResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	CalendarDays  int    `json:"calendar_days"`
	PaidDays      string `json:"paid_days"`
	UnpaidLeaves  string `json:"unpaid_leaves"`
	ProRataFactor string `json:"pro_rata_factor"`

	Earnings        map[string]string `json:"earnings"`
	GrossEarnings   string            `json:"gross_earnings"`
	Deductions      map[string]string `json:"deductions"`
	EmployerShare   map[string]string `json:"employer_contributions"`
	TotalDeductions string            `json:"total_deductions"`
	NetPay          string            `json:"net_pay"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	earnings := map[string]string{
		"basic":      p.Basic.StringFixed(2),
		"hra":        p.HRA.StringFixed(2),
		"conveyance": p.Conveyance.StringFixed(2),
		"medical":    p.Medical.StringFixed(2),
		"special":    p.Special.StringFixed(2),
		"lta":        p.LTA.StringFixed(2),
	}
	for name, v := range p.OtherEarnings {
		earnings[name] = v.StringFixed(2)
	}

	deductions := map[string]string{
		"epf":              p.EPFEmployee.StringFixed(2),
		"esi":              p.ESIEmployee.StringFixed(2),
		"professional_tax": p.ProfessionalTax.StringFixed(2),
		"mediclaim":        p.Mediclaim.StringFixed(2),
		"tds":              p.TDS.StringFixed(2),
		"loan":             p.LoanDeduction.StringFixed(2),
	}
	for name, v := range p.OtherDeductions {
		deductions[name] = v.StringFixed(2)
	}

	return PayslipResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Month:         p.Month,
		Year:          p.Year,
		CalendarDays:  p.CalendarDays,
		PaidDays:      p.PaidDays.String(),
		UnpaidLeaves:  p.UnpaidLeaves.String(),
		ProRataFactor: p.ProRataFactor.StringFixed(4),
		Earnings:      earnings,
		GrossEarnings: p.GrossEarnings.StringFixed(2),
		Deductions:    deductions,
		EmployerShare: map[string]string{
			"epf": p.EPFEmployer.StringFixed(2),
			"esi": p.ESIEmployer.StringFixed(2),
		},
		TotalDeductions: p.TotalDeductions.StringFixed(2),
		NetPay:          p.NetPay.StringFixed(2),
	}
}

type EmployeeRunIssue struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type RunPayrollResponse struct {
	Month     int                `json:"month"`
	Year      int                `json:"year"`
	Processed []PayslipResponse  `json:"processed"`
	Skipped   []EmployeeRunIssue `json:"skipped"`
	Failed    []EmployeeRunIssue `json:"failed"`
}
