package schedule

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required,date"`
	Name string `json:"name" validate:"required,max=255"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CreateWeeklyOffRequest struct {
	UserID        string  `json:"user_id" validate:"required,uuid"`
	Weekdays      []int   `json:"weekdays" validate:"required,min=1,max=7,dive,min=0,max=6"`
	EffectiveDate string  `json:"effective_date" validate:"required,date"`
	EndDate       *string `json:"end_date,omitempty" validate:"omitempty,date"`
}

func (r *CreateWeeklyOffRequest) Validate() error {
	errs := validator.Struct(r)

	seen := make(map[int]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if seen[d] {
			errs.Add("weekdays", "weekdays must not contain duplicates")
			break
		}
		seen[d] = true
	}

	if r.EndDate != nil {
		from, okFrom := validator.IsValidDate(r.EffectiveDate)
		to, okTo := validator.IsValidDate(*r.EndDate)
		if okFrom && okTo && to.Before(from) {
			errs.Add("end_date", "end_date must not be before effective_date")
		}
	}

	return errs.Err()
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

type WeeklyOffResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Weekdays      []int   `json:"weekdays"`
	EffectiveDate string  `json:"effective_date"`
	EndDate       *string `json:"end_date,omitempty"`
}
