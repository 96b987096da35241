package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
)

type scheduleServiceImpl struct {
	holidayRepo   schedule.HolidayRepository
	weeklyOffRepo schedule.WeeklyOffRepository
}

func NewScheduleService(
	holidayRepo schedule.HolidayRepository,
	weeklyOffRepo schedule.WeeklyOffRepository,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		holidayRepo:   holidayRepo,
		weeklyOffRepo: weeklyOffRepo,
	}
}

// CreateHoliday implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateHoliday(ctx context.Context, req schedule.CreateHolidayRequest) (schedule.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.HolidayResponse{}, err
	}

	date, _ := calendar.Parse(req.Date)
	created, err := s.holidayRepo.Create(ctx, schedule.Holiday{Date: date, Name: req.Name})
	if err != nil {
		return schedule.HolidayResponse{}, err
	}
	return toHolidayResponse(created), nil
}

// ListHolidays implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListHolidays(ctx context.Context, year int) ([]schedule.HolidayResponse, error) {
	from := calendar.Date(year, time.January, 1)
	to := calendar.Date(year, time.December, 31)

	holidays, err := s.holidayRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	resp := make([]schedule.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, toHolidayResponse(h))
	}
	return resp, nil
}

// CreateWeeklyOff implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateWeeklyOff(ctx context.Context, req schedule.CreateWeeklyOffRequest) (schedule.WeeklyOffResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WeeklyOffResponse{}, err
	}

	effective, _ := calendar.Parse(req.EffectiveDate)
	cfg := schedule.WeeklyOffConfig{
		UserID:        req.UserID,
		Weekdays:      req.Weekdays,
		EffectiveDate: effective,
	}
	if req.EndDate != nil {
		end, _ := calendar.Parse(*req.EndDate)
		cfg.EndDate = &end
	}

	created, err := s.weeklyOffRepo.Create(ctx, cfg)
	if err != nil {
		return schedule.WeeklyOffResponse{}, err
	}
	return toWeeklyOffResponse(created), nil
}

// ListWeeklyOffs implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListWeeklyOffs(ctx context.Context, userID string) ([]schedule.WeeklyOffResponse, error) {
	configs, err := s.weeklyOffRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly off configs: %w", err)
	}

	resp := make([]schedule.WeeklyOffResponse, 0, len(configs))
	for _, c := range configs {
		resp = append(resp, toWeeklyOffResponse(c))
	}
	return resp, nil
}

// IsWeeklyOff implements schedule.ScheduleService.
func (s *scheduleServiceImpl) IsWeeklyOff(ctx context.Context, userID string, date time.Time) (bool, error) {
	configs, err := s.weeklyOffRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list weekly off configs: %w", err)
	}
	return NewWeeklyOffResolver(configs).IsWeeklyOff(date), nil
}

func toHolidayResponse(h schedule.Holiday) schedule.HolidayResponse {
	return schedule.HolidayResponse{
		ID:   h.ID,
		Date: calendar.Key(h.Date),
		Name: h.Name,
	}
}

func toWeeklyOffResponse(c schedule.WeeklyOffConfig) schedule.WeeklyOffResponse {
	resp := schedule.WeeklyOffResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		Weekdays:      c.Weekdays,
		EffectiveDate: calendar.Key(c.EffectiveDate),
	}
	if c.EndDate != nil {
		end := calendar.Key(*c.EndDate)
		resp.EndDate = &end
	}
	return resp
}
