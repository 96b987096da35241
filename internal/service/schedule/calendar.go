package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

// WorkCalendar classifies days for one user: holidays are global, weekly
// offs come from the user's effective-dated configs.
type WorkCalendar struct {
	holidays  map[string]schedule.Holiday
	weeklyOff *WeeklyOffResolver
}

func NewWorkCalendar(holidays []schedule.Holiday, configs []schedule.WeeklyOffConfig) *WorkCalendar {
	byDate := make(map[string]schedule.Holiday, len(holidays))
	for _, h := range holidays {
		byDate[calendar.Key(h.Date)] = h
	}
	return &WorkCalendar{
		holidays:  byDate,
		weeklyOff: NewWeeklyOffResolver(configs),
	}
}

func (c *WorkCalendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[calendar.Key(date)]
	return ok
}

func (c *WorkCalendar) IsWeeklyOff(date time.Time) bool {
	return c.weeklyOff.IsWeeklyOff(date)
}

func (c *WorkCalendar) IsWorkingDay(date time.Time) bool {
	return !c.IsHoliday(date) && !c.IsWeeklyOff(date)
}

// WorkingDays lists the dates in [from, to] that are neither holidays nor weekly offs.
func (c *WorkCalendar) WorkingDays(from, to time.Time) []time.Time {
	var days []time.Time
	for _, d := range calendar.Days(from, to) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// CalendarLoader builds a WorkCalendar from storage. The two reads run
// concurrently, so ctx must not carry a transaction.
type CalendarLoader struct {
	holidayRepo   schedule.HolidayRepository
	weeklyOffRepo schedule.WeeklyOffRepository
}

func NewCalendarLoader(holidayRepo schedule.HolidayRepository, weeklyOffRepo schedule.WeeklyOffRepository) *CalendarLoader {
	return &CalendarLoader{holidayRepo: holidayRepo, weeklyOffRepo: weeklyOffRepo}
}

func (l *CalendarLoader) Load(ctx context.Context, userID string, from, to time.Time) (*WorkCalendar, error) {
	var (
		holidays []schedule.Holiday
		configs  []schedule.WeeklyOffConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holidays, err = l.holidayRepo.ListBetween(gctx, calendar.Truncate(from), calendar.Truncate(to))
		if err != nil {
			return fmt.Errorf("failed to load holidays: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		configs, err = l.weeklyOffRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load weekly off configs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewWorkCalendar(holidays, configs), nil
}
