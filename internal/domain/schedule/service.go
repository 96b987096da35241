package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	ListHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
	CreateWeeklyOff(ctx context.Context, req CreateWeeklyOffRequest) (WeeklyOffResponse, error)
	ListWeeklyOffs(ctx context.Context, userID string) ([]WeeklyOffResponse, error)
	IsWeeklyOff(ctx context.Context, userID string, date time.Time) (bool, error)
}
