package schedule

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	// ListBetween returns holidays with from <= date <= to ordered by date.
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
}

type WeeklyOffRepository interface {
	Create(ctx context.Context, config WeeklyOffConfig) (WeeklyOffConfig, error)
	// ListByUser returns every config of the user ordered by effective date, then insertion order.
	ListByUser(ctx context.Context, userID string) ([]WeeklyOffConfig, error)
}
