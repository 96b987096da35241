package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// GetByUserAndDate returns nil, nil when the user has no row for date.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Record, error)

	Update(ctx context.Context, record Record) error

	// ListBetween returns the user's rows with from <= date <= to ordered by date.
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]Record, error)

	// GetOpenSession returns the latest row with a check-in and no check-out.
	GetOpenSession(ctx context.Context, userID string) (Record, error)

	// ResetLeaveRows sets ON_LEAVE/LOP rows in range without a check-in back to
	// ABSENT with zero duration.
	ResetLeaveRows(ctx context.Context, userID string, from, to time.Time) (int64, error)

	// DeleteLeaveRows removes ON_LEAVE/LOP rows in range without a check-in.
	DeleteLeaveRows(ctx context.Context, userID string, from, to time.Time) (int64, error)
}
