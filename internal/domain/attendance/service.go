package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	Correct(ctx context.Context, req CorrectAttendanceRequest) (AttendanceResponse, error)

	// GetMonthlySummary resolves every day of the month as of the given civil date.
	GetMonthlySummary(ctx context.Context, userID string, year int, month time.Month, asOf time.Time) (Summary, error)

	// Today is the current civil date in the business timezone.
	Today() time.Time
}
