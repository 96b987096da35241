package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
	"github.com/shopspring/decimal"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.RequireFromString("0.5")
)

// Duration counts the working days in [from, to]. A half-day application is
// always 0.5 as long as the range has a working day.
func Duration(cal *scheduleService.WorkCalendar, from, to time.Time, isHalfDay bool) (decimal.Decimal, error) {
	days := cal.WorkingDays(from, to)
	if len(days) == 0 {
		return decimal.Zero, leave.ErrNoWorkingDaysInRange
	}
	if isHalfDay {
		return halfDay, nil
	}
	return decimal.NewFromInt(int64(len(days))), nil
}

// deductBalance takes duration off the user's balance when it covers the
// whole application. It reports whether the leave is paid.
func (s *LeaveServiceImpl) deductBalance(ctx context.Context, userID, leaveType string, duration decimal.Decimal) (bool, error) {
	balance, err := s.balanceRepo.GetForUpdate(ctx, userID, leaveType)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get leave balance: %w", err)
	}

	if balance.CurrentBalance.LessThan(duration) {
		return false, nil
	}

	balance.CurrentBalance = balance.CurrentBalance.Sub(duration).Round(2)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return false, fmt.Errorf("failed to update leave balance: %w", err)
	}
	return true, nil
}

func (s *LeaveServiceImpl) refundBalance(ctx context.Context, userID, leaveType string, duration decimal.Decimal) error {
	balance, err := s.balanceRepo.GetForUpdate(ctx, userID, leaveType)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		_, err = s.balanceRepo.Create(ctx, leave.Balance{
			UserID:             userID,
			LeaveType:          leaveType,
			CurrentBalance:     duration.Round(2),
			TotalDaysAllocated: decimal.Zero,
		})
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance.CurrentBalance = balance.CurrentBalance.Add(duration).Round(2)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	return nil
}

// writeLeaveRows marks each working day of the application ON_LEAVE when it
// was processed as paid and LOP otherwise. Existing rows keep their check-in
// data. Writing the same application twice leaves the same rows.
func (s *LeaveServiceImpl) writeLeaveRows(ctx context.Context, app leave.Application, cal *scheduleService.WorkCalendar) error {
	status := attendance.StatusLOP
	if app.ProcessedAsPaid() {
		status = attendance.StatusOnLeave
	}

	days := cal.WorkingDays(app.FromDate, app.ToDate)
	perDay := fullDay
	if app.IsHalfDay {
		perDay = halfDay
		if len(days) > 1 {
			days = days[:1]
		}
	}

	for _, date := range days {
		existing, err := s.attendanceRepo.GetByUserAndDate(ctx, app.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to read attendance for %s: %w", calendar.Key(date), err)
		}

		if existing == nil {
			_, err = s.attendanceRepo.Create(ctx, attendance.Record{
				UserID:             app.UserID,
				Date:               date,
				Status:             status,
				DailyLeaveDuration: perDay,
			})
			if err != nil {
				return fmt.Errorf("failed to write leave row for %s: %w", calendar.Key(date), err)
			}
			continue
		}

		existing.Status = status
		existing.DailyLeaveDuration = perDay
		if err := s.attendanceRepo.Update(ctx, *existing); err != nil {
			return fmt.Errorf("failed to write leave row for %s: %w", calendar.Key(date), err)
		}
	}
	return nil
}

// restoreSessions gives leave rows in the application's range that carry a
// check-in their session status back. Rows without a check-in are left to
// ResetLeaveRows and DeleteLeaveRows.
func (s *LeaveServiceImpl) restoreSessions(ctx context.Context, app leave.Application) error {
	rows, err := s.attendanceRepo.ListBetween(ctx, app.UserID, app.FromDate, app.ToDate)
	if err != nil {
		return fmt.Errorf("failed to read attendance for restore: %w", err)
	}

	for _, rec := range rows {
		if !rec.Status.IsLeave() || rec.CheckIn == nil {
			continue
		}
		restored, err := s.sessions.ClassifySession(rec)
		if err != nil {
			return err
		}
		if err := s.attendanceRepo.Update(ctx, restored); err != nil {
			return fmt.Errorf("failed to restore session for %s: %w", calendar.Key(rec.Date), err)
		}
	}
	return nil
}

var notificationTypes = map[leave.Action]notification.NotificationType{
	leave.ActionApprove:             notification.TypeLeaveApproved,
	leave.ActionReject:              notification.TypeLeaveRejected,
	leave.ActionRequestCancellation: notification.TypeLeaveCancellationRequested,
	leave.ActionApproveCancellation: notification.TypeLeaveCancelled,
	leave.ActionRejectCancellation:  notification.TypeLeaveCancellationRejected,
}

func (s *LeaveServiceImpl) notify(ctx context.Context, app leave.Application, action leave.Action) error {
	notifType, ok := notificationTypes[action]
	if !ok {
		return notification.ErrInvalidNotificationType
	}

	n := &notification.Notification{
		RecipientID: app.UserID,
		Type:        notifType,
		Message:     notificationMessage(notifType, app),
		Data: map[string]any{
			"leave_application_id": app.ID,
			"status":               string(app.Status),
			"from_date":            calendar.Key(app.FromDate),
			"to_date":              calendar.Key(app.ToDate),
			"duration":             app.Duration.String(),
		},
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func notificationMessage(t notification.NotificationType, app leave.Application) string {
	period := calendar.Key(app.FromDate)
	if !app.ToDate.Equal(app.FromDate) {
		period += " to " + calendar.Key(app.ToDate)
	}

	switch t {
	case notification.TypeLeaveApproved:
		if app.ProcessedAsPaid() {
			return fmt.Sprintf("Your leave for %s has been approved", period)
		}
		return fmt.Sprintf("Your leave for %s has been approved as loss of pay", period)
	case notification.TypeLeaveRejected:
		return fmt.Sprintf("Your leave for %s has been rejected", period)
	case notification.TypeLeaveCancellationRequested:
		return fmt.Sprintf("Cancellation requested for your leave on %s", period)
	case notification.TypeLeaveCancelled:
		return fmt.Sprintf("Your leave for %s has been cancelled", period)
	default:
		return fmt.Sprintf("Cancellation of your leave for %s was rejected", period)
	}
}
