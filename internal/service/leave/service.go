package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
)

// CalendarProvider loads the working calendar of one user. Implementations
// may read concurrently, so callers pass a ctx without a transaction.
type CalendarProvider interface {
	Load(ctx context.Context, userID string, from, to time.Time) (*scheduleService.WorkCalendar, error)
}

// SessionClassifier recomputes the status of a row that carries a check-in
// once leave no longer covers its day.
type SessionClassifier interface {
	ClassifySession(rec attendance.Record) (attendance.Record, error)
}

type LeaveServiceImpl struct {
	tx               database.Transactor
	leaveTypeRepo    leave.LeaveTypeRepository
	applicationRepo  leave.ApplicationRepository
	balanceRepo      leave.BalanceRepository
	attendanceRepo   attendance.AttendanceRepository
	notificationRepo notification.Repository
	calendar         CalendarProvider
	sessions         SessionClassifier
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	applicationRepo leave.ApplicationRepository,
	balanceRepo leave.BalanceRepository,
	attendanceRepo attendance.AttendanceRepository,
	notificationRepo notification.Repository,
	calendar CalendarProvider,
	sessions SessionClassifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:               tx,
		leaveTypeRepo:    leaveTypeRepo,
		applicationRepo:  applicationRepo,
		balanceRepo:      balanceRepo,
		attendanceRepo:   attendanceRepo,
		notificationRepo: notificationRepo,
		calendar:         calendar,
		sessions:         sessions,
	}
}

// CreateLeaveType implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}

	created, err := s.leaveTypeRepo.Create(ctx, leave.LeaveType{
		Name:               req.Name,
		IsPaid:             isPaid,
		DefaultDaysPerYear: req.DefaultDaysPerYear.Round(2),
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	slog.Info("leave type created", "leave_type_id", created.ID, "name", created.Name, "is_paid", created.IsPaid)
	return leave.NewLeaveTypeResponse(created), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(t))
	}
	return responses, nil
}

// AllocateBalance implements leave.LeaveService. Both the current balance
// and the allocated total are set to the requested days.
func (s *LeaveServiceImpl) AllocateBalance(ctx context.Context, req leave.AllocateBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	leaveType, err := s.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	days := leaveType.DefaultDaysPerYear
	if req.Days != nil {
		days = *req.Days
	}
	days = days.Round(2)

	var result leave.Balance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.GetForUpdate(ctx, req.UserID, leaveType.Name)
		if errors.Is(err, leave.ErrBalanceNotFound) {
			result, err = s.balanceRepo.Create(ctx, leave.Balance{
				UserID:             req.UserID,
				LeaveType:          leaveType.Name,
				CurrentBalance:     days,
				TotalDaysAllocated: days,
			})
			return err
		}
		if err != nil {
			return err
		}

		balance.CurrentBalance = days
		balance.TotalDaysAllocated = days
		if err := s.balanceRepo.Update(ctx, balance); err != nil {
			return err
		}
		result = balance
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("leave balance allocated", "user_id", req.UserID, "leave_type", leaveType.Name, "days", days.String())
	return leave.NewBalanceResponse(result), nil
}

// GetBalances implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalances(ctx context.Context, userID string) ([]leave.BalanceResponse, error) {
	balances, err := s.balanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	return responses, nil
}

// Apply implements leave.LeaveService. The balance is not checked here;
// approval decides whether the leave is paid.
func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}

	from, _ := calendar.Parse(req.FromDate)
	to, _ := calendar.Parse(req.ToDate)

	leaveType, err := s.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	overlapping, err := s.applicationRepo.HasOverlapping(ctx, req.UserID, from, to)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	if overlapping {
		return leave.ApplicationResponse{}, leave.ErrOverlappingLeave
	}

	cal, err := s.calendar.Load(ctx, req.UserID, from, to)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	duration, err := Duration(cal, from, to, req.IsHalfDay)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	created, err := s.applicationRepo.Create(ctx, leave.Application{
		UserID:      req.UserID,
		LeaveTypeID: leaveType.ID,
		FromDate:    from,
		ToDate:      to,
		IsHalfDay:   req.IsHalfDay,
		Duration:    duration,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	})
	if err != nil {
		return leave.ApplicationResponse{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	created.LeaveTypeName = &leaveType.Name

	slog.Info("leave applied",
		"application_id", created.ID,
		"user_id", created.UserID,
		"leave_type", leaveType.Name,
		"from", req.FromDate,
		"to", req.ToDate,
		"duration", duration.String(),
	)
	return leave.NewApplicationResponse(created), nil
}

// GetApplication implements leave.LeaveService.
func (s *LeaveServiceImpl) GetApplication(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}
	return leave.NewApplicationResponse(app), nil
}

// ListApplications implements leave.LeaveService.
func (s *LeaveServiceImpl) ListApplications(ctx context.Context, userID string) ([]leave.ApplicationResponse, error) {
	apps, err := s.applicationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}

	responses := make([]leave.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		responses = append(responses, leave.NewApplicationResponse(a))
	}
	return responses, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	return s.transition(ctx, id, leave.ActionApprove, true, func(ctx context.Context, app *leave.Application, cal *scheduleService.WorkCalendar) error {
		leaveType, err := s.leaveTypeRepo.GetByID(ctx, app.LeaveTypeID)
		if err != nil {
			return err
		}
		app.LeaveTypeName = &leaveType.Name

		paid := false
		if leaveType.IsPaid {
			paid, err = s.deductBalance(ctx, app.UserID, leaveType.Name, app.Duration)
			if err != nil {
				return err
			}
		}
		app.IsProcessedAsPaid = &paid

		return s.writeLeaveRows(ctx, *app, cal)
	})
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	return s.transition(ctx, id, leave.ActionReject, false, func(ctx context.Context, app *leave.Application, _ *scheduleService.WorkCalendar) error {
		if err := s.restoreSessions(ctx, *app); err != nil {
			return err
		}
		_, err := s.attendanceRepo.ResetLeaveRows(ctx, app.UserID, app.FromDate, app.ToDate)
		return err
	})
}

// RequestCancellation implements leave.LeaveService.
func (s *LeaveServiceImpl) RequestCancellation(ctx context.Context, id string, req leave.CancelLeaveRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}

	return s.transition(ctx, id, leave.ActionRequestCancellation, false, func(_ context.Context, app *leave.Application, _ *scheduleService.WorkCalendar) error {
		if app.UserID != req.UserID {
			return leave.ErrNotApplicationOwner
		}
		return nil
	})
}

// ApproveCancellation implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveCancellation(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	return s.transition(ctx, id, leave.ActionApproveCancellation, false, func(ctx context.Context, app *leave.Application, _ *scheduleService.WorkCalendar) error {
		if app.ProcessedAsPaid() {
			leaveType, err := s.leaveTypeRepo.GetByID(ctx, app.LeaveTypeID)
			if err != nil {
				return err
			}
			if err := s.refundBalance(ctx, app.UserID, leaveType.Name, app.Duration); err != nil {
				return err
			}
		}

		if err := s.restoreSessions(ctx, *app); err != nil {
			return err
		}
		_, err := s.attendanceRepo.DeleteLeaveRows(ctx, app.UserID, app.FromDate, app.ToDate)
		return err
	})
}

// RejectCancellation implements leave.LeaveService. The rows are written
// again as they were at approval and the balance is left alone.
func (s *LeaveServiceImpl) RejectCancellation(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	return s.transition(ctx, id, leave.ActionRejectCancellation, true, func(ctx context.Context, app *leave.Application, cal *scheduleService.WorkCalendar) error {
		return s.writeLeaveRows(ctx, *app, cal)
	})
}

type sideEffect func(ctx context.Context, app *leave.Application, cal *scheduleService.WorkCalendar) error

// transition moves one application through action under a row lock. The
// calendar is read before the transaction opens; everything else, including
// the notification, commits or rolls back together.
func (s *LeaveServiceImpl) transition(ctx context.Context, id string, action leave.Action, needsCalendar bool, effect sideEffect) (leave.ApplicationResponse, error) {
	snapshot, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	var cal *scheduleService.WorkCalendar
	if needsCalendar {
		cal, err = s.calendar.Load(ctx, snapshot.UserID, snapshot.FromDate, snapshot.ToDate)
		if err != nil {
			return leave.ApplicationResponse{}, err
		}
	}

	var result leave.Application
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		app, err := s.applicationRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next, err := leave.Transition(app.Status, action)
		if err != nil {
			return err
		}

		if err := effect(ctx, &app, cal); err != nil {
			return err
		}

		app.Status = next
		if err := s.applicationRepo.UpdateStatus(ctx, app); err != nil {
			return fmt.Errorf("failed to update leave application status: %w", err)
		}

		if err := s.notify(ctx, app, action); err != nil {
			return err
		}

		result = app
		return nil
	})
	if err != nil {
		return leave.ApplicationResponse{}, err
	}

	slog.Info("leave application transitioned",
		"application_id", result.ID,
		"user_id", result.UserID,
		"action", action,
		"status", result.Status,
		"processed_as_paid", result.ProcessedAsPaid(),
	)
	return leave.NewApplicationResponse(result), nil
}
