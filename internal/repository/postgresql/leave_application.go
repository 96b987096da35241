package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveApplicationRepositoryImpl struct {
	db *database.DB
}

func NewLeaveApplicationRepository(db *database.DB) leave.ApplicationRepository {
	return &leaveApplicationRepositoryImpl{db: db}
}

const leaveApplicationColumns = `
	la.id, la.user_id, la.leave_type_id, la.from_date, la.to_date, la.is_half_day,
	la.duration, la.reason, la.status, la.is_processed_as_paid,
	la.created_at, la.updated_at, lt.name`

func scanLeaveApplication(row pgx.Row) (leave.Application, error) {
	var a leave.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.LeaveTypeID, &a.FromDate, &a.ToDate, &a.IsHalfDay,
		&a.Duration, &a.Reason, &a.Status, &a.IsProcessedAsPaid,
		&a.CreatedAt, &a.UpdatedAt, &a.LeaveTypeName,
	)
	return a, err
}

// Create implements leave.ApplicationRepository.
func (l *leaveApplicationRepositoryImpl) Create(ctx context.Context, a leave.Application) (leave.Application, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_applications (
			id, user_id, leave_type_id, from_date, to_date, is_half_day,
			duration, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	a.ID = newID()
	err := q.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.LeaveTypeID,
		a.FromDate,
		a.ToDate,
		a.IsHalfDay,
		a.Duration,
		a.Reason,
		a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return leave.Application{}, fmt.Errorf("failed to create leave application: %w", err)
	}

	return a, nil
}

// GetByID implements leave.ApplicationRepository.
func (l *leaveApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Application, error) {
	return l.get(ctx, id, "")
}

// GetByIDForUpdate implements leave.ApplicationRepository. Only the
// application row is locked; the joined leave type stays shared.
func (l *leaveApplicationRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Application, error) {
	return l.get(ctx, id, "FOR UPDATE OF la")
}

func (l *leaveApplicationRepositoryImpl) get(ctx context.Context, id, lock string) (leave.Application, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveApplicationColumns + `
		FROM leave_applications la
		JOIN leave_types lt ON lt.id = la.leave_type_id
		WHERE la.id = $1
	` + lock

	a, err := scanLeaveApplication(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Application{}, leave.ErrApplicationNotFound
		}
		return leave.Application{}, fmt.Errorf("failed to get leave application: %w", err)
	}

	return a, nil
}

// ListByUser implements leave.ApplicationRepository.
func (l *leaveApplicationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Application, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveApplicationColumns + `
		FROM leave_applications la
		JOIN leave_types lt ON lt.id = la.leave_type_id
		WHERE la.user_id = $1
		ORDER BY la.from_date DESC, la.created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}
	defer rows.Close()

	var apps []leave.Application
	for rows.Next() {
		a, err := scanLeaveApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave application: %w", err)
		}
		apps = append(apps, a)
	}

	return apps, rows.Err()
}

// HasOverlapping implements leave.ApplicationRepository.
func (l *leaveApplicationRepositoryImpl) HasOverlapping(ctx context.Context, userID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_applications
			WHERE user_id = $1
			  AND status NOT IN ($4, $5)
			  AND from_date <= $3
			  AND to_date >= $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, userID, from, to, leave.StatusRejected, leave.StatusCancelled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}

	return exists, nil
}

// UpdateStatus implements leave.ApplicationRepository.
func (l *leaveApplicationRepositoryImpl) UpdateStatus(ctx context.Context, a leave.Application) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_applications
		SET status = $2, is_processed_as_paid = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, a.ID, a.Status, a.IsProcessedAsPaid)
	if err != nil {
		return fmt.Errorf("failed to update leave application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrApplicationNotFound
	}

	return nil
}
