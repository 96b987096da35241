package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, date, check_in, check_out, status,
	daily_leave_duration, working_hours, late_minutes, extra_hours,
	created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status,
		&rec.DailyLeaveDuration, &rec.WorkingHours, &rec.LateMinutes, &rec.ExtraHours,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, user_id, date, check_in, check_out, status,
			daily_leave_duration, working_hours, late_minutes, extra_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	rec.ID = newID()
	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.CheckIn,
		rec.CheckOut,
		rec.Status,
		rec.DailyLeaveDuration,
		rec.WorkingHours,
		rec.LateMinutes,
		rec.ExtraHours,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND date = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_in = $2,
			check_out = $3,
			status = $4,
			daily_leave_duration = $5,
			working_hours = $6,
			late_minutes = $7,
			extra_hours = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.CheckIn,
		rec.CheckOut,
		rec.Status,
		rec.DailyLeaveDuration,
		rec.WorkingHours,
		rec.LateMinutes,
		rec.ExtraHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, userID string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1
		  AND check_in IS NOT NULL
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
		FOR UPDATE
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return rec, nil
}

// ResetLeaveRows implements attendance.AttendanceRepository.
func (a *attendanceRepository) ResetLeaveRows(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $4, daily_leave_duration = 0, updated_at = NOW()
		WHERE user_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status IN ($5, $6)
		  AND check_in IS NULL
	`

	tag, err := q.Exec(ctx, query, userID, from, to,
		attendance.StatusAbsent, attendance.StatusOnLeave, attendance.StatusLOP)
	if err != nil {
		return 0, fmt.Errorf("failed to reset leave rows: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteLeaveRows implements attendance.AttendanceRepository.
func (a *attendanceRepository) DeleteLeaveRows(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		DELETE FROM attendance_records
		WHERE user_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status IN ($4, $5)
		  AND check_in IS NULL
	`

	tag, err := q.Exec(ctx, query, userID, from, to, attendance.StatusOnLeave, attendance.StatusLOP)
	if err != nil {
		return 0, fmt.Errorf("failed to delete leave rows: %w", err)
	}

	return tag.RowsAffected(), nil
}
