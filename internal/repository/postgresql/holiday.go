package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) schedule.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements schedule.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, holiday schedule.Holiday) (schedule.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		INSERT INTO holidays (id, date, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	holiday.ID = newID()
	err := q.QueryRow(ctx, query, holiday.ID, holiday.Date, holiday.Name).Scan(&holiday.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Holiday{}, schedule.ErrHolidayExists
		}
		return schedule.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday, nil
}

// ListBetween implements schedule.HolidayRepository.
func (h *holidayRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]schedule.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, date, name, created_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []schedule.Holiday
	for rows.Next() {
		var hd schedule.Holiday
		if err := rows.Scan(&hd.ID, &hd.Date, &hd.Name, &hd.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hd)
	}

	return holidays, rows.Err()
}
