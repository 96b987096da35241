package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetForUpdate implements leave.BalanceRepository.
func (l *leaveBalanceRepositoryImpl) GetForUpdate(ctx context.Context, userID, leaveType string) (leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, user_id, leave_type, current_balance, total_days_allocated, created_at, updated_at
		FROM leave_balances
		WHERE user_id = $1 AND leave_type = $2
		FOR UPDATE
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID, leaveType).Scan(
		&b.ID, &b.UserID, &b.LeaveType, &b.CurrentBalance, &b.TotalDaysAllocated, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// ListByUser implements leave.BalanceRepository.
func (l *leaveBalanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, user_id, leave_type, current_balance, total_days_allocated, created_at, updated_at
		FROM leave_balances
		WHERE user_id = $1
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		var b leave.Balance
		if err := rows.Scan(&b.ID, &b.UserID, &b.LeaveType, &b.CurrentBalance, &b.TotalDaysAllocated, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// Create implements leave.BalanceRepository.
func (l *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_balances (id, user_id, leave_type, current_balance, total_days_allocated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	b.ID = newID()
	err := q.QueryRow(ctx, query, b.ID, b.UserID, b.LeaveType, b.CurrentBalance, b.TotalDaysAllocated).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return b, nil
}

// Update implements leave.BalanceRepository.
func (l *leaveBalanceRepositoryImpl) Update(ctx context.Context, b leave.Balance) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_balances
		SET current_balance = $2, total_days_allocated = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, b.ID, b.CurrentBalance, b.TotalDaysAllocated)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}
