package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

type weeklyOffRepositoryImpl struct {
	db *database.DB
}

func NewWeeklyOffRepository(db *database.DB) schedule.WeeklyOffRepository {
	return &weeklyOffRepositoryImpl{db: db}
}

// Create implements schedule.WeeklyOffRepository. seq is assigned by the
// database so that later inserts win ties on the same effective date.
func (w *weeklyOffRepositoryImpl) Create(ctx context.Context, config schedule.WeeklyOffConfig) (schedule.WeeklyOffConfig, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		INSERT INTO weekly_off_configs (id, user_id, weekdays, effective_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at
	`

	config.ID = newID()
	err := q.QueryRow(ctx, query,
		config.ID,
		config.UserID,
		config.Weekdays,
		config.EffectiveDate,
		config.EndDate,
	).Scan(&config.Seq, &config.CreatedAt)
	if err != nil {
		return schedule.WeeklyOffConfig{}, fmt.Errorf("failed to create weekly off config: %w", err)
	}

	return config, nil
}

// ListByUser implements schedule.WeeklyOffRepository.
func (w *weeklyOffRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]schedule.WeeklyOffConfig, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, user_id, weekdays, effective_date, end_date, seq, created_at
		FROM weekly_off_configs
		WHERE user_id = $1
		ORDER BY effective_date, seq
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly off configs: %w", err)
	}
	defer rows.Close()

	var configs []schedule.WeeklyOffConfig
	for rows.Next() {
		var c schedule.WeeklyOffConfig
		if err := rows.Scan(&c.ID, &c.UserID, &c.Weekdays, &c.EffectiveDate, &c.EndDate, &c.Seq, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weekly off config: %w", err)
		}
		configs = append(configs, c)
	}

	return configs, rows.Err()
}
