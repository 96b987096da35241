package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.SalaryStructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

// Create implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) Create(ctx context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, err := marshalAmounts(s.OtherEarnings)
	if err != nil {
		return payroll.SalaryStructure{}, err
	}
	deductionsJSON, err := marshalAmounts(s.OtherDeductions)
	if err != nil {
		return payroll.SalaryStructure{}, err
	}

	query := `
		INSERT INTO salary_structures (
			id, user_id, effective_date, basic, hra, conveyance, medical, special, lta,
			other_earnings, other_deductions
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	s.ID = newID()
	err = q.QueryRow(ctx, query,
		s.ID, s.UserID, s.EffectiveDate,
		s.Basic, s.HRA, s.Conveyance, s.Medical, s.Special, s.LTA,
		earningsJSON, deductionsJSON,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return payroll.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	return s, nil
}

// GetEffective implements payroll.SalaryStructureRepository. Structures
// sharing an effective date resolve to the newest insert.
func (r *salaryStructureRepositoryImpl) GetEffective(ctx context.Context, userID string, date time.Time) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, effective_date, basic, hra, conveyance, medical, special, lta,
			   other_earnings, other_deductions, created_at, updated_at
		FROM salary_structures
		WHERE user_id = $1 AND effective_date <= $2
		ORDER BY effective_date DESC, created_at DESC
		LIMIT 1
	`

	var (
		s              payroll.SalaryStructure
		earningsJSON   []byte
		deductionsJSON []byte
	)
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&s.ID, &s.UserID, &s.EffectiveDate,
		&s.Basic, &s.HRA, &s.Conveyance, &s.Medical, &s.Special, &s.LTA,
		&earningsJSON, &deductionsJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	if s.OtherEarnings, err = unmarshalAmounts(earningsJSON); err != nil {
		return payroll.SalaryStructure{}, err
	}
	if s.OtherDeductions, err = unmarshalAmounts(deductionsJSON); err != nil {
		return payroll.SalaryStructure{}, err
	}

	return s, nil
}

// marshalAmounts stores a named amount map as a JSON object of decimal strings.
func marshalAmounts(m map[string]decimal.Decimal) ([]byte, error) {
	if m == nil {
		m = map[string]decimal.Decimal{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amounts: %w", err)
	}
	return b, nil
}

func unmarshalAmounts(b []byte) (map[string]decimal.Decimal, error) {
	m := map[string]decimal.Decimal{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal amounts: %w", err)
	}
	return m, nil
}
