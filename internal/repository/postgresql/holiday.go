package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO holidays (
			id, company_id, name, holiday_date, recurring, is_active,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, TRUE,
			NOW(), NOW()
		) RETURNING id, is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		holiday.CompanyID, holiday.Name, holiday.Date, holiday.Recurring,
	).Scan(&holiday.ID, &holiday.IsActive, &holiday.CreatedAt, &holiday.UpdatedAt)
	if err != nil {
		return calendar.Holiday{}, err
	}

	return holiday, nil
}

// GetByID implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, name, holiday_date, recurring, is_active, created_at, updated_at
		FROM holidays
		WHERE company_id = $1 AND id = $2
	`

	var holiday calendar.Holiday
	err := q.QueryRow(ctx, query, companyID, id).Scan(
		&holiday.ID, &holiday.CompanyID, &holiday.Name, &holiday.Date,
		&holiday.Recurring, &holiday.IsActive, &holiday.CreatedAt, &holiday.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.Holiday{}, calendar.ErrHolidayNotFound
		}
		return calendar.Holiday{}, err
	}
	return holiday, nil
}

// GetActiveByCompanyID implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, name, holiday_date, recurring, is_active, created_at, updated_at
		FROM holidays
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]calendar.Holiday, 0)
	for rows.Next() {
		var holiday calendar.Holiday
		if err := rows.Scan(
			&holiday.ID, &holiday.CompanyID, &holiday.Name, &holiday.Date,
			&holiday.Recurring, &holiday.IsActive, &holiday.CreatedAt, &holiday.UpdatedAt,
		); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}

	return holidays, rows.Err()
}

// Update implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, holiday calendar.Holiday) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE holidays
		SET name = $1, holiday_date = $2, recurring = $3, is_active = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6
	`

	result, err := q.Exec(ctx, query,
		holiday.Name, holiday.Date, holiday.Recurring, holiday.IsActive,
		holiday.CompanyID, holiday.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holiday %s: %w", holiday.ID, err)
	}
	if result.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

// Delete implements calendar.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM holidays
		WHERE company_id = $1 AND id = $2
	`

	result, err := q.Exec(ctx, query, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}
