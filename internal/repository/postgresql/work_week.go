package postgresql

import (
	"context"
	"errors"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workWeekRepositoryImpl struct {
	db *database.DB
}

func NewWorkWeekRepository(db *database.DB) calendar.WorkWeekRepository {
	return &workWeekRepositoryImpl{db: db}
}

// GetByCompanyID implements calendar.WorkWeekRepository. The second return
// value is false when the company has no configured work week; the caller
// falls back to the Monday-Friday default.
func (r *workWeekRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (calendar.WorkWeek, bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT company_id, sunday, monday, tuesday, wednesday, thursday, friday, saturday, updated_at
		FROM work_weeks
		WHERE company_id = $1
	`

	var ww calendar.WorkWeek
	err := q.QueryRow(ctx, query, companyID).Scan(
		&ww.CompanyID,
		&ww.Working[0], &ww.Working[1], &ww.Working[2], &ww.Working[3],
		&ww.Working[4], &ww.Working[5], &ww.Working[6],
		&ww.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.WorkWeek{}, false, nil
		}
		return calendar.WorkWeek{}, false, err
	}
	return ww, true, nil
}

// Upsert implements calendar.WorkWeekRepository.
func (r *workWeekRepositoryImpl) Upsert(ctx context.Context, workWeek calendar.WorkWeek) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO work_weeks (
			company_id, sunday, monday, tuesday, wednesday, thursday, friday, saturday, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			sunday = EXCLUDED.sunday,
			monday = EXCLUDED.monday,
			tuesday = EXCLUDED.tuesday,
			wednesday = EXCLUDED.wednesday,
			thursday = EXCLUDED.thursday,
			friday = EXCLUDED.friday,
			saturday = EXCLUDED.saturday,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		workWeek.CompanyID,
		workWeek.Working[0], workWeek.Working[1], workWeek.Working[2], workWeek.Working[3],
		workWeek.Working[4], workWeek.Working[5], workWeek.Working[6],
	)
	return err
}
