package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type managerLinkRepositoryImpl struct {
	db *database.DB
}

func NewManagerLinkRepository(db *database.DB) hierarchy.ManagerLinkRepository {
	return &managerLinkRepositoryImpl{db: db}
}

// GetManagerID implements hierarchy.ManagerLinkRepository.
func (r *managerLinkRepositoryImpl) GetManagerID(ctx context.Context, companyID, employeeID string) (string, bool, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT manager_id
		FROM manager_links
		WHERE company_id = $1 AND employee_id = $2
	`

	var managerID string
	err := q.QueryRow(ctx, query, companyID, employeeID).Scan(&managerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return managerID, true, nil
}

// GetSubordinateIDs implements hierarchy.ManagerLinkRepository. The
// recursive closure is depth-bounded in SQL so a corrupted (cyclic) edge set
// terminates instead of recursing forever.
func (r *managerLinkRepositoryImpl) GetSubordinateIDs(ctx context.Context, companyID, managerID string, maxDepth int) ([]string, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		WITH RECURSIVE reports AS (
			SELECT employee_id, 1 AS depth
			FROM manager_links
			WHERE company_id = $1 AND manager_id = $2
			UNION ALL
			SELECT ml.employee_id, rp.depth + 1
			FROM manager_links ml
			JOIN reports rp ON ml.manager_id = rp.employee_id
			WHERE ml.company_id = $1 AND rp.depth < $3
		)
		SELECT DISTINCT employee_id FROM reports
	`

	rows, err := q.Query(ctx, query, companyID, managerID, maxDepth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Set implements hierarchy.ManagerLinkRepository. One manager per employee.
func (r *managerLinkRepositoryImpl) Set(ctx context.Context, link hierarchy.ManagerLink) error {
	if link.EmployeeID == link.ManagerID {
		return hierarchy.ErrSelfManagement
	}

	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO manager_links (company_id, employee_id, manager_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (company_id, employee_id) DO UPDATE SET
			manager_id = EXCLUDED.manager_id,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query, link.CompanyID, link.EmployeeID, link.ManagerID)
	if err != nil {
		return fmt.Errorf("failed to set manager link for employee %s: %w", link.EmployeeID, err)
	}
	return nil
}

// Clear implements hierarchy.ManagerLinkRepository.
func (r *managerLinkRepositoryImpl) Clear(ctx context.Context, companyID, employeeID string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM manager_links
		WHERE company_id = $1 AND employee_id = $2
	`

	result, err := q.Exec(ctx, query, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to clear manager link for employee %s: %w", employeeID, err)
	}
	if result.RowsAffected() == 0 {
		return hierarchy.ErrLinkNotFound
	}
	return nil
}
