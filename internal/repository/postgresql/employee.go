package postgresql

import (
	"context"
	"errors"

	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeDirectoryImpl is a read-only view over the employees table, which
// is owned by the directory service. The engine never writes to it.
type employeeDirectoryImpl struct {
	db *database.DB
}

func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectoryImpl{db: db}
}

// GetByID implements employee.Directory.
func (r *employeeDirectoryImpl) GetByID(ctx context.Context, companyID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, full_name, employee_code, is_active, created_at
		FROM employees
		WHERE company_id = $1 AND id = $2
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, companyID, id).Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.EmployeeCode, &emp.IsActive, &emp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// GetNamesByIDs implements employee.Directory.
func (r *employeeDirectoryImpl) GetNamesByIDs(ctx context.Context, companyID string, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, full_name
		FROM employees
		WHERE company_id = $1 AND id = ANY($2)
	`

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}
