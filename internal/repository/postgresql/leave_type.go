package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const uniqueViolation = "23505"

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_types (
			id, company_id, code, name, annual_entitlement_tenths,
			has_balance, requires_approval, is_paid, is_active,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, TRUE,
			NOW(), NOW()
		) RETURNING id, is_active, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		leaveType.CompanyID, leaveType.Code, leaveType.Name, leaveType.AnnualEntitlement.Tenths(),
		leaveType.HasBalance, leaveType.RequiresApproval, leaveType.IsPaid,
	).Scan(&leaveType.ID, &leaveType.IsActive, &leaveType.CreatedAt, &leaveType.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, err
	}

	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, code, name, annual_entitlement_tenths,
			   has_balance, requires_approval, is_paid, is_active,
			   created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND id = $2
	`
	return scanLeaveType(q.QueryRow(ctx, query, companyID, id))
}

// GetByCode implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, companyID, code string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, code, name, annual_entitlement_tenths,
			   has_balance, requires_approval, is_paid, is_active,
			   created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND code = $2
	`
	return scanLeaveType(q.QueryRow(ctx, query, companyID, code))
}

// GetByCompanyID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, code, name, annual_entitlement_tenths,
			   has_balance, requires_approval, is_paid, is_active,
			   created_at, updated_at
		FROM leave_types
		WHERE company_id = $1
		ORDER BY code
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaveTypes := make([]leave.LeaveType, 0)
	for rows.Next() {
		leaveType, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		leaveTypes = append(leaveTypes, leaveType)
	}

	return leaveTypes, rows.Err()
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, leaveType leave.LeaveType) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_types
		SET name = $1, annual_entitlement_tenths = $2, requires_approval = $3,
			is_paid = $4, is_active = $5, updated_at = NOW()
		WHERE company_id = $6 AND id = $7
	`

	commandTag, err := q.Exec(ctx, query,
		leaveType.Name, leaveType.AnnualEntitlement.Tenths(), leaveType.RequiresApproval,
		leaveType.IsPaid, leaveType.IsActive, leaveType.CompanyID, leaveType.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave type %s: %w", leaveType.ID, err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var leaveType leave.LeaveType
	var entitlementTenths int64
	err := row.Scan(
		&leaveType.ID, &leaveType.CompanyID, &leaveType.Code, &leaveType.Name, &entitlementTenths,
		&leaveType.HasBalance, &leaveType.RequiresApproval, &leaveType.IsPaid, &leaveType.IsActive,
		&leaveType.CreatedAt, &leaveType.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}
	leaveType.AnnualEntitlement = daymath.Days(entitlementTenths)
	return leaveType, nil
}
