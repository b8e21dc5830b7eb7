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

// leaveBalanceRepositoryImpl keeps every day-moving operation a single
// guarded UPDATE: the balance predicate sits in the WHERE clause, so two
// concurrent reservations on the same row serialize on the row lock and the
// loser observes RowsAffected() == 0 instead of a negative balance.
type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetByKey implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByKey(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, employee_id, leave_type_id, year,
			   total_tenths, used_tenths, pending_tenths, carryover_tenths, available_tenths,
			   version, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	var b leave.LeaveBalance
	var total, used, pending, carryover, available int64
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&total, &used, &pending, &carryover, &available,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	b.Total = daymath.Days(total)
	b.Used = daymath.Days(used)
	b.Pending = daymath.Days(pending)
	b.Carryover = daymath.Days(carryover)
	b.Available = daymath.Days(available)
	return b, nil
}

// GetByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			   lb.total_tenths, lb.used_tenths, lb.pending_tenths, lb.carryover_tenths, lb.available_tenths,
			   lb.version, lb.created_at, lb.updated_at,
			   lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lt.company_id = $1 AND lb.employee_id = $2 AND lb.year = $3
		ORDER BY lt.code
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		var total, used, pending, carryover, available int64
		var leaveTypeName string
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&total, &used, &pending, &carryover, &available,
			&b.Version, &b.CreatedAt, &b.UpdatedAt,
			&leaveTypeName,
		); err != nil {
			return nil, err
		}
		b.Total = daymath.Days(total)
		b.Used = daymath.Days(used)
		b.Pending = daymath.Days(pending)
		b.Carryover = daymath.Days(carryover)
		b.Available = daymath.Days(available)
		b.LeaveTypeName = &leaveTypeName
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// AddPending implements leave.LeaveBalanceRepository. The guard keeps the
// reservation from exceeding the available days.
func (r *leaveBalanceRepositoryImpl) AddPending(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET pending_tenths = pending_tenths + $1,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		AND (total_tenths + carryover_tenths - used_tenths - pending_tenths - $1) >= 0
	`

	result, err := q.Exec(ctx, query, days.Tenths(), employeeID, leaveTypeID, year)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Distinguish a missing row from an exhausted balance.
		if _, err := r.GetByKey(ctx, employeeID, leaveTypeID, year); err != nil {
			return err
		}
		return leave.ErrInsufficientBalance
	}

	return nil
}

// MovePendingToUsed implements leave.LeaveBalanceRepository. The pending
// guard makes a double-commit fail instead of corrupting the row.
func (r *leaveBalanceRepositoryImpl) MovePendingToUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET pending_tenths = pending_tenths - $1,
			used_tenths = used_tenths + $1,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		AND pending_tenths >= $1
	`

	result, err := q.Exec(ctx, query, days.Tenths(), employeeID, leaveTypeID, year)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInconsistentState
	}

	return nil
}

// RemovePending implements leave.LeaveBalanceRepository. Guarded the same
// way as MovePendingToUsed: a second release of an already-released amount
// fails loudly, never silently no-ops.
func (r *leaveBalanceRepositoryImpl) RemovePending(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET pending_tenths = pending_tenths - $1,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		AND pending_tenths >= $1
	`

	result, err := q.Exec(ctx, query, days.Tenths(), employeeID, leaveTypeID, year)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrInconsistentState
	}

	return nil
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			total_tenths, used_tenths, pending_tenths, carryover_tenths,
			version, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, 0, 0, $5,
			1, NOW(), NOW()
		) RETURNING id, available_tenths, version, created_at, updated_at
	`

	var available int64
	err := q.QueryRow(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.Total.Tenths(), balance.Carryover.Tenths(),
	).Scan(&balance.ID, &available, &balance.Version, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		// Concurrent grant on the same key; the caller re-reads and retries.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.LeaveBalance{}, leave.ErrTransient
		}
		return leave.LeaveBalance{}, err
	}
	balance.Available = daymath.Days(available)

	return balance, nil
}

// UpdateGrant implements leave.LeaveBalanceRepository. The version predicate
// is the compare-and-swap: a concurrent mutation between the caller's read
// and this write leaves RowsAffected() == 0 and the caller retries.
func (r *leaveBalanceRepositoryImpl) UpdateGrant(ctx context.Context, id string, version int64, total, carryover daymath.Days) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET total_tenths = $1,
			carryover_tenths = $2,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $3 AND version = $4
		AND ($1::bigint + $2::bigint - used_tenths - pending_tenths) >= 0
	`

	result, err := q.Exec(ctx, query, total.Tenths(), carryover.Tenths(), id, version)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrTransient
	}

	return nil
}

// Delete implements leave.LeaveBalanceRepository. Rows with used or pending
// days are never physically deleted.
func (r *leaveBalanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_balances
		WHERE id = $1 AND used_tenths = 0 AND pending_tenths = 0
	`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave balance %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotEmpty
	}
	return nil
}
