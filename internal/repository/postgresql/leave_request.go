package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.company_id, lr.employee_id, lr.leave_type_id,
	lr.start_date, lr.end_date, lr.duration_type, lr.total_days_tenths,
	lr.reason, lr.idempotency_key, lr.status,
	lr.approver_id, lr.decided_at, lr.approval_comments,
	lr.submitted_at, lr.created_at, lr.updated_at`

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			id, company_id, employee_id, leave_type_id,
			start_date, end_date, duration_type, total_days_tenths,
			reason, idempotency_key, status,
			submitted_at, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10,
			NOW(), NOW(), NOW()
		) RETURNING id, submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.CompanyID, request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.DurationType, request.TotalDays.Tenths(),
		request.Reason, request.IdempotencyKey, request.Status,
	).Scan(&request.ID, &request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		// Duplicate idempotency key from a concurrent submission; the
		// caller re-fetches the winning row.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.LeaveRequest{}, leave.ErrTransient
		}
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `,
			   e.full_name AS employee_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.company_id = $1 AND lr.id = $2
	`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, companyID, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// GetByIdempotencyKey implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIdempotencyKey(ctx context.Context, companyID, employeeID, key string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.company_id = $1 AND lr.employee_id = $2 AND lr.idempotency_key = $3
	`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, companyID, employeeID, key), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// GetByEmployeeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, companyID, employeeID string, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"lr.company_id = $1", "lr.employee_id = $2"}
	args := []interface{}{companyID, employeeID}
	argIdx := 3

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests lr WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + leaveRequestColumns + `,
			   e.full_name AS employee_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE ` + where + `
		ORDER BY lr.submitted_at DESC
	` + fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// GetPendingByEmployeeIDs implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetPendingByEmployeeIDs(ctx context.Context, companyID string, employeeIDs []string) ([]leave.LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `,
			   e.full_name AS employee_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.company_id = $1 AND lr.status = 'pending' AND lr.employee_id = ANY($2)
		ORDER BY lr.submitted_at
	`

	rows, err := q.Query(ctx, query, companyID, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeaveRequests(rows)
}

// GetApprovedOverlapping implements leave.LeaveRequestRepository. Overlap is
// the closed-interval test: start <= range end AND end >= range start.
func (r *leaveRequestRepositoryImpl) GetApprovedOverlapping(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) ([]leave.LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}

	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `,
			   e.full_name AS employee_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.company_id = $1 AND lr.status = 'approved'
		AND lr.employee_id = ANY($2)
		AND lr.start_date <= $3 AND lr.end_date >= $4
		ORDER BY lr.start_date
	`

	rows, err := q.Query(ctx, query, companyID, employeeIDs, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeaveRequests(rows)
}

// UpdateStatusIfPending implements leave.LeaveRequestRepository. The status
// predicate serializes concurrent deciders: whoever loses the race sees zero
// rows and reports ErrNotPending.
func (r *leaveRequestRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id string, status leave.LeaveRequestStatus, approverID string, comments *string, decidedAt time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $1, approver_id = $2, approval_comments = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, status, approverID, comments, decidedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update status for leave request %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrNotPending
	}
	return nil
}

// DeleteIfPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeleteIfPending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_requests
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrNotPending
	}
	return nil
}

func scanLeaveRequest(row pgx.Row, withNames bool) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	var totalTenths int64
	dest := []interface{}{
		&request.ID, &request.CompanyID, &request.EmployeeID, &request.LeaveTypeID,
		&request.StartDate, &request.EndDate, &request.DurationType, &totalTenths,
		&request.Reason, &request.IdempotencyKey, &request.Status,
		&request.ApproverID, &request.DecidedAt, &request.ApprovalComments,
		&request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt,
	}
	if withNames {
		dest = append(dest, &request.EmployeeName, &request.LeaveTypeName)
	}
	if err := row.Scan(dest...); err != nil {
		return leave.LeaveRequest{}, err
	}
	request.TotalDays = daymath.Days(totalTenths)
	return request, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		request, err := scanLeaveRequest(rows, true)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
