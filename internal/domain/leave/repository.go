package leave

import (
	"context"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveType, error)
	GetByCode(ctx context.Context, companyID, code string) (LeaveType, error)
	GetByCompanyID(ctx context.Context, companyID string) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

// LeaveBalanceRepository - interface for leave_balances table. The four
// mutating day operations are each a single guarded UPDATE so concurrent
// callers on the same (employee, type, year) key serialize on the row.
type LeaveBalanceRepository interface {
	GetByKey(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	GetByEmployeeYear(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)

	// AddPending reserves days: pending += days, guarded by
	// available >= days. Returns ErrInsufficientBalance when the guard
	// fails, ErrBalanceNotFound when no row exists for the key.
	AddPending(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error
	// MovePendingToUsed commits a reservation, guarded by pending >= days.
	// Returns ErrInconsistentState when the guard fails.
	MovePendingToUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error
	// RemovePending releases a reservation, guarded by pending >= days.
	// Returns ErrInconsistentState when the guard fails.
	RemovePending(ctx context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error

	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	// UpdateGrant sets total/carryover via compare-and-swap on version.
	// Returns ErrTransient when the version no longer matches.
	UpdateGrant(ctx context.Context, id string, version int64, total, carryover daymath.Days) error
	// Delete removes an empty balance row. Returns ErrBalanceNotEmpty when
	// used or pending days remain.
	Delete(ctx context.Context, id string) error
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Status *LeaveRequestStatus
	Page   int
	Limit  int
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequest, error)
	GetByIdempotencyKey(ctx context.Context, companyID, employeeID, key string) (LeaveRequest, error)
	GetByEmployeeID(ctx context.Context, companyID, employeeID string, filter RequestFilter) ([]LeaveRequest, int64, error)
	GetPendingByEmployeeIDs(ctx context.Context, companyID string, employeeIDs []string) ([]LeaveRequest, error)
	GetApprovedOverlapping(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) ([]LeaveRequest, error)

	// UpdateStatusIfPending performs the conditional pending -> decided
	// transition. Returns ErrNotPending when the request was already
	// decided or deleted by a concurrent caller.
	UpdateStatusIfPending(ctx context.Context, id string, status LeaveRequestStatus, approverID string, comments *string, decidedAt time.Time) error
	// DeleteIfPending removes a request only while pending; same
	// ErrNotPending contract as UpdateStatusIfPending.
	DeleteIfPending(ctx context.Context, id string) error
}
