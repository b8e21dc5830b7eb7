package leave

import (
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
)

// LeaveType entity. Administrative edits are allowed, but deactivation never
// deletes history referenced by balances or requests.
type LeaveType struct {
	ID        string
	CompanyID string
	Code      string
	Name      string

	// AnnualEntitlement is the default yearly grant for this type.
	AnnualEntitlement daymath.Days

	// HasBalance marks entitlement-backed types. Types without a balance
	// skip the ledger entirely but still flow through the state machine.
	HasBalance       bool
	RequiresApproval bool
	IsPaid           bool
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalance is the ledger row, keyed by (employee, leave type, year).
// Invariant: Available == Total + Carryover - Used - Pending, with all of
// Total/Used/Pending/Carryover non-negative. Rows are created only by an
// administrative grant, never implicitly on first request.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	Total     daymath.Days
	Used      daymath.Days
	Pending   daymath.Days
	Carryover daymath.Days
	Available daymath.Days

	// Version increments on every mutation; read-modify-write paths use it
	// as a compare-and-swap guard.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	LeaveTypeName *string
	EmployeeName  *string
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// Terminal reports whether no further transition is defined from s.
func (s LeaveRequestStatus) Terminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected || s == LeaveRequestStatusCancelled
}

type LeaveDurationEnum string

const (
	LeaveDurationFullDay LeaveDurationEnum = "full_day"
	LeaveDurationHalfDay LeaveDurationEnum = "half_day"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time

	DurationType LeaveDurationEnum
	// TotalDays is the working-day count charged against the balance,
	// computed at submission from the calendar snapshot.
	TotalDays daymath.Days

	Reason         string
	IdempotencyKey *string

	Status           LeaveRequestStatus
	ApproverID       *string
	DecidedAt        *time.Time
	ApprovalComments *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for responses
	LeaveTypeName *string
	EmployeeName  *string
}
