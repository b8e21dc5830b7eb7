package hierarchy

import "time"

// ManagerLink is a directed edge from an employee to their direct manager.
// Each employee has at most one manager, so the link set forms a forest.
// Cycles are a data-integrity violation; traversals guard against them with
// a hop limit instead of assuming they cannot happen.
type ManagerLink struct {
	EmployeeID string
	ManagerID  string
	CompanyID  string

	UpdatedAt time.Time
}

// Decision is the outcome of an approval-authority check. Reason carries the
// human-readable explanation surfaced to the caller when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonNotAuthorized  = "not authorized to approve this request"
	ReasonIntegrityError = "hierarchy integrity error"
)
