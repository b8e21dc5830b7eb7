package hierarchy

import "context"

// ManagerLinkRepository - interface for manager_links table
type ManagerLinkRepository interface {
	// GetManagerID returns the direct manager of an employee. The second
	// return value is false when the employee has no manager.
	GetManagerID(ctx context.Context, companyID, employeeID string) (string, bool, error)
	// GetSubordinateIDs returns the downward closure of an employee's
	// reports, bounded by maxDepth hops.
	GetSubordinateIDs(ctx context.Context, companyID, managerID string, maxDepth int) ([]string, error)
	Set(ctx context.Context, link ManagerLink) error
	Clear(ctx context.Context, companyID, employeeID string) error
}

// Authorizer resolves whether an approver may act on an employee's request.
// The check is evaluated fresh on every call because the hierarchy may have
// changed since the request was submitted.
type Authorizer interface {
	CanApprove(ctx context.Context, companyID, approverID, employeeID string, approveAll bool) (Decision, error)
	SubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error)
}
