package report

import (
	"context"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

// ReportService is the read-side facade: compositions over workflow and
// ledger state with no independent business logic.
type ReportService interface {
	// EmployeeRequests lists requests for one employee.
	EmployeeRequests(ctx context.Context, actor leave.Actor, employeeID string, filter leave.RequestFilter) (leave.ListRequestsResponse, error)
	// PendingApprovals lists pending requests submitted by the manager's
	// subordinate closure.
	PendingApprovals(ctx context.Context, actor leave.Actor) ([]leave.LeaveRequestResponse, error)
	// TeamCalendar lists approved requests overlapping [start, end] for the
	// manager's team.
	TeamCalendar(ctx context.Context, actor leave.Actor, start, end time.Time) ([]leave.LeaveRequestResponse, error)
}
