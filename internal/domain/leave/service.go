package leave

import (
	"context"
)

type LeaveService interface {
	// Type administration
	CreateLeaveType(ctx context.Context, actor Actor, req CreateLeaveTypeRequest) (LeaveType, error)
	UpdateLeaveType(ctx context.Context, actor Actor, req UpdateLeaveTypeRequest) error
	ListLeaveTypes(ctx context.Context, actor Actor) ([]LeaveTypeResponse, error)

	// Ledger administration
	GrantBalance(ctx context.Context, actor Actor, req GrantBalanceRequest) (LeaveBalanceResponse, error)
	DeleteBalance(ctx context.Context, actor Actor, balanceID string) error
	GetMyBalances(ctx context.Context, actor Actor, year int) ([]LeaveBalanceResponse, error)
	GetEmployeeBalances(ctx context.Context, actor Actor, employeeID string, year int) ([]LeaveBalanceResponse, error)

	// Workflow
	Submit(ctx context.Context, actor Actor, req SubmitRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actor Actor, req ApproveRequestRequest) error
	Reject(ctx context.Context, actor Actor, req RejectRequestRequest) error
	Delete(ctx context.Context, actor Actor, requestID string) error

	// Queries
	GetRequest(ctx context.Context, actor Actor, requestID string) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, actor Actor, filter RequestFilter) (ListRequestsResponse, error)
}
