package hierarchy

import (
	"context"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

// LinkService administers manager links. Mutations require the manage
// capability and must keep the link set acyclic.
type LinkService interface {
	SetManager(ctx context.Context, actor leave.Actor, req SetManagerRequest) error
	ClearManager(ctx context.Context, actor leave.Actor, employeeID string) error
}
