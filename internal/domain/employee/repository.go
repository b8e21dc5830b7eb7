package employee

import "context"

// Directory - read-only interface over the employees table
type Directory interface {
	GetByID(ctx context.Context, companyID, id string) (Employee, error)
	GetNamesByIDs(ctx context.Context, companyID string, ids []string) (map[string]string, error)
}
