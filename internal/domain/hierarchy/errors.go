package hierarchy

import "errors"

var (
	ErrNotAuthorized  = errors.New("not authorized to approve this request")
	ErrLinkNotFound   = errors.New("manager link not found")
	ErrSelfManagement = errors.New("an employee cannot be their own manager")
	ErrCycle          = errors.New("manager assignment would create a cycle")
)
