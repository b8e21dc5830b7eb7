package employee

import "time"

// Employee is a read-only projection of the employee directory. The engine
// uses it for existence checks and display attributes only; directory
// maintenance lives outside this service.
type Employee struct {
	ID           string
	CompanyID    string
	FullName     string
	EmployeeCode string
	IsActive     bool

	CreatedAt time.Time
}
