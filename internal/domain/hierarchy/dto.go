package hierarchy

import "github.com/hrcore-id/leave-backend-go/internal/pkg/validator"

type SetManagerRequest struct {
	EmployeeID string `json:"employee_id"`
	ManagerID  string `json:"manager_id"`
}

func (r *SetManagerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id is required",
		})
	}
	if r.EmployeeID != "" && r.EmployeeID == r.ManagerID {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id must differ from employee_id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
