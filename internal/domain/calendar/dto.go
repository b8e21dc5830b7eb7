package calendar

import (
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name      string `json:"holiday_name"`
	Date      string `json:"holiday_date"`
	Recurring bool   `json:"recurring"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name must not exceed 255 characters",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_date",
			Message: "holiday_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateHolidayRequest struct {
	ID        string  `json:"holiday_id"`
	Name      *string `json:"holiday_name,omitempty"`
	Date      *string `json:"holiday_date,omitempty"`
	Recurring *bool   `json:"recurring,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_id",
			Message: "holiday_id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name must not be empty",
		})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "holiday_date",
				Message: "holiday_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetWorkWeekRequest struct {
	Sunday    bool `json:"sunday"`
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
}

func (r *SetWorkWeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Sunday && !r.Monday && !r.Tuesday && !r.Wednesday && !r.Thursday && !r.Friday && !r.Saturday {
		errs = append(errs, validator.ValidationError{
			Field:   "work_week",
			Message: "at least one working day is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *SetWorkWeekRequest) ToWorkWeek(companyID string) WorkWeek {
	return WorkWeek{
		CompanyID: companyID,
		Working:   [7]bool{r.Sunday, r.Monday, r.Tuesday, r.Wednesday, r.Thursday, r.Friday, r.Saturday},
		UpdatedAt: time.Now(),
	}
}

type HolidayResponse struct {
	ID        string `json:"holiday_id"`
	Name      string `json:"holiday_name"`
	Date      string `json:"holiday_date"`
	Recurring bool   `json:"recurring"`
	IsActive  bool   `json:"is_active"`
}

type WorkWeekResponse struct {
	Sunday    bool `json:"sunday"`
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
}
