package calendar

import "time"

// Holiday entity. Recurring holidays match by (month, day) every year; the
// stored year component of Date is ignored for those.
type Holiday struct {
	ID        string
	CompanyID string
	Name      string
	Date      time.Time
	Recurring bool
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkWeek marks which weekdays count as working days for a company.
// Index 0 is Sunday, matching time.Weekday.
type WorkWeek struct {
	CompanyID string
	Working   [7]bool

	UpdatedAt time.Time
}

// DefaultWorkWeek is Monday through Friday, applied when a company has no
// work week configured.
func DefaultWorkWeek(companyID string) WorkWeek {
	return WorkWeek{
		CompanyID: companyID,
		Working:   [7]bool{false, true, true, true, true, true, false},
	}
}

// Snapshot is the frozen calendar input for one working-day computation.
// Resolving against a snapshot is pure, so a given holiday/work-week state
// always produces the same count.
type Snapshot struct {
	WorkWeek WorkWeek
	Holidays []Holiday
}
