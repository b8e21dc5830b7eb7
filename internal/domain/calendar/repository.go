package calendar

import (
	"context"
	"time"
)

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, companyID, id string) (Holiday, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Holiday, error)
	Update(ctx context.Context, holiday Holiday) error
	Delete(ctx context.Context, companyID, id string) error
}

// WorkWeekRepository - interface for work_weeks table. One row per company;
// a missing row means the Monday-Friday default applies.
type WorkWeekRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (WorkWeek, bool, error)
	Upsert(ctx context.Context, workWeek WorkWeek) error
}

// Resolver computes working-day facts for a company. Snapshot loading hits
// the repositories; the counting itself is pure.
type Resolver interface {
	IsWorkingDay(ctx context.Context, companyID string, date time.Time) (bool, error)
	WorkingDaysBetween(ctx context.Context, companyID string, start, end time.Time) (int, error)
}
