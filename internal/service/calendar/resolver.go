package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
)

type ResolverImpl struct {
	calendar.HolidayRepository
	calendar.WorkWeekRepository
}

func NewResolver(holidayRepo calendar.HolidayRepository, workWeekRepo calendar.WorkWeekRepository) calendar.Resolver {
	return &ResolverImpl{
		HolidayRepository:  holidayRepo,
		WorkWeekRepository: workWeekRepo,
	}
}

// IsWorkingDay implements calendar.Resolver.
func (r *ResolverImpl) IsWorkingDay(ctx context.Context, companyID string, date time.Time) (bool, error) {
	snapshot, err := r.snapshot(ctx, companyID)
	if err != nil {
		return false, err
	}
	return IsWorkingDay(snapshot, date), nil
}

// WorkingDaysBetween implements calendar.Resolver.
func (r *ResolverImpl) WorkingDaysBetween(ctx context.Context, companyID string, start, end time.Time) (int, error) {
	snapshot, err := r.snapshot(ctx, companyID)
	if err != nil {
		return 0, err
	}
	return WorkingDaysBetween(snapshot, start, end)
}

func (r *ResolverImpl) snapshot(ctx context.Context, companyID string) (calendar.Snapshot, error) {
	workWeek, found, err := r.WorkWeekRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		return calendar.Snapshot{}, fmt.Errorf("failed to get work week: %w", err)
	}
	if !found {
		workWeek = calendar.DefaultWorkWeek(companyID)
	}

	holidays, err := r.HolidayRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return calendar.Snapshot{}, fmt.Errorf("failed to get holidays: %w", err)
	}

	return calendar.Snapshot{WorkWeek: workWeek, Holidays: holidays}, nil
}

// IsWorkingDay reports whether date is a working day under the snapshot:
// its weekday is marked working and it is not a holiday.
func IsWorkingDay(snapshot calendar.Snapshot, date time.Time) bool {
	if !snapshot.WorkWeek.Working[int(date.Weekday())] {
		return false
	}
	return !isHoliday(snapshot.Holidays, date)
}

// WorkingDaysBetween counts working days over the closed interval
// [start, end]. Non-working days inside the range are excluded from the
// count but do not invalidate it. Pure: same snapshot, same answer.
func WorkingDaysBetween(snapshot calendar.Snapshot, start, end time.Time) (int, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if end.Before(start) {
		return 0, calendar.ErrInvalidRange
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(snapshot, d) {
			count++
		}
	}
	return count, nil
}

// isHoliday matches non-recurring holidays by exact date and recurring ones
// by (month, day) regardless of the stored year.
func isHoliday(holidays []calendar.Holiday, date time.Time) bool {
	for _, h := range holidays {
		if !h.IsActive {
			continue
		}
		if h.Recurring {
			if h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
				return true
			}
			continue
		}
		hy, hm, hd := h.Date.Date()
		dy, dm, dd := date.Date()
		if hy == dy && hm == dm && hd == dd {
			return true
		}
	}
	return false
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
