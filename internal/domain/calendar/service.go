package calendar

import (
	"context"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

// CalendarService administers the company calendar: holidays and the work
// week. All mutations require the manage capability.
type CalendarService interface {
	CreateHoliday(ctx context.Context, actor leave.Actor, req CreateHolidayRequest) (HolidayResponse, error)
	UpdateHoliday(ctx context.Context, actor leave.Actor, req UpdateHolidayRequest) error
	DeleteHoliday(ctx context.Context, actor leave.Actor, holidayID string) error
	ListHolidays(ctx context.Context, actor leave.Actor) ([]HolidayResponse, error)

	SetWorkWeek(ctx context.Context, actor leave.Actor, req SetWorkWeekRequest) error
	GetWorkWeek(ctx context.Context, actor leave.Actor) (WorkWeekResponse, error)
}
