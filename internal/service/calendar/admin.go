package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

const dateLayout = "2006-01-02"

type CalendarServiceImpl struct {
	calendar.HolidayRepository
	calendar.WorkWeekRepository
}

func NewCalendarService(holidayRepo calendar.HolidayRepository, workWeekRepo calendar.WorkWeekRepository) calendar.CalendarService {
	return &CalendarServiceImpl{
		HolidayRepository:  holidayRepo,
		WorkWeekRepository: workWeekRepo,
	}
}

// CreateHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, actor leave.Actor, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	if !actor.ManageAll {
		return calendar.HolidayResponse{}, leave.ErrNotAuthorized
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return calendar.HolidayResponse{}, leave.ErrInvalidRange
	}

	created, err := s.HolidayRepository.Create(ctx, calendar.Holiday{
		CompanyID: actor.CompanyID,
		Name:      req.Name,
		Date:      date,
		Recurring: req.Recurring,
		IsActive:  true,
	})
	if err != nil {
		return calendar.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return newHolidayResponse(created), nil
}

// UpdateHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) UpdateHoliday(ctx context.Context, actor leave.Actor, req calendar.UpdateHolidayRequest) error {
	if !actor.ManageAll {
		return leave.ErrNotAuthorized
	}

	holiday, err := s.HolidayRepository.GetByID(ctx, actor.CompanyID, req.ID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		holiday.Name = *req.Name
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return leave.ErrInvalidRange
		}
		holiday.Date = date
	}
	if req.Recurring != nil {
		holiday.Recurring = *req.Recurring
	}
	if req.IsActive != nil {
		holiday.IsActive = *req.IsActive
	}

	if err := s.HolidayRepository.Update(ctx, holiday); err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	return nil
}

// DeleteHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, actor leave.Actor, holidayID string) error {
	if !actor.ManageAll {
		return leave.ErrNotAuthorized
	}
	return s.HolidayRepository.Delete(ctx, actor.CompanyID, holidayID)
}

// ListHolidays implements calendar.CalendarService.
func (s *CalendarServiceImpl) ListHolidays(ctx context.Context, actor leave.Actor) ([]calendar.HolidayResponse, error) {
	holidays, err := s.HolidayRepository.GetActiveByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]calendar.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, newHolidayResponse(h))
	}
	return responses, nil
}

// SetWorkWeek implements calendar.CalendarService.
func (s *CalendarServiceImpl) SetWorkWeek(ctx context.Context, actor leave.Actor, req calendar.SetWorkWeekRequest) error {
	if !actor.ManageAll {
		return leave.ErrNotAuthorized
	}
	if err := s.WorkWeekRepository.Upsert(ctx, req.ToWorkWeek(actor.CompanyID)); err != nil {
		return fmt.Errorf("failed to set work week: %w", err)
	}
	return nil
}

// GetWorkWeek implements calendar.CalendarService.
func (s *CalendarServiceImpl) GetWorkWeek(ctx context.Context, actor leave.Actor) (calendar.WorkWeekResponse, error) {
	workWeek, found, err := s.WorkWeekRepository.GetByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return calendar.WorkWeekResponse{}, fmt.Errorf("failed to get work week: %w", err)
	}
	if !found {
		workWeek = calendar.DefaultWorkWeek(actor.CompanyID)
	}

	return calendar.WorkWeekResponse{
		Sunday:    workWeek.Working[time.Sunday],
		Monday:    workWeek.Working[time.Monday],
		Tuesday:   workWeek.Working[time.Tuesday],
		Wednesday: workWeek.Working[time.Wednesday],
		Thursday:  workWeek.Working[time.Thursday],
		Friday:    workWeek.Working[time.Friday],
		Saturday:  workWeek.Working[time.Saturday],
	}, nil
}

func newHolidayResponse(h calendar.Holiday) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:        h.ID,
		Name:      h.Name,
		Date:      h.Date.Format(dateLayout),
		Recurring: h.Recurring,
		IsActive:  h.IsActive,
	}
}
