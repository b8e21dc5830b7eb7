package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

type fakeHolidayRepo struct {
	holidays map[string]calendar.Holiday
	seq      int
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: make(map[string]calendar.Holiday)}
}

func (r *fakeHolidayRepo) Create(_ context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	r.seq++
	holiday.ID = fmt.Sprintf("hol-%d", r.seq)
	r.holidays[holiday.ID] = holiday
	return holiday, nil
}

func (r *fakeHolidayRepo) GetByID(_ context.Context, companyID, id string) (calendar.Holiday, error) {
	h, ok := r.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.Holiday{}, calendar.ErrHolidayNotFound
	}
	return h, nil
}

func (r *fakeHolidayRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]calendar.Holiday, error) {
	var out []calendar.Holiday
	for _, h := range r.holidays {
		if h.CompanyID == companyID && h.IsActive {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) Update(_ context.Context, holiday calendar.Holiday) error {
	if _, ok := r.holidays[holiday.ID]; !ok {
		return calendar.ErrHolidayNotFound
	}
	r.holidays[holiday.ID] = holiday
	return nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, companyID, id string) error {
	h, ok := r.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}

type fakeWorkWeekRepo struct {
	weeks map[string]calendar.WorkWeek
}

func (r *fakeWorkWeekRepo) GetByCompanyID(_ context.Context, companyID string) (calendar.WorkWeek, bool, error) {
	w, ok := r.weeks[companyID]
	return w, ok, nil
}

func (r *fakeWorkWeekRepo) Upsert(_ context.Context, workWeek calendar.WorkWeek) error {
	if r.weeks == nil {
		r.weeks = make(map[string]calendar.WorkWeek)
	}
	r.weeks[workWeek.CompanyID] = workWeek
	return nil
}

func calendarAdmin() leave.Actor {
	return leave.Actor{EmployeeID: "alice", CompanyID: "co-1", ManageAll: true}
}

func TestCreateHoliday(t *testing.T) {
	holidays := newFakeHolidayRepo()
	svc := NewCalendarService(holidays, &fakeWorkWeekRepo{})

	t.Run("requires manage capability", func(t *testing.T) {
		_, err := svc.CreateHoliday(context.Background(), leave.Actor{EmployeeID: "carol", CompanyID: "co-1"}, calendar.CreateHolidayRequest{
			Name: "Independence Day",
			Date: "2024-08-17",
		})
		assert.ErrorIs(t, err, leave.ErrNotAuthorized)
	})

	t.Run("creates an active holiday", func(t *testing.T) {
		resp, err := svc.CreateHoliday(context.Background(), calendarAdmin(), calendar.CreateHolidayRequest{
			Name:      "Independence Day",
			Date:      "2024-08-17",
			Recurring: true,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "2024-08-17", resp.Date)
		assert.True(t, resp.Recurring)
		assert.True(t, resp.IsActive)
	})
}

func TestUpdateHoliday(t *testing.T) {
	holidays := newFakeHolidayRepo()
	created, err := holidays.Create(context.Background(), calendar.Holiday{
		CompanyID: "co-1",
		Name:      "Founding Day",
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	require.NoError(t, err)
	svc := NewCalendarService(holidays, &fakeWorkWeekRepo{})

	inactive := false
	err = svc.UpdateHoliday(context.Background(), calendarAdmin(), calendar.UpdateHolidayRequest{
		ID:       created.ID,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	updated, err := holidays.GetByID(context.Background(), "co-1", created.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Founding Day", updated.Name)
}

func TestUpdateHolidayNotFound(t *testing.T) {
	svc := NewCalendarService(newFakeHolidayRepo(), &fakeWorkWeekRepo{})

	err := svc.UpdateHoliday(context.Background(), calendarAdmin(), calendar.UpdateHolidayRequest{ID: "hol-missing"})
	assert.ErrorIs(t, err, calendar.ErrHolidayNotFound)
}

func TestListHolidaysSkipsInactive(t *testing.T) {
	holidays := newFakeHolidayRepo()
	_, err := holidays.Create(context.Background(), calendar.Holiday{CompanyID: "co-1", Name: "Active", IsActive: true})
	require.NoError(t, err)
	_, err = holidays.Create(context.Background(), calendar.Holiday{CompanyID: "co-1", Name: "Retired"})
	require.NoError(t, err)
	svc := NewCalendarService(holidays, &fakeWorkWeekRepo{})

	listed, err := svc.ListHolidays(context.Background(), calendarAdmin())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Active", listed[0].Name)
}

func TestWorkWeekRoundTrip(t *testing.T) {
	svc := NewCalendarService(newFakeHolidayRepo(), &fakeWorkWeekRepo{})

	t.Run("defaults to Monday through Friday", func(t *testing.T) {
		week, err := svc.GetWorkWeek(context.Background(), calendarAdmin())
		require.NoError(t, err)
		assert.False(t, week.Sunday)
		assert.True(t, week.Monday)
		assert.True(t, week.Friday)
		assert.False(t, week.Saturday)
	})

	t.Run("set then get", func(t *testing.T) {
		err := svc.SetWorkWeek(context.Background(), calendarAdmin(), calendar.SetWorkWeekRequest{
			Sunday: true, Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
		})
		require.NoError(t, err)

		week, err := svc.GetWorkWeek(context.Background(), calendarAdmin())
		require.NoError(t, err)
		assert.True(t, week.Sunday)
		assert.False(t, week.Friday)
	})
}
