package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
)

const tz = "America/Sao_Paulo"

// Sunday 2026-10-18, 09:00 in São Paulo
var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func memCache() *cache.Availability {
	return cache.NewAvailability(cache.NewMemory(), time.Minute, zap.NewNop())
}

func TestSaveConfigRegeneratesFromToday(t *testing.T) {
	repo := &MockRepo{}
	repo.On("BranchExists", mock.Anything, uint(1)).Return(true, nil)
	repo.On("SaveConfig", mock.Anything, mock.Anything, "2026-10-18",
		[]string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00"}).Return(int64(6), nil)

	c := memCache()
	c.Set(context.Background(), 1, "2026-10-19", []string{"08:00"})
	spy := &auditSpy{}

	uc := NewSaveConfig(repo, c, spy, tz)
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Execute(context.Background(), Actor{UserID: 1}, SaveConfigInput{
		BranchID:        1,
		OpenTime:        "08:00",
		CloseTime:       "14:00",
		IntervalMinutes: 60,
		LunchStart:      "12:00",
		LunchEnd:        "13:00",
		Weekdays:        []int{5, 1, 1},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Regenerated)
	assert.Equal(t, []int{1, 5}, res.Config.Weekdays)
	_, cached := c.Get(context.Background(), 1, "2026-10-19")
	assert.False(t, cached)
	assert.Equal(t, "schedule_config_saved", spy.events[0].Action)
}

func TestSaveConfigInvalidWindowNeverSaves(t *testing.T) {
	repo := &MockRepo{}
	uc := NewSaveConfig(repo, memCache(), &auditSpy{}, tz)

	_, err := uc.Execute(context.Background(), Actor{}, SaveConfigInput{
		BranchID: 1, OpenTime: "18:00", CloseTime: "08:00", IntervalMinutes: 30, Weekdays: []int{1},
	})

	assert.True(t, httperr.IsBusiness(err, "end_before_start"))
	repo.AssertNotCalled(t, "SaveConfig", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveConfigOutOfScope(t *testing.T) {
	scope := uint(2)
	uc := NewSaveConfig(&MockRepo{}, memCache(), &auditSpy{}, tz)

	_, err := uc.Execute(context.Background(), Actor{Scope: &scope}, SaveConfigInput{BranchID: 1})

	assert.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestOpenDatesCreatesOperatingDays(t *testing.T) {
	repo := &MockRepo{}
	repo.On("DoctorActive", mock.Anything, uint(4)).Return(true, nil)
	repo.On("GetConfig", mock.Anything, uint(1)).Return(&models.ScheduleConfig{
		BranchID: 1, OpenTime: "08:00", CloseTime: "09:00", IntervalMinutes: 30, Weekdays: []int{1, 2},
	}, nil)
	repo.On("InsertDates", mock.Anything, mock.MatchedBy(func(rows []models.AvailableDate) bool {
		return len(rows) == 2 &&
			rows[0].Date == "2026-10-19" && rows[1].Date == "2026-10-20" &&
			len(rows[0].Slots) == 3 && rows[0].DoctorID == 4
	})).Return(int64(1), nil)

	uc := NewOpenDates(repo, memCache(), &auditSpy{}, tz)
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Execute(context.Background(), Actor{}, OpenDatesInput{
		BranchID: 1, DoctorID: 4, From: "2026-10-18", To: "2026-10-21",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Created)
	assert.Equal(t, int64(1), res.Skipped)
}

func TestOpenDatesWithoutConfig(t *testing.T) {
	repo := &MockRepo{}
	repo.On("DoctorActive", mock.Anything, uint(4)).Return(true, nil)
	repo.On("GetConfig", mock.Anything, uint(1)).Return(nil, store.ErrNotFound)

	uc := NewOpenDates(repo, memCache(), &auditSpy{}, tz)
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), Actor{}, OpenDatesInput{
		BranchID: 1, DoctorID: 4, From: "2026-10-19", To: "2026-10-20",
	})

	assert.True(t, httperr.IsBusiness(err, "schedule_not_configured"))
}

func TestOpenDatesInPast(t *testing.T) {
	uc := NewOpenDates(&MockRepo{}, memCache(), &auditSpy{}, tz)
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), Actor{}, OpenDatesInput{
		BranchID: 1, DoctorID: 4, From: "2026-10-17", To: "2026-10-20",
	})

	assert.True(t, httperr.IsBusiness(err, "date_in_past"))
}

func TestDeleteDateGuardedByAppointments(t *testing.T) {
	repo := &MockRepo{}
	repo.On("GetDate", mock.Anything, uint(8)).Return(&models.AvailableDate{ID: 8, BranchID: 1, Date: "2026-10-20"}, nil)
	repo.On("CountLiveAppointments", mock.Anything, uint(1), "2026-10-20").Return(int64(2), nil)

	err := NewManageDate(repo, memCache(), &auditSpy{}).Delete(context.Background(), Actor{}, 8)

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "has_dependents", be.Code)
	assert.Contains(t, be.Message, "2 agendamentos")
	repo.AssertNotCalled(t, "DeleteDate", mock.Anything, mock.Anything)
}

func TestDeleteDateAllowed(t *testing.T) {
	repo := &MockRepo{}
	repo.On("GetDate", mock.Anything, uint(8)).Return(&models.AvailableDate{ID: 8, BranchID: 1, Date: "2026-10-20"}, nil)
	repo.On("CountLiveAppointments", mock.Anything, uint(1), "2026-10-20").Return(int64(0), nil)
	repo.On("DeleteDate", mock.Anything, uint(8)).Return(nil)

	require.NoError(t, NewManageDate(repo, memCache(), &auditSpy{}).Delete(context.Background(), Actor{}, 8))
	repo.AssertExpectations(t)
}

func TestSetDateActive(t *testing.T) {
	repo := &MockRepo{}
	repo.On("GetDate", mock.Anything, uint(8)).Return(&models.AvailableDate{ID: 8, BranchID: 1, Date: "2026-10-20", Active: true}, nil)
	repo.On("SetDateActive", mock.Anything, uint(8), false).Return(nil)

	d, err := NewManageDate(repo, memCache(), &auditSpy{}).SetActive(context.Background(), Actor{}, 8, false)

	require.NoError(t, err)
	assert.False(t, d.Active)
}
