package schedule

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) GetConfig(ctx context.Context, branchID uint) (*models.ScheduleConfig, error) {
	args := m.Called(ctx, branchID)
	c, _ := args.Get(0).(*models.ScheduleConfig)
	return c, args.Error(1)
}

func (m *MockRepo) SaveConfig(ctx context.Context, cfg *models.ScheduleConfig, fromDate string, slots []string) (int64, error) {
	args := m.Called(ctx, cfg, fromDate, slots)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) BranchExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) DoctorActive(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) InsertDates(ctx context.Context, dates []models.AvailableDate) (int64, error) {
	args := m.Called(ctx, dates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) ListDates(ctx context.Context, f domain.DateFilter) ([]models.AvailableDate, error) {
	args := m.Called(ctx, f)
	d, _ := args.Get(0).([]models.AvailableDate)
	return d, args.Error(1)
}

func (m *MockRepo) GetDate(ctx context.Context, id uint) (*models.AvailableDate, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.AvailableDate)
	return d, args.Error(1)
}

func (m *MockRepo) SetDateActive(ctx context.Context, id uint, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRepo) DeleteDate(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepo) CountLiveAppointments(ctx context.Context, branchID uint, date string) (int64, error) {
	args := m.Called(ctx, branchID, date)
	return args.Get(0).(int64), args.Error(1)
}

var _ domain.Repository = (*MockRepo)(nil)

type auditSpy struct{ events []audit.Event }

func (a *auditSpy) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }
