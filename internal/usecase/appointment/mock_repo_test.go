package appointment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BruksfildServices01/clinica-otica/internal/audit"
	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Branch)
	return b, args.Error(1)
}

func (m *MockRepo) ListActiveDates(ctx context.Context, branchID uint, date string) ([]models.AvailableDate, error) {
	args := m.Called(ctx, branchID, date)
	d, _ := args.Get(0).([]models.AvailableDate)
	return d, args.Error(1)
}

func (m *MockRepo) BookedTimes(ctx context.Context, branchID uint, date string) ([]string, error) {
	args := m.Called(ctx, branchID, date)
	t, _ := args.Get(0).([]string)
	return t, args.Error(1)
}

func (m *MockRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *MockRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	ap, _ := args.Get(0).(*models.Appointment)
	return ap, args.Error(1)
}

func (m *MockRepo) UpdateAppointment(ctx context.Context, id uint, patch map[string]any) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockRepo) ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	args := m.Called(ctx, f)
	a, _ := args.Get(0).([]models.Appointment)
	return a, args.Get(1).(int64), args.Error(2)
}

var _ domain.Repository = (*MockRepo)(nil)

type auditSpy struct{ events []audit.Event }

func (a *auditSpy) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }
