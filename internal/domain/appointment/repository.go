package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type ListFilter struct {
	BranchID *uint
	DoctorID *uint
	DateFrom string
	DateTo   string
	Status   string
	Page     int
	Limit    int
}

type Repository interface {
	// -------- Branch --------
	GetBranch(ctx context.Context, id uint) (*models.Branch, error)

	// -------- Availability --------
	ListActiveDates(ctx context.Context, branchID uint, date string) ([]models.AvailableDate, error)
	BookedTimes(ctx context.Context, branchID uint, date string) ([]string, error)

	// -------- Appointment --------
	// CreateAppointment returns store.ErrDuplicate when the slot is taken.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id uint, patch map[string]any) error
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)
}
