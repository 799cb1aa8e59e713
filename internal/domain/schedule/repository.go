package schedule

import (
	"context"

	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type DateFilter struct {
	BranchID   *uint
	DoctorID   *uint
	From       string
	To         string
	ActiveOnly bool
}

type Repository interface {
	// -------- Config --------
	GetConfig(ctx context.Context, branchID uint) (*models.ScheduleConfig, error)
	// SaveConfig upserts cfg and, in the same transaction, replaces the slot
	// list of every available date of the branch dated fromDate or later.
	SaveConfig(ctx context.Context, cfg *models.ScheduleConfig, fromDate string, slots []string) (int64, error)

	// -------- Lookups --------
	BranchExists(ctx context.Context, id uint) (bool, error)
	DoctorActive(ctx context.Context, id uint) (bool, error)

	// -------- Available dates --------
	// InsertDates skips rows whose (branch, doctor, date) already exists and
	// returns how many were created.
	InsertDates(ctx context.Context, dates []models.AvailableDate) (int64, error)
	ListDates(ctx context.Context, f DateFilter) ([]models.AvailableDate, error)
	GetDate(ctx context.Context, id uint) (*models.AvailableDate, error)
	SetDateActive(ctx context.Context, id uint, active bool) error
	DeleteDate(ctx context.Context, id uint) error
	CountLiveAppointments(ctx context.Context, branchID uint, date string) (int64, error)
}
