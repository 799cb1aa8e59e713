package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/appointment"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Branch
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return nil, translate(err)
	}
	return &branch, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveDates(
	ctx context.Context,
	branchID uint,
	date string,
) ([]models.AvailableDate, error) {

	var dates []models.AvailableDate
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ? AND active = ?", branchID, date, true).
		Order("id ASC").
		Find(&dates).Error; err != nil {
		return nil, translate(err)
	}
	return dates, nil
}

func (r *AppointmentGormRepository) BookedTimes(
	ctx context.Context,
	branchID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("branch_id = ? AND date = ? AND status <> ?", branchID, date, string(domain.StatusCancelled)).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, translate(err)
	}
	return times, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment relies on idx_agendamento_slot; a concurrent booking of
// the same slot surfaces as store.ErrDuplicate.
func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit("Branch", "Doctor").Create(ap).Error)
}

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&ap, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, id uint, patch map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.DoctorID != nil {
		q = q.Where("doctor_id = ?", *f.DoctorID)
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset((max(f.Page, 1) - 1) * f.Limit)
	}

	var apps []models.Appointment
	if err := q.
		Preload("Doctor").
		Order("date ASC, time ASC").
		Find(&apps).Error; err != nil {
		return nil, 0, translate(err)
	}

	return apps, total, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
