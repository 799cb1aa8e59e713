package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinica-otica/internal/domain/schedule"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Config
// --------------------------------------------------

func (r *ScheduleGormRepository) GetConfig(ctx context.Context, branchID uint) (*models.ScheduleConfig, error) {
	var cfg models.ScheduleConfig
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		First(&cfg).Error; err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *ScheduleGormRepository) SaveConfig(
	ctx context.Context,
	cfg *models.ScheduleConfig,
	fromDate string,
	slots []string,
) (int64, error) {

	var regenerated int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "branch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"open_time", "close_time", "interval_minutes",
				"lunch_start", "lunch_end", "weekdays", "updated_at",
			}),
		}).Create(cfg).Error; err != nil {
			return err
		}

		// Same serializer as the Slots field so the column stays JSON.
		res := tx.Model(&models.AvailableDate{}).
			Where("branch_id = ? AND date >= ?", cfg.BranchID, fromDate).
			Select("slots", "updated_at").
			Updates(&models.AvailableDate{Slots: slots})
		if res.Error != nil {
			return res.Error
		}
		regenerated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return regenerated, nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *ScheduleGormRepository) BranchExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate(err)
}

func (r *ScheduleGormRepository) DoctorActive(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ? AND active = ?", id, true).
		Count(&n).Error
	return n > 0, translate(err)
}

// --------------------------------------------------
// Available dates
// --------------------------------------------------

func (r *ScheduleGormRepository) InsertDates(ctx context.Context, dates []models.AvailableDate) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Omit("Branch", "Doctor").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dates)
	return res.RowsAffected, translate(res.Error)
}

func (r *ScheduleGormRepository) ListDates(ctx context.Context, f domain.DateFilter) ([]models.AvailableDate, error) {
	q := r.db.WithContext(ctx).Preload("Doctor")

	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.DoctorID != nil {
		q = q.Where("doctor_id = ?", *f.DoctorID)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	var dates []models.AvailableDate
	if err := q.Order("date ASC, id ASC").Find(&dates).Error; err != nil {
		return nil, translate(err)
	}
	return dates, nil
}

func (r *ScheduleGormRepository) GetDate(ctx context.Context, id uint) (*models.AvailableDate, error) {
	var d models.AvailableDate
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *ScheduleGormRepository) SetDateActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.AvailableDate{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ScheduleGormRepository) DeleteDate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.AvailableDate{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ScheduleGormRepository) CountLiveAppointments(ctx context.Context, branchID uint, date string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("branch_id = ? AND date = ? AND status <> ?", branchID, date, "cancelled").
		Count(&n).Error
	return n, translate(err)
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
