package models

import "time"

// ScheduleConfig holds the working window of a branch. Saving it regenerates
// the slots of every future AvailableDate of the branch.
type ScheduleConfig struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BranchID uint `gorm:"uniqueIndex;not null" json:"branch_id"`

	OpenTime        string `gorm:"size:5;not null" json:"open_time"`
	CloseTime       string `gorm:"size:5;not null" json:"close_time"`
	IntervalMinutes int    `gorm:"not null" json:"interval_minutes"`
	LunchStart      string `gorm:"size:5" json:"lunch_start"`
	LunchEnd        string `gorm:"size:5" json:"lunch_end"`
	Weekdays        []int  `gorm:"serializer:json" json:"weekdays"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScheduleConfig) TableName() string { return "configuracoes_horarios" }

// OperatesOn reports whether the branch opens on the given weekday.
func (c *ScheduleConfig) OperatesOn(weekday time.Weekday) bool {
	for _, d := range c.Weekdays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// AvailableDate is a bookable calendar day at a branch/doctor with its
// precomputed slot list. Date is YYYY-MM-DD.
type AvailableDate struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	BranchID uint     `gorm:"uniqueIndex:idx_available_date;not null" json:"branch_id"`
	Branch   Branch   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	DoctorID uint     `gorm:"uniqueIndex:idx_available_date;not null" json:"doctor_id"`
	Doctor   Doctor   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`
	Date     string   `gorm:"size:10;uniqueIndex:idx_available_date;not null" json:"date"`
	Active   bool     `gorm:"not null" json:"active"`
	Slots    []string `gorm:"serializer:json" json:"slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AvailableDate) TableName() string { return "datas_disponiveis" }
