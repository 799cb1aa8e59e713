package models

import "time"

// Appointment is a booked slot. The partial unique index keeps at most one
// live appointment per (branch, date, time).
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID uint    `gorm:"not null;uniqueIndex:idx_agendamento_slot,where:status <> 'cancelled'" json:"branch_id"`
	Branch   Branch  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	DoctorID *uint   `json:"doctor_id"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor,omitempty"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_agendamento_slot" json:"date"`
	Time string `gorm:"size:5;not null;uniqueIndex:idx_agendamento_slot" json:"time"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "agendamentos" }
