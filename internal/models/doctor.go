package models

import "time"

type Doctor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100" json:"specialty"`
	CRM       string `gorm:"column:crm;size:20" json:"crm"`
	Active    bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Doctor) TableName() string { return "medicos" }

func (d *Doctor) GetID() uint   { return d.ID }
func (d *Doctor) SetID(id uint) { d.ID = id }
