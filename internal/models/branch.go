package models

import "time"

// Branch is a physical clinic/shop location (filial).
type Branch struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	Phone   string `gorm:"size:20" json:"phone"`
	Active  bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string { return "filiais" }

func (b *Branch) GetID() uint   { return b.ID }
func (b *Branch) SetID(id uint) { b.ID = id }
