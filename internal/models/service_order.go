package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrderCost is the cost breakdown of one OS (eyewear sale).
type ServiceOrderCost struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BranchID uint   `gorm:"not null;uniqueIndex:idx_os_branch_number" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Number   string `gorm:"size:30;not null;uniqueIndex:idx_os_branch_number" json:"number"`

	Date          time.Time       `gorm:"type:date;index;not null" json:"date"`
	SaleValue     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_value"`
	LensCost      decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"lens_cost"`
	FrameCost     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"frame_cost"`
	MarketingCost decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"marketing_cost"`
	OtherCost     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"other_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceOrderCost) TableName() string { return "custos_os" }

func (o *ServiceOrderCost) GetID() uint   { return o.ID }
func (o *ServiceOrderCost) SetID(id uint) { o.ID = id }
