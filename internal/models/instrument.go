package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InstrumentPayable    = "payable"
	InstrumentReceivable = "receivable"

	InstrumentOpen      = "open"
	InstrumentPaid      = "paid"
	InstrumentCancelled = "cancelled"
)

// Instrument is a payable or receivable título. Overdue is derived from
// DueDate and never stored.
type Instrument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BranchID   uint      `gorm:"index;not null" json:"branch_id"`
	Branch     Branch    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	SupplierID *uint     `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"supplier,omitempty"`

	Kind           string          `gorm:"size:12;not null" json:"kind"`
	Description    string          `gorm:"size:255" json:"description"`
	DocumentNumber string          `gorm:"size:50" json:"document_number"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate        time.Time       `gorm:"type:date;index;not null" json:"due_date"`
	PaymentDate    *time.Time      `gorm:"type:date" json:"payment_date"`
	PaidAmount     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"paid_amount"`

	LateFeePercent  decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"late_fee_percent"`
	InterestPercent decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"interest_percent"` // per month

	Status string `gorm:"size:12;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Instrument) TableName() string { return "titulos" }

func (i *Instrument) GetID() uint   { return i.ID }
func (i *Instrument) SetID(id uint) { i.ID = id }
