package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash   = "cash"
	PaymentPix    = "pix"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
	PaymentBoleto = "boleto"
	PaymentOther  = "other"
)

const (
	AttendanceConsultation = "consultation"
	AttendanceExam         = "exam"
	AttendanceSale         = "sale"
	AttendanceReturn       = "return"
	AttendanceOther        = "other"
)

// RevenueEntry is one line of the revenue registry (registro de caixa).
type RevenueEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BranchID uint   `gorm:"index;not null" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Date           time.Time       `gorm:"type:date;index;not null" json:"date"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod  string          `gorm:"size:20;not null" json:"payment_method"`
	AttendanceType string          `gorm:"size:20;not null" json:"attendance_type"`
	OSNumber       string          `gorm:"column:os_number;size:30" json:"os_number"`
	Description    string          `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RevenueEntry) TableName() string { return "registros_receita" }

func (r *RevenueEntry) GetID() uint   { return r.ID }
func (r *RevenueEntry) SetID(id uint) { r.ID = id }
