package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryKindFixed   = "fixed"
	CategoryKindDiverse = "diverse"
	CategoryKindBoth    = "both"
)

type ExpenseCategory struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Kind   string `gorm:"size:10;default:'both'" json:"kind"`
	Active bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExpenseCategory) TableName() string { return "categorias_despesas" }

func (c *ExpenseCategory) GetID() uint   { return c.ID }
func (c *ExpenseCategory) SetID(id uint) { c.ID = id }

// FixedExpense recurs every month on DueDay.
type FixedExpense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BranchID   uint            `gorm:"index;not null" json:"branch_id"`
	Branch     Branch          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	CategoryID uint            `gorm:"index;not null" json:"category_id"`
	Category   ExpenseCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	SupplierID *uint           `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"supplier,omitempty"`

	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDay      int             `gorm:"not null" json:"due_day"`
	Active      bool            `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FixedExpense) TableName() string { return "despesas_fixas" }

func (e *FixedExpense) GetID() uint   { return e.ID }
func (e *FixedExpense) SetID(id uint) { e.ID = id }

// DiverseExpense is a one-off expense.
type DiverseExpense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BranchID   uint            `gorm:"index;not null" json:"branch_id"`
	Branch     Branch          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	CategoryID uint            `gorm:"index;not null" json:"category_id"`
	Category   ExpenseCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	SupplierID *uint           `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"supplier,omitempty"`

	Description   string          `gorm:"size:255" json:"description"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date          time.Time       `gorm:"type:date;index;not null" json:"date"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DiverseExpense) TableName() string { return "despesas_diversas" }

func (e *DiverseExpense) GetID() uint   { return e.ID }
func (e *DiverseExpense) SetID(id uint) { e.ID = id }
