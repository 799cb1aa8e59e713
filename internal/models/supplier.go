package models

import "time"

type SupplierType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SupplierType) TableName() string { return "tipos_fornecedores" }

func (t *SupplierType) GetID() uint   { return t.ID }
func (t *SupplierType) SetID(id uint) { t.ID = id }

type Supplier struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	Name     string        `gorm:"size:150;not null" json:"name"`
	Document string        `gorm:"size:14" json:"document"` // CPF/CNPJ, digits only
	TypeID   *uint         `gorm:"index" json:"type_id"`
	Type     *SupplierType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"type,omitempty"`
	Phone    string        `gorm:"size:20" json:"phone"`
	Email    string        `gorm:"size:100" json:"email"`
	Active   bool          `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string { return "fornecedores" }

func (s *Supplier) GetID() uint   { return s.ID }
func (s *Supplier) SetID(id uint) { s.ID = id }
