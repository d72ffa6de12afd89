package models

import "time"

// Counterparty kind constants
const (
	CounterpartyCustomer = "customer"
	CounterpartySupplier = "supplier"
	CounterpartyBoth     = "both"
)

// Counterparty is a customer, a supplier, or both.
type Counterparty struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;uniqueIndex" json:"name"`
	Kind      string    `gorm:"column:kind;index" json:"kind"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Email     string    `gorm:"column:email" json:"email"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Counterparty) TableName() string {
	return "counterparty"
}
