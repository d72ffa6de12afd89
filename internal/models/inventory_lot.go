package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot is a quantity of one product held in a warehouse. Deals with
// Source "inventory" draw down matching lots when created.
type InventoryLot struct {
	ID            string          `gorm:"column:id;primaryKey" json:"id"`
	ProductCode   string          `gorm:"column:product_code;index" json:"productCode"`
	Grade         string          `gorm:"column:grade" json:"grade"`
	Company       string          `gorm:"column:company" json:"company"`
	SpecificGrade string          `gorm:"column:specific_grade" json:"specificGrade"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric" json:"quantity"`
	Warehouse     string          `gorm:"column:warehouse;index" json:"warehouse"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (InventoryLot) TableName() string {
	return "inventory_lot"
}
