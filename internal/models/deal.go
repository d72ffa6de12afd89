package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery terms constants
const (
	DeliveryTermsDelivered = "delivered"
	DeliveryTermsPickup    = "pickup"
)

// Deal source constants
const (
	SourceNew       = "new"
	SourceInventory = "inventory"
)

// DealDateLayout is the textual day-month-year form deal dates are stored in.
const DealDateLayout = "02-01-2006"

// Deal pairs one sale transaction with the purchase that covers it.
type Deal struct {
	ID                string          `gorm:"column:id;primaryKey" json:"id"`
	Date              string          `gorm:"column:date;index" json:"date"`
	SaleParty         string          `gorm:"column:sale_party;index" json:"saleParty"`
	QuantitySold      decimal.Decimal `gorm:"column:quantity_sold;type:numeric" json:"quantitySold"`
	SaleRate          decimal.Decimal `gorm:"column:sale_rate;type:numeric" json:"saleRate"`
	DeliveryTerms     string          `gorm:"column:delivery_terms" json:"deliveryTerms"`
	SaleComments      string          `gorm:"column:sale_comments" json:"saleComments"`
	ProductCode       string          `gorm:"column:product_code;index" json:"productCode"`
	Grade             string          `gorm:"column:grade" json:"grade"`
	Company           string          `gorm:"column:company" json:"company"`
	SpecificGrade     string          `gorm:"column:specific_grade" json:"specificGrade"`
	Source            string          `gorm:"column:source;index" json:"source"`
	PurchaseParty     string          `gorm:"column:purchase_party;index" json:"purchaseParty"`
	QuantityPurchased decimal.Decimal `gorm:"column:quantity_purchased;type:numeric" json:"quantityPurchased"`
	PurchaseRate      decimal.Decimal `gorm:"column:purchase_rate;type:numeric" json:"purchaseRate"`
	PurchaseComments  string          `gorm:"column:purchase_comments" json:"purchaseComments"`
	Warehouse         *string         `gorm:"column:warehouse" json:"warehouse,omitempty"`
	FinalComments     *string         `gorm:"column:final_comments" json:"finalComments,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Deal) TableName() string {
	return "deal"
}

// SheetDeal is the spreadsheet projection of a Deal. The deal ID is persisted
// in the sheet's ID column, so identity survives row reordering; RowNumber is
// only valid against the List call that produced it and must be re-resolved
// before any targeted write.
type SheetDeal struct {
	DealID            string          `json:"dealId"`
	RowNumber         int             `json:"rowNumber"`
	Date              string          `json:"date"`
	SaleParty         string          `json:"saleParty"`
	QuantitySold      decimal.Decimal `json:"quantitySold"`
	SaleRate          decimal.Decimal `json:"saleRate"`
	DeliveryTerms     string          `json:"deliveryTerms"`
	SaleComments      string          `json:"saleComments"`
	ProductCode       string          `json:"productCode"`
	Grade             string          `json:"grade"`
	Company           string          `json:"company"`
	SpecificGrade     string          `json:"specificGrade"`
	Source            string          `json:"source"`
	PurchaseParty     string          `json:"purchaseParty"`
	QuantityPurchased decimal.Decimal `json:"quantityPurchased"`
	PurchaseRate      decimal.Decimal `json:"purchaseRate"`
	PurchaseComments  string          `json:"purchaseComments"`
	Warehouse         string          `json:"warehouse"`
	FinalComments     string          `json:"finalComments"`
}

// ToDeal converts a sheet row back into a local Deal record.
func (s SheetDeal) ToDeal() Deal {
	deal := Deal{
		ID:                s.DealID,
		Date:              s.Date,
		SaleParty:         s.SaleParty,
		QuantitySold:      s.QuantitySold,
		SaleRate:          s.SaleRate,
		DeliveryTerms:     s.DeliveryTerms,
		SaleComments:      s.SaleComments,
		ProductCode:       s.ProductCode,
		Grade:             s.Grade,
		Company:           s.Company,
		SpecificGrade:     s.SpecificGrade,
		Source:            s.Source,
		PurchaseParty:     s.PurchaseParty,
		QuantityPurchased: s.QuantityPurchased,
		PurchaseRate:      s.PurchaseRate,
		PurchaseComments:  s.PurchaseComments,
	}
	if s.Warehouse != "" {
		w := s.Warehouse
		deal.Warehouse = &w
	}
	if s.FinalComments != "" {
		f := s.FinalComments
		deal.FinalComments = &f
	}
	return deal
}

// FromDeal builds the spreadsheet projection of a Deal. RowNumber is left
// zero; it is only meaningful on rows read back from the sheet.
func FromDeal(d Deal) SheetDeal {
	s := SheetDeal{
		DealID:            d.ID,
		Date:              d.Date,
		SaleParty:         d.SaleParty,
		QuantitySold:      d.QuantitySold,
		SaleRate:          d.SaleRate,
		DeliveryTerms:     d.DeliveryTerms,
		SaleComments:      d.SaleComments,
		ProductCode:       d.ProductCode,
		Grade:             d.Grade,
		Company:           d.Company,
		SpecificGrade:     d.SpecificGrade,
		Source:            d.Source,
		PurchaseParty:     d.PurchaseParty,
		QuantityPurchased: d.QuantityPurchased,
		PurchaseRate:      d.PurchaseRate,
		PurchaseComments:  d.PurchaseComments,
	}
	if d.Warehouse != nil {
		s.Warehouse = *d.Warehouse
	}
	if d.FinalComments != nil {
		s.FinalComments = *d.FinalComments
	}
	return s
}
