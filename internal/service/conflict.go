package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polydesk/polydesk/internal/models"
)

// The fixed set of compared business fields. Anything outside this list is
// never part of conflict detection.
var comparedFields = []string{
	"date", "saleParty", "quantitySold", "saleRate", "deliveryTerms",
	"saleComments", "productCode", "grade", "company", "specificGrade",
	"source", "purchaseParty", "quantityPurchased", "purchaseRate",
	"purchaseComments", "warehouse", "finalComments",
}

type fieldPair struct {
	name      string
	dbText    string
	sheetText string
	equal     bool
}

// detectConflicts compares a local deal against its sheet counterpart across
// the fixed field list. Values are normalized before comparison: text fields
// are trimmed, numeric fields are compared as decimals, so "100" and "100.00"
// never register as a conflict.
func detectConflicts(local models.Deal, remote models.SheetDeal) []models.SyncConflict {
	pairs := []fieldPair{
		textPair("date", local.Date, remote.Date),
		textPair("saleParty", local.SaleParty, remote.SaleParty),
		decimalPair("quantitySold", local.QuantitySold, remote.QuantitySold),
		decimalPair("saleRate", local.SaleRate, remote.SaleRate),
		textPair("deliveryTerms", local.DeliveryTerms, remote.DeliveryTerms),
		textPair("saleComments", local.SaleComments, remote.SaleComments),
		textPair("productCode", local.ProductCode, remote.ProductCode),
		textPair("grade", local.Grade, remote.Grade),
		textPair("company", local.Company, remote.Company),
		textPair("specificGrade", local.SpecificGrade, remote.SpecificGrade),
		textPair("source", local.Source, remote.Source),
		textPair("purchaseParty", local.PurchaseParty, remote.PurchaseParty),
		decimalPair("quantityPurchased", local.QuantityPurchased, remote.QuantityPurchased),
		decimalPair("purchaseRate", local.PurchaseRate, remote.PurchaseRate),
		textPair("purchaseComments", local.PurchaseComments, remote.PurchaseComments),
		textPair("warehouse", optText(local.Warehouse), remote.Warehouse),
		textPair("finalComments", optText(local.FinalComments), remote.FinalComments),
	}

	var conflicts []models.SyncConflict
	for _, p := range pairs {
		if p.equal {
			continue
		}
		conflicts = append(conflicts, models.SyncConflict{
			DealID:            local.ID,
			Field:             p.name,
			DatabaseValue:     p.dbText,
			SheetsValue:       p.sheetText,
			DatabaseUpdatedAt: local.UpdatedAt,
			// SheetsUpdatedAt stays nil: the sheet has no modification timestamp
		})
	}
	return conflicts
}

func textPair(name, dbValue, sheetValue string) fieldPair {
	return fieldPair{
		name:      name,
		dbText:    dbValue,
		sheetText: sheetValue,
		equal:     strings.TrimSpace(dbValue) == strings.TrimSpace(sheetValue),
	}
}

func decimalPair(name string, dbValue, sheetValue decimal.Decimal) fieldPair {
	return fieldPair{
		name:      name,
		dbText:    dbValue.String(),
		sheetText: sheetValue.String(),
		equal:     dbValue.Equal(sheetValue),
	}
}

func optText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
