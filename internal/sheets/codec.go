package sheets

import (
	"fmt"
	"strings"

	"github.com/polydesk/polydesk/internal/models"
	"github.com/shopspring/decimal"
)

// Sheet layout: column A carries the deal ID, columns B..R carry the business
// fields in fixed order. Row 1 is the header; data starts at row 2.
const (
	readRange   = "A:R"
	headerRows  = 1
	columnCount = 18
)

var headerRow = []interface{}{
	"Deal ID", "Date", "Sale Party", "Qty Sold", "Sale Rate", "Delivery",
	"Sale Comments", "Product", "Grade", "Company", "Specific Grade",
	"Source", "Purchase Party", "Qty Purchased", "Purchase Rate",
	"Purchase Comments", "Warehouse", "Final Comments",
}

// dealToRow serializes a sheet deal into one spreadsheet row. Decimals are
// written as plain text so the round trip through cell formatting is exact.
func dealToRow(d models.SheetDeal) []interface{} {
	return []interface{}{
		d.DealID,
		d.Date,
		d.SaleParty,
		d.QuantitySold.String(),
		d.SaleRate.String(),
		d.DeliveryTerms,
		d.SaleComments,
		d.ProductCode,
		d.Grade,
		d.Company,
		d.SpecificGrade,
		d.Source,
		d.PurchaseParty,
		d.QuantityPurchased.String(),
		d.PurchaseRate.String(),
		d.PurchaseComments,
		d.Warehouse,
		d.FinalComments,
	}
}

// rowToDeal maps one spreadsheet row to a SheetDeal. Rows without an ID cell
// are skipped (ok=false); numeric cells that fail to parse fall back to zero.
func rowToDeal(row []interface{}, rowNumber int) (models.SheetDeal, bool) {
	id := strings.TrimSpace(cellString(row, 0))
	if id == "" {
		return models.SheetDeal{}, false
	}

	return models.SheetDeal{
		DealID:            id,
		RowNumber:         rowNumber,
		Date:              cellString(row, 1),
		SaleParty:         cellString(row, 2),
		QuantitySold:      cellDecimal(row, 3),
		SaleRate:          cellDecimal(row, 4),
		DeliveryTerms:     cellString(row, 5),
		SaleComments:      cellString(row, 6),
		ProductCode:       cellString(row, 7),
		Grade:             cellString(row, 8),
		Company:           cellString(row, 9),
		SpecificGrade:     cellString(row, 10),
		Source:            cellString(row, 11),
		PurchaseParty:     cellString(row, 12),
		QuantityPurchased: cellDecimal(row, 13),
		PurchaseRate:      cellDecimal(row, 14),
		PurchaseComments:  cellString(row, 15),
		Warehouse:         cellString(row, 16),
		FinalComments:     cellString(row, 17),
	}, true
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", row[idx])
}

func cellDecimal(row []interface{}, idx int) decimal.Decimal {
	s := strings.TrimSpace(cellString(row, idx))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
