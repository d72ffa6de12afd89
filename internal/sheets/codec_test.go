package sheets

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polydesk/polydesk/internal/models"
)

func TestDealToRow_ColumnOrder(t *testing.T) {
	deal := models.SheetDeal{
		DealID:            "d-1",
		Date:              "15-03-2026",
		SaleParty:         "Acme Polymers",
		QuantitySold:      decimal.NewFromInt(100),
		SaleRate:          decimal.NewFromFloat(52.5),
		DeliveryTerms:     models.DeliveryTermsDelivered,
		SaleComments:      "urgent",
		ProductCode:       "PP-H030",
		Grade:             "HP",
		Company:           "Reliance",
		SpecificGrade:     "H030SG",
		Source:            models.SourceNew,
		PurchaseParty:     "Bulk Traders",
		QuantityPurchased: decimal.NewFromInt(100),
		PurchaseRate:      decimal.NewFromInt(50),
		PurchaseComments:  "",
		Warehouse:         "W1",
		FinalComments:     "done",
	}

	row := dealToRow(deal)
	if len(row) != columnCount {
		t.Fatalf("expected %d columns, got %d", columnCount, len(row))
	}

	if row[0] != "d-1" {
		t.Errorf("expected deal ID in column A, got %v", row[0])
	}
	if row[3] != "100" {
		t.Errorf("expected quantity '100' in column D, got %v", row[3])
	}
	if row[4] != "52.5" {
		t.Errorf("expected rate '52.5' in column E, got %v", row[4])
	}
	if row[17] != "done" {
		t.Errorf("expected final comments in column R, got %v", row[17])
	}
}

func TestRowToDeal_RoundTrip(t *testing.T) {
	original := models.SheetDeal{
		DealID:            "d-2",
		Date:              "01-04-2026",
		SaleParty:         "Acme",
		QuantitySold:      decimal.NewFromInt(250),
		SaleRate:          decimal.NewFromFloat(48.75),
		DeliveryTerms:     models.DeliveryTermsPickup,
		SaleComments:      "pickup from gate 2",
		ProductCode:       "HD-B",
		Grade:             "Blow",
		Company:           "IOCL",
		SpecificGrade:     "B56",
		Source:            models.SourceInventory,
		PurchaseParty:     "Poly Imports",
		QuantityPurchased: decimal.NewFromInt(250),
		PurchaseRate:      decimal.NewFromFloat(46.1),
		PurchaseComments:  "spot",
		Warehouse:         "W2",
		FinalComments:     "",
	}

	got, ok := rowToDeal(dealToRow(original), 7)
	if !ok {
		t.Fatal("expected row to map to a deal")
	}

	if got.RowNumber != 7 {
		t.Errorf("expected row number 7, got %d", got.RowNumber)
	}
	if got.DealID != original.DealID {
		t.Errorf("expected DealID %s, got %s", original.DealID, got.DealID)
	}
	if !got.QuantitySold.Equal(original.QuantitySold) {
		t.Errorf("expected QuantitySold %s, got %s", original.QuantitySold, got.QuantitySold)
	}
	if !got.SaleRate.Equal(original.SaleRate) {
		t.Errorf("expected SaleRate %s, got %s", original.SaleRate, got.SaleRate)
	}
	if got.DeliveryTerms != original.DeliveryTerms {
		t.Errorf("expected DeliveryTerms %s, got %s", original.DeliveryTerms, got.DeliveryTerms)
	}
	if got.Warehouse != original.Warehouse {
		t.Errorf("expected Warehouse %s, got %s", original.Warehouse, got.Warehouse)
	}
}

func TestRowToDeal_SkipsRowsWithoutID(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
	}{
		{"empty row", []interface{}{}},
		{"blank id", []interface{}{"", "01-01-2026", "Acme"}},
		{"whitespace id", []interface{}{"   ", "01-01-2026", "Acme"}},
		{"nil id", []interface{}{nil, "01-01-2026", "Acme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := rowToDeal(tt.row, 2); ok {
				t.Error("expected row to be discarded")
			}
		})
	}
}

func TestRowToDeal_NumericFallback(t *testing.T) {
	row := []interface{}{"d-3", "01-01-2026", "Acme", "not-a-number", "", models.DeliveryTermsDelivered}

	deal, ok := rowToDeal(row, 2)
	if !ok {
		t.Fatal("expected row to map to a deal")
	}

	if !deal.QuantitySold.IsZero() {
		t.Errorf("expected unparseable quantity to fall back to zero, got %s", deal.QuantitySold)
	}
	if !deal.SaleRate.IsZero() {
		t.Errorf("expected empty rate to fall back to zero, got %s", deal.SaleRate)
	}
}

func TestRowToDeal_ShortRow(t *testing.T) {
	// A row with only the first few cells populated must still map cleanly.
	row := []interface{}{"d-4", "02-02-2026", "Acme"}

	deal, ok := rowToDeal(row, 3)
	if !ok {
		t.Fatal("expected short row to map to a deal")
	}
	if deal.FinalComments != "" {
		t.Errorf("expected empty final comments, got %q", deal.FinalComments)
	}
	if !deal.PurchaseRate.IsZero() {
		t.Errorf("expected zero purchase rate, got %s", deal.PurchaseRate)
	}
}
