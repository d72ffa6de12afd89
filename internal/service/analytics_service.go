package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartyTotal is one counterparty's aggregate traded value.
type PartyTotal struct {
	Party string          `json:"party"`
	Deals int             `json:"deals"`
	Value decimal.Decimal `json:"value"`
}

// MonthlyTotal aggregates deal value for one mm-yyyy bucket.
type MonthlyTotal struct {
	Month         string          `json:"month"`
	Deals         int             `json:"deals"`
	SaleValue     decimal.Decimal `json:"saleValue"`
	PurchaseValue decimal.Decimal `json:"purchaseValue"`
}

// AnalyticsSummary is the dashboard aggregate snapshot.
type AnalyticsSummary struct {
	DealCount          int64           `json:"dealCount"`
	TotalSaleValue     decimal.Decimal `json:"totalSaleValue"`
	TotalPurchaseValue decimal.Decimal `json:"totalPurchaseValue"`
	GrossMargin        decimal.Decimal `json:"grossMargin"`
	DealsFromNew       int64           `json:"dealsFromNew"`
	DealsFromInventory int64           `json:"dealsFromInventory"`
	TopCustomers       []PartyTotal    `json:"topCustomers"`
	Monthly            []MonthlyTotal  `json:"monthly"`
}

// AnalyticsService computes read-only dashboard aggregates straight from the
// deal table.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Summary builds the full dashboard snapshot.
func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{
		TopCustomers: []PartyTotal{},
		Monthly:      []MonthlyTotal{},
	}

	type totalsRow struct {
		DealCount          int64
		TotalSaleValue     decimal.Decimal
		TotalPurchaseValue decimal.Decimal
		DealsFromNew       int64
		DealsFromInventory int64
	}
	var totals totalsRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS deal_count,
			COALESCE(SUM(quantity_sold * sale_rate), 0) AS total_sale_value,
			COALESCE(SUM(quantity_purchased * purchase_rate), 0) AS total_purchase_value,
			COUNT(*) FILTER (WHERE source = 'new') AS deals_from_new,
			COUNT(*) FILTER (WHERE source = 'inventory') AS deals_from_inventory
		FROM deal`).Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute deal totals: %w", err)
	}

	summary.DealCount = totals.DealCount
	summary.TotalSaleValue = totals.TotalSaleValue
	summary.TotalPurchaseValue = totals.TotalPurchaseValue
	summary.GrossMargin = totals.TotalSaleValue.Sub(totals.TotalPurchaseValue)
	summary.DealsFromNew = totals.DealsFromNew
	summary.DealsFromInventory = totals.DealsFromInventory

	err = s.db.WithContext(ctx).Raw(`
		SELECT
			sale_party AS party,
			COUNT(*) AS deals,
			COALESCE(SUM(quantity_sold * sale_rate), 0) AS value
		FROM deal
		GROUP BY sale_party
		ORDER BY value DESC
		LIMIT 10`).Scan(&summary.TopCustomers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top customers: %w", err)
	}

	// Deal dates are stored as dd-mm-yyyy text; the month bucket is the
	// mm-yyyy suffix.
	err = s.db.WithContext(ctx).Raw(`
		SELECT
			substring(date from 4) AS month,
			COUNT(*) AS deals,
			COALESCE(SUM(quantity_sold * sale_rate), 0) AS sale_value,
			COALESCE(SUM(quantity_purchased * purchase_rate), 0) AS purchase_value
		FROM deal
		GROUP BY substring(date from 4)
		ORDER BY substring(date from 4)`).Scan(&summary.Monthly).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly totals: %w", err)
	}

	return summary, nil
}
