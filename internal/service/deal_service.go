package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
)

// InventoryStore is the inventory surface deal creation draws down from.
type InventoryStore interface {
	ListByProduct(ctx context.Context, productCode, grade, company string) ([]models.InventoryLot, error)
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
}

const dealEventSource = "dealService"

// DealService owns deal CRUD. Every successful mutation is announced on the
// bus; the watcher turns those notifications into sheet sync tasks.
type DealService struct {
	deals     DealStore
	inventory InventoryStore
	bus       EventEmitter
}

func NewDealService(deals DealStore, inventory InventoryStore, bus EventEmitter) *DealService {
	return &DealService{
		deals:     deals,
		inventory: inventory,
		bus:       bus,
	}
}

// Get retrieves one deal by ID.
func (s *DealService) Get(ctx context.Context, id string) (*models.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

// List retrieves all deals.
func (s *DealService) List(ctx context.Context) ([]models.Deal, error) {
	return s.deals.List(ctx)
}

// Create validates and stores a new deal, draws down inventory for
// inventory-sourced deals, and emits deal.created.
func (s *DealService) Create(ctx context.Context, deal *models.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	if err := validateDeal(deal); err != nil {
		return err
	}

	if err := s.deals.Create(ctx, deal); err != nil {
		return err
	}

	if deal.Source == models.SourceInventory {
		// Best effort: a shortfall is logged, never blocks the deal.
		if err := s.drawDownInventory(ctx, deal); err != nil {
			log.Printf("Warning: inventory drawdown for deal %s: %v", deal.ID, err)
		}
	}

	s.bus.Emit(events.DealCreated, deal.ID, dealEventSource)
	return nil
}

// Update validates and saves an existing deal and emits deal.updated.
func (s *DealService) Update(ctx context.Context, deal *models.Deal) error {
	if err := validateDeal(deal); err != nil {
		return err
	}
	if err := s.deals.Update(ctx, deal); err != nil {
		return err
	}
	s.bus.Emit(events.DealUpdated, deal.ID, dealEventSource)
	return nil
}

// Delete removes a deal and emits deal.deleted.
func (s *DealService) Delete(ctx context.Context, id string) error {
	if err := s.deals.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Emit(events.DealDeleted, id, dealEventSource)
	return nil
}

func (s *DealService) drawDownInventory(ctx context.Context, deal *models.Deal) error {
	lots, err := s.inventory.ListByProduct(ctx, deal.ProductCode, deal.Grade, deal.Company)
	if err != nil {
		return err
	}

	remaining := deal.QuantitySold
	for _, lot := range lots {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(lot.Quantity, remaining)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if err := s.inventory.UpdateQuantity(ctx, lot.ID, lot.Quantity.Sub(take)); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return fmt.Errorf("inventory short by %s for product %s", remaining, deal.ProductCode)
	}
	return nil
}

func validateDeal(deal *models.Deal) error {
	if deal.SaleParty == "" {
		return fmt.Errorf("sale party is required")
	}
	if _, err := time.Parse(models.DealDateLayout, deal.Date); err != nil {
		return fmt.Errorf("invalid deal date %q, want dd-mm-yyyy", deal.Date)
	}
	switch deal.DeliveryTerms {
	case models.DeliveryTermsDelivered, models.DeliveryTermsPickup:
	default:
		return fmt.Errorf("invalid delivery terms %q", deal.DeliveryTerms)
	}
	switch deal.Source {
	case models.SourceNew, models.SourceInventory:
	default:
		return fmt.Errorf("invalid deal source %q", deal.Source)
	}
	return nil
}
