package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/polydesk/polydesk/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrLotNotFound = errors.New("inventory lot not found")

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create inserts a new inventory lot
func (r *InventoryRepository) Create(ctx context.Context, lot *models.InventoryLot) error {
	if err := r.db.WithContext(ctx).Create(lot).Error; err != nil {
		return fmt.Errorf("failed to create inventory lot: %w", err)
	}
	return nil
}

// GetByID retrieves a lot by primary key
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*models.InventoryLot, error) {
	var lot models.InventoryLot
	result := r.db.WithContext(ctx).First(&lot, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, fmt.Errorf("failed to get inventory lot: %w", result.Error)
	}
	return &lot, nil
}

// List retrieves lots, optionally filtered by product code
func (r *InventoryRepository) List(ctx context.Context, productCode string) ([]models.InventoryLot, error) {
	var lots []models.InventoryLot
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if productCode != "" {
		query = query.Where("product_code = ?", productCode)
	}
	result := query.Find(&lots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list inventory lots: %w", result.Error)
	}
	return lots, nil
}

// ListByProduct retrieves lots matching the full product identification,
// oldest first, for drawdown.
func (r *InventoryRepository) ListByProduct(ctx context.Context, productCode, grade, company string) ([]models.InventoryLot, error) {
	var lots []models.InventoryLot
	result := r.db.WithContext(ctx).
		Where("product_code = ? AND grade = ? AND company = ?", productCode, grade, company).
		Order("created_at ASC").
		Find(&lots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list inventory lots: %w", result.Error)
	}
	return lots, nil
}

// Update saves an existing lot
func (r *InventoryRepository) Update(ctx context.Context, lot *models.InventoryLot) error {
	result := r.db.WithContext(ctx).Model(&models.InventoryLot{}).
		Where("id = ?", lot.ID).
		Updates(map[string]interface{}{
			"product_code":   lot.ProductCode,
			"grade":          lot.Grade,
			"company":        lot.Company,
			"specific_grade": lot.SpecificGrade,
			"quantity":       lot.Quantity,
			"warehouse":      lot.Warehouse,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update inventory lot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLotNotFound
	}
	return nil
}

// UpdateQuantity sets the remaining quantity of a lot
func (r *InventoryRepository) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.InventoryLot{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update lot quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLotNotFound
	}
	return nil
}

// Delete removes a lot by primary key
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryLot{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory lot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLotNotFound
	}
	return nil
}
