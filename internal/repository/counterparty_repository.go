package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/polydesk/polydesk/internal/models"
	"gorm.io/gorm"
)

var ErrCounterpartyNotFound = errors.New("counterparty not found")

type CounterpartyRepository struct {
	db *gorm.DB
}

func NewCounterpartyRepository(db *gorm.DB) *CounterpartyRepository {
	return &CounterpartyRepository{db: db}
}

// Create inserts a new counterparty
func (r *CounterpartyRepository) Create(ctx context.Context, cp *models.Counterparty) error {
	if err := r.db.WithContext(ctx).Create(cp).Error; err != nil {
		return fmt.Errorf("failed to create counterparty: %w", err)
	}
	return nil
}

// GetByID retrieves a counterparty by primary key
func (r *CounterpartyRepository) GetByID(ctx context.Context, id string) (*models.Counterparty, error) {
	var cp models.Counterparty
	result := r.db.WithContext(ctx).First(&cp, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCounterpartyNotFound
		}
		return nil, fmt.Errorf("failed to get counterparty: %w", result.Error)
	}
	return &cp, nil
}

// List retrieves counterparties, optionally filtered by kind
func (r *CounterpartyRepository) List(ctx context.Context, kind string) ([]models.Counterparty, error) {
	var cps []models.Counterparty
	query := r.db.WithContext(ctx).Order("name ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	result := query.Find(&cps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list counterparties: %w", result.Error)
	}
	return cps, nil
}

// Update saves an existing counterparty
func (r *CounterpartyRepository) Update(ctx context.Context, cp *models.Counterparty) error {
	result := r.db.WithContext(ctx).Model(&models.Counterparty{}).
		Where("id = ?", cp.ID).
		Updates(map[string]interface{}{
			"name":  cp.Name,
			"kind":  cp.Kind,
			"phone": cp.Phone,
			"email": cp.Email,
			"notes": cp.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update counterparty: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCounterpartyNotFound
	}
	return nil
}

// Delete removes a counterparty by primary key
func (r *CounterpartyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Counterparty{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete counterparty: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCounterpartyNotFound
	}
	return nil
}
