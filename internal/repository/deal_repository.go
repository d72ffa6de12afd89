package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/polydesk/polydesk/internal/models"
	"gorm.io/gorm"
)

var ErrDealNotFound = errors.New("deal not found")

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create inserts a new deal
func (r *DealRepository) Create(ctx context.Context, deal *models.Deal) error {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

// GetByID retrieves a deal by primary key
func (r *DealRepository) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	var deal models.Deal
	result := r.db.WithContext(ctx).First(&deal, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", result.Error)
	}
	return &deal, nil
}

// List retrieves all deals ordered by creation time
func (r *DealRepository) List(ctx context.Context) ([]models.Deal, error) {
	var deals []models.Deal
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&deals)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list deals: %w", result.Error)
	}
	return deals, nil
}

// Update saves all business fields of an existing deal
func (r *DealRepository) Update(ctx context.Context, deal *models.Deal) error {
	result := r.db.WithContext(ctx).Model(&models.Deal{}).
		Where("id = ?", deal.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(deal)
	if result.Error != nil {
		return fmt.Errorf("failed to update deal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return nil
}

// Delete removes a deal by primary key
func (r *DealRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Deal{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete deal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return nil
}

// Count returns the number of stored deals
func (r *DealRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Deal{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count deals: %w", result.Error)
	}
	return count, nil
}
