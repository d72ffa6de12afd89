package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/polydesk/polydesk/internal/models"
	"gorm.io/gorm"
)

type SyncTaskRepository struct {
	db *gorm.DB
}

func NewSyncTaskRepository(db *gorm.DB) *SyncTaskRepository {
	return &SyncTaskRepository{db: db}
}

// Create enqueues a new sync task
func (r *SyncTaskRepository) Create(ctx context.Context, task *models.SyncTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create sync task: %w", err)
	}
	return nil
}

// GetPendingTasks retrieves pending sync tasks, oldest first
func (r *SyncTaskRepository) GetPendingTasks(ctx context.Context, limit int) ([]models.SyncTask, error) {
	var tasks []models.SyncTask
	result := r.db.WithContext(ctx).
		Where("status = ?", models.TaskStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query pending tasks: %w", result.Error)
	}
	return tasks, nil
}

// GetFailedTasks retrieves failed tasks still under the attempt limit
func (r *SyncTaskRepository) GetFailedTasks(ctx context.Context, maxAttempts, limit int) ([]models.SyncTask, error) {
	var tasks []models.SyncTask
	result := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", models.TaskStatusFailed, maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query failed tasks: %w", result.Error)
	}
	return tasks, nil
}

// GetStuckTasks retrieves tasks left in processing longer than cutoff,
// typically after a crash
func (r *SyncTaskRepository) GetStuckTasks(ctx context.Context, cutoff time.Time, limit int) ([]models.SyncTask, error) {
	var tasks []models.SyncTask
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.TaskStatusProcessing, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query stuck tasks: %w", result.Error)
	}
	return tasks, nil
}

// List retrieves the most recent tasks for inspection
func (r *SyncTaskRepository) List(ctx context.Context, limit int) ([]models.SyncTask, error) {
	var tasks []models.SyncTask
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sync tasks: %w", result.Error)
	}
	return tasks, nil
}

// UpdateStatus updates the task status
func (r *SyncTaskRepository) UpdateStatus(ctx context.Context, taskID string, status models.SyncTaskStatus, lastError *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"last_error": lastError,
		"updated_at": time.Now(),
	}

	if status == models.TaskStatusCompleted || status == models.TaskStatusFailed {
		now := time.Now()
		updates["processed_at"] = &now
	}

	result := r.db.WithContext(ctx).Model(&models.SyncTask{}).
		Where("id = ?", taskID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update task status: %w", result.Error)
	}
	return nil
}

// IncrementAttempts increments the retry attempt counter
func (r *SyncTaskRepository) IncrementAttempts(ctx context.Context, taskID string) error {
	result := r.db.WithContext(ctx).Model(&models.SyncTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment attempts: %w", result.Error)
	}
	return nil
}
