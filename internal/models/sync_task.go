package models

import "time"

type SyncTaskStatus string

const (
	TaskStatusPending    SyncTaskStatus = "pending"
	TaskStatusProcessing SyncTaskStatus = "processing"
	TaskStatusCompleted  SyncTaskStatus = "completed"
	TaskStatusFailed     SyncTaskStatus = "failed"
)

// Sync task operation constants
const (
	TaskOpUpsert = "upsert"
	TaskOpDelete = "delete"
)

// SyncTask is an outbox entry: a deal mutation waiting to be pushed to the
// spreadsheet by the watcher.
type SyncTask struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	DealID      string         `gorm:"column:deal_id;index" json:"dealId"`
	Op          string         `gorm:"column:op" json:"op"`
	Status      SyncTaskStatus `gorm:"column:status;index" json:"status"`
	Attempts    int            `gorm:"column:attempts" json:"attempts"`
	LastError   *string        `gorm:"column:last_error" json:"lastError,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updatedAt"`
	ProcessedAt *time.Time     `gorm:"column:processed_at" json:"processedAt,omitempty"`
}

// TableName specifies the table name for GORM
func (SyncTask) TableName() string {
	return "sync_task"
}
