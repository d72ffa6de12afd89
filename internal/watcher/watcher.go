package watcher

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/polydesk/polydesk/internal/config"
	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
)

// taskBatchSize caps how many tasks one drain pass picks up per bucket.
const taskBatchSize = 10

// stuckCutoff is how long a task may sit in processing before it is
// considered orphaned by a crash and picked up again.
const stuckCutoff = 5 * time.Minute

// retryBaseDelay seeds the exponential backoff between retries of a failed
// task.
const retryBaseDelay = 30 * time.Second

// SyncEngine is the reconciliation surface the watcher drives.
type SyncEngine interface {
	SyncDealToSheets(ctx context.Context, id string) models.SyncResult
	DeleteDealFromSheets(ctx context.Context, id string) models.SyncResult
	CompareTables(ctx context.Context) (*models.SyncComparison, error)
	Config() models.SyncConfig
}

// TaskQueue is the outbox the watcher drains.
type TaskQueue interface {
	Create(ctx context.Context, task *models.SyncTask) error
	GetPendingTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	GetFailedTasks(ctx context.Context, maxAttempts, limit int) ([]models.SyncTask, error)
	GetStuckTasks(ctx context.Context, cutoff time.Time, limit int) ([]models.SyncTask, error)
	UpdateStatus(ctx context.Context, taskID string, status models.SyncTaskStatus, lastError *string) error
	IncrementAttempts(ctx context.Context, taskID string) error
}

// Watcher turns deal mutation events into outbox tasks and drains the outbox
// against the sheet on a poll loop. Remote pushes never happen inside the
// mutating caller's event callback.
type Watcher struct {
	cfg    *config.Config
	tasks  TaskQueue
	engine SyncEngine
	bus    *events.Bus
}

func New(cfg *config.Config, tasks TaskQueue, engine SyncEngine, bus *events.Bus) *Watcher {
	return &Watcher{
		cfg:    cfg,
		tasks:  tasks,
		engine: engine,
		bus:    bus,
	}
}

// RegisterSubscriptions hooks the watcher into the deal lifecycle events.
// Mutations enqueue tasks only while auto-sync is enabled.
func (w *Watcher) RegisterSubscriptions() {
	w.bus.Subscribe(events.DealCreated, func(e events.Event) {
		w.enqueue(e, models.TaskOpUpsert)
	})
	w.bus.Subscribe(events.DealUpdated, func(e events.Event) {
		w.enqueue(e, models.TaskOpUpsert)
	})
	w.bus.Subscribe(events.DealDeleted, func(e events.Event) {
		w.enqueue(e, models.TaskOpDelete)
	})
}

func (w *Watcher) enqueue(e events.Event, op string) {
	if !w.engine.Config().AutoSyncEnabled {
		return
	}

	dealID, ok := e.Payload.(string)
	if !ok || dealID == "" {
		log.Printf("Warning: ignoring %s event with unexpected payload %v", e.Type, e.Payload)
		return
	}

	task := &models.SyncTask{
		ID:     uuid.New().String(),
		DealID: dealID,
		Op:     op,
		Status: models.TaskStatusPending,
	}
	if err := w.tasks.Create(context.Background(), task); err != nil {
		log.Printf("Failed to enqueue sync task for deal %s: %v", dealID, err)
		return
	}
	log.Printf("Enqueued %s sync task for deal %s", op, dealID)
}

// Start begins draining the outbox until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	log.Println("Starting sync watcher...")

	// Pick up tasks left over from previous runs
	if err := w.drain(ctx); err != nil {
		log.Printf("Warning: failed to drain outbox on startup: %v", err)
	}

	ticker := time.NewTicker(time.Duration(w.cfg.PollInterval) * time.Second)
	defer ticker.Stop()

	driftTicker := time.NewTicker(time.Duration(w.cfg.SyncInterval) * time.Minute)
	defer driftTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync watcher shutting down...")
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				log.Printf("Error draining outbox: %v", err)
			}
		case <-driftTicker.C:
			w.reportDrift(ctx)
		}
	}
}

// drain processes pending tasks, retryable failed tasks, and tasks stuck in
// processing from a crash.
func (w *Watcher) drain(ctx context.Context) error {
	pending, err := w.tasks.GetPendingTasks(ctx, taskBatchSize)
	if err != nil {
		return err
	}

	retryAttempts := w.engine.Config().RetryAttempts
	failed, err := w.tasks.GetFailedTasks(ctx, retryAttempts, taskBatchSize)
	if err != nil {
		return err
	}

	stuck, err := w.tasks.GetStuckTasks(ctx, time.Now().Add(-stuckCutoff), taskBatchSize)
	if err != nil {
		return err
	}

	tasks := append(pending, stuck...)
	now := time.Now()
	for _, task := range failed {
		if readyForRetry(task, now) {
			tasks = append(tasks, task)
		}
	}

	if len(tasks) == 0 {
		return nil
	}

	log.Printf("Found %d sync task(s) to process", len(tasks))

	for _, task := range tasks {
		if err := w.process(ctx, task); err != nil {
			log.Printf("Failed to process sync task %s: %v", task.ID, err)
		}
	}
	return nil
}

func (w *Watcher) process(ctx context.Context, task models.SyncTask) error {
	if err := w.tasks.UpdateStatus(ctx, task.ID, models.TaskStatusProcessing, nil); err != nil {
		return err
	}

	var result models.SyncResult
	switch task.Op {
	case models.TaskOpDelete:
		result = w.engine.DeleteDealFromSheets(ctx, task.DealID)
	default:
		result = w.engine.SyncDealToSheets(ctx, task.DealID)
	}

	if result.Success {
		return w.tasks.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted, nil)
	}

	if err := w.tasks.IncrementAttempts(ctx, task.ID); err != nil {
		log.Printf("Failed to increment attempts for task %s: %v", task.ID, err)
	}

	lastError := result.Message
	if len(result.Errors) > 0 {
		lastError = result.Errors[0]
	}
	log.Printf("Sync task %s failed (attempt %d): %s", task.ID, task.Attempts+1, lastError)
	return w.tasks.UpdateStatus(ctx, task.ID, models.TaskStatusFailed, &lastError)
}

// readyForRetry applies exponential backoff: attempt n waits retryBaseDelay
// doubled n-1 times since the last status change.
func readyForRetry(task models.SyncTask, now time.Time) bool {
	if task.Attempts <= 0 {
		return true
	}
	delay := retryBaseDelay << (task.Attempts - 1)
	return now.Sub(task.UpdatedAt) >= delay
}

// reportDrift runs a read-only comparison and logs how far the two sides
// have diverged.
func (w *Watcher) reportDrift(ctx context.Context) {
	if !w.engine.Config().AutoSyncEnabled {
		return
	}

	comparison, err := w.engine.CompareTables(ctx)
	if err != nil {
		log.Printf("Drift check failed: %v", err)
		return
	}

	if len(comparison.MissingInSheets) == 0 && len(comparison.MissingInDatabase) == 0 && len(comparison.Conflicts) == 0 {
		log.Printf("Drift check: in sync (%d deals)", comparison.DatabaseCount)
		return
	}
	log.Printf("Drift check: %d missing in sheets, %d missing in database, %d field conflicts",
		len(comparison.MissingInSheets), len(comparison.MissingInDatabase), len(comparison.Conflicts))
}
