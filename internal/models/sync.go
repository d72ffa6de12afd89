package models

import "time"

// Conflict resolution policy constants
const (
	ConflictDatabaseWins = "database_wins"
	ConflictSheetsWins   = "sheets_wins"
	ConflictManual       = "manual"
)

// SyncConfig controls the reconciliation engine's behavior. Held behind
// service.ConfigProvider, never mutated in place by callers.
type SyncConfig struct {
	AutoSyncEnabled     bool   `json:"autoSyncEnabled"`
	SyncIntervalMinutes int    `json:"syncIntervalMinutes"`
	ConflictResolution  string `json:"conflictResolution"`
	BatchSize           int    `json:"batchSize"`
	RetryAttempts       int    `json:"retryAttempts"`
}

// SyncResult is the outcome of a sync operation. Errors are reported here
// rather than returned, so callers must inspect Success.
type SyncResult struct {
	Success           bool     `json:"success"`
	Synced            int      `json:"synced"`
	ConflictsResolved int      `json:"conflictsResolved"`
	Errors            []string `json:"errors"`
	Message           string   `json:"message"`
}

// SyncConflict records one field-level mismatch between a local deal and its
// sheet counterpart. The sheet carries no modification timestamp, so
// SheetsUpdatedAt is always nil.
type SyncConflict struct {
	DealID            string     `json:"dealId"`
	Field             string     `json:"field"`
	DatabaseValue     string     `json:"databaseValue"`
	SheetsValue       string     `json:"sheetsValue"`
	DatabaseUpdatedAt time.Time  `json:"databaseUpdatedAt"`
	SheetsUpdatedAt   *time.Time `json:"sheetsUpdatedAt"`
}

// SyncComparison is a read-only snapshot of how the two sides diverge.
type SyncComparison struct {
	DatabaseCount     int            `json:"databaseCount"`
	SheetsCount       int            `json:"sheetsCount"`
	MissingInSheets   []string       `json:"missingInSheets"`
	MissingInDatabase []string       `json:"missingInDatabase"`
	Conflicts         []SyncConflict `json:"conflicts"`
}
