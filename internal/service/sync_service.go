package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
)

// SheetsGateway is the remote spreadsheet surface the engine depends on.
type SheetsGateway interface {
	List(ctx context.Context) ([]models.SheetDeal, error)
	Append(ctx context.Context, deal models.SheetDeal) error
	AppendRows(ctx context.Context, deals []models.SheetDeal) error
	UpdateRow(ctx context.Context, deal models.SheetDeal, rowNumber int) error
	Delete(ctx context.Context, dealID string) error
	DeleteRows(ctx context.Context, rowNumbers []int) error
	Replace(ctx context.Context, deals []models.SheetDeal) error
}

// DealStore is the local-store surface the engine depends on.
type DealStore interface {
	GetByID(ctx context.Context, id string) (*models.Deal, error)
	List(ctx context.Context) ([]models.Deal, error)
	Create(ctx context.Context, deal *models.Deal) error
	Update(ctx context.Context, deal *models.Deal) error
	Delete(ctx context.Context, id string) error
}

// EventEmitter publishes lifecycle notifications.
type EventEmitter interface {
	Emit(eventType string, payload interface{}, source string)
}

const syncEventSource = "syncService"

// SyncService reconciles the local deal store with the Google Sheets copy.
// Operations never return an error; outcomes are reported in the SyncResult
// and mirrored as bus events.
type SyncService struct {
	deals  DealStore
	sheets SheetsGateway
	bus    EventEmitter
	config *ConfigProvider
}

func NewSyncService(deals DealStore, sheets SheetsGateway, bus EventEmitter, config *ConfigProvider) *SyncService {
	return &SyncService{
		deals:  deals,
		sheets: sheets,
		bus:    bus,
		config: config,
	}
}

// Config returns the current sync configuration.
func (s *SyncService) Config() models.SyncConfig {
	return s.config.Get()
}

// UpdateConfig validates and stores a new sync configuration.
func (s *SyncService) UpdateConfig(cfg models.SyncConfig) error {
	return s.config.Update(cfg)
}

// SyncDealToSheets pushes one deal to the sheet. The target row is resolved
// by deal ID against a fresh read, then updated in place; absent deals are
// appended.
func (s *SyncService) SyncDealToSheets(ctx context.Context, id string) models.SyncResult {
	s.bus.Emit(events.SyncStarted, id, syncEventSource)

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return s.fail(fmt.Sprintf("deal %s not found", id), err)
		}
		return s.fail(fmt.Sprintf("failed to load deal %s", id), err)
	}

	remote, err := s.sheets.List(ctx)
	if err != nil {
		return s.fail("failed to read sheet", err)
	}

	projected := models.FromDeal(*deal)
	rowNumber := 0
	for _, r := range remote {
		if r.DealID == id {
			rowNumber = r.RowNumber
			break
		}
	}

	if rowNumber > 0 {
		err = s.sheets.UpdateRow(ctx, projected, rowNumber)
	} else {
		err = s.sheets.Append(ctx, projected)
	}
	if err != nil {
		return s.fail(fmt.Sprintf("failed to write deal %s to sheet", id), err)
	}

	result := models.SyncResult{
		Success: true,
		Synced:  1,
		Message: fmt.Sprintf("Deal %s synced to sheet", id),
	}
	s.bus.Emit(events.SyncCompleted, result, syncEventSource)
	return result
}

// SyncAllDealsToSheets reconciles the whole sheet against the local store by
// diff: rows are updated in place, missing deals are appended, and rows with
// no local counterpart are deleted. Remote-only rows are removed rather than
// silently clobbered by a clear-and-rewrite.
func (s *SyncService) SyncAllDealsToSheets(ctx context.Context) models.SyncResult {
	s.bus.Emit(events.SyncStarted, "push_all", syncEventSource)

	local, err := s.deals.List(ctx)
	if err != nil {
		return s.fail("failed to list deals", err)
	}

	remote, err := s.sheets.List(ctx)
	if err != nil {
		return s.fail("failed to read sheet", err)
	}

	remoteByID := make(map[string]models.SheetDeal, len(remote))
	for _, r := range remote {
		remoteByID[r.DealID] = r
	}
	localIDs := make(map[string]bool, len(local))

	var additions []models.SheetDeal
	updates := 0
	var result models.SyncResult

	for _, deal := range local {
		localIDs[deal.ID] = true
		counterpart, exists := remoteByID[deal.ID]
		if !exists {
			additions = append(additions, models.FromDeal(deal))
			continue
		}
		if len(detectConflicts(deal, counterpart)) == 0 {
			continue
		}
		if err := s.sheets.UpdateRow(ctx, models.FromDeal(deal), counterpart.RowNumber); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("update %s: %v", deal.ID, err))
			continue
		}
		updates++
	}

	if err := s.sheets.AppendRows(ctx, additions); err != nil {
		return s.fail("failed to append new rows", err)
	}

	var staleRows []int
	for _, r := range remote {
		if !localIDs[r.DealID] {
			staleRows = append(staleRows, r.RowNumber)
		}
	}
	if err := s.sheets.DeleteRows(ctx, staleRows); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("delete stale rows: %v", err))
	}

	result.Synced = len(additions) + updates
	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("Pushed %d deals to sheet (%d added, %d updated, %d removed)",
		len(local), len(additions), updates, len(staleRows))

	if result.Success {
		s.bus.Emit(events.SyncCompleted, result, syncEventSource)
	} else {
		s.bus.Emit(events.SyncFailed, result, syncEventSource)
	}
	return result
}

// ReplaceAllDealsInSheets wipes the sheet and rewrites it from the local
// store. Destructive: remote-only rows are lost, and a failure between clear
// and append leaves the sheet empty. Exposed as its own explicitly named
// operation so the non-destructive push stays the default.
func (s *SyncService) ReplaceAllDealsInSheets(ctx context.Context) models.SyncResult {
	s.bus.Emit(events.SyncStarted, "replace_all", syncEventSource)

	local, err := s.deals.List(ctx)
	if err != nil {
		return s.fail("failed to list deals", err)
	}

	projected := make([]models.SheetDeal, 0, len(local))
	for _, deal := range local {
		projected = append(projected, models.FromDeal(deal))
	}

	if err := s.sheets.Replace(ctx, projected); err != nil {
		return s.fail("failed to replace sheet contents", err)
	}

	result := models.SyncResult{
		Success: true,
		Synced:  len(local),
		Message: fmt.Sprintf("Replaced sheet contents with %d deals", len(local)),
	}
	s.bus.Emit(events.SyncCompleted, result, syncEventSource)
	return result
}

// SyncSheetsToDatabase pulls sheet rows into the local store. Rows without a
// local counterpart become new deals; conflicting rows are handled per the
// configured policy. Each row's failure is isolated so one bad row does not
// abort the rest.
func (s *SyncService) SyncSheetsToDatabase(ctx context.Context) models.SyncResult {
	s.bus.Emit(events.SyncStarted, "pull_all", syncEventSource)

	remote, err := s.sheets.List(ctx)
	if err != nil {
		return s.fail("failed to read sheet", err)
	}

	local, err := s.deals.List(ctx)
	if err != nil {
		return s.fail("failed to list deals", err)
	}

	localByID := make(map[string]models.Deal, len(local))
	for _, d := range local {
		localByID[d.ID] = d
	}

	policy := s.config.Get().ConflictResolution
	var result models.SyncResult

	for _, row := range remote {
		counterpart, exists := localByID[row.DealID]
		if !exists {
			deal := row.ToDeal()
			if err := s.deals.Create(ctx, &deal); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("create %s: %v", row.DealID, err))
				continue
			}
			result.Synced++
			continue
		}

		conflicts := detectConflicts(counterpart, row)
		if len(conflicts) == 0 {
			continue
		}

		switch policy {
		case models.ConflictSheetsWins:
			updated := row.ToDeal()
			updated.CreatedAt = counterpart.CreatedAt
			if err := s.deals.Update(ctx, &updated); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("update %s: %v", row.DealID, err))
				continue
			}
			result.ConflictsResolved += len(conflicts)
		case models.ConflictManual:
			for _, c := range conflicts {
				s.bus.Emit(events.SyncConflictDetected, c, syncEventSource)
			}
		default:
			// database_wins: local record stands
		}
	}

	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("Pulled sheet: %d deals created, %d conflicts resolved, %d errors",
		result.Synced, result.ConflictsResolved, len(result.Errors))

	if result.Success {
		s.bus.Emit(events.SyncCompleted, result, syncEventSource)
	} else {
		s.bus.Emit(events.SyncFailed, result, syncEventSource)
	}
	return result
}

// DeleteDealFromSheets removes one deal's row from the sheet.
func (s *SyncService) DeleteDealFromSheets(ctx context.Context, id string) models.SyncResult {
	s.bus.Emit(events.SyncStarted, id, syncEventSource)

	if err := s.sheets.Delete(ctx, id); err != nil {
		return s.fail(fmt.Sprintf("failed to delete deal %s from sheet", id), err)
	}

	result := models.SyncResult{
		Success: true,
		Synced:  1,
		Message: fmt.Sprintf("Deal %s removed from sheet", id),
	}
	s.bus.Emit(events.SyncCompleted, result, syncEventSource)
	return result
}

// CompareTables computes a read-only comparison of both sides: counts, IDs
// missing from either side, and field-level conflicts for shared IDs. The two
// reads run concurrently.
func (s *SyncService) CompareTables(ctx context.Context) (*models.SyncComparison, error) {
	type localRes struct {
		deals []models.Deal
		err   error
	}
	type remoteRes struct {
		deals []models.SheetDeal
		err   error
	}

	localCh := make(chan localRes, 1)
	remoteCh := make(chan remoteRes, 1)

	go func() {
		deals, err := s.deals.List(ctx)
		localCh <- localRes{deals: deals, err: err}
	}()
	go func() {
		deals, err := s.sheets.List(ctx)
		remoteCh <- remoteRes{deals: deals, err: err}
	}()

	lr := <-localCh
	rr := <-remoteCh
	if lr.err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", lr.err)
	}
	if rr.err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", rr.err)
	}

	remoteByID := make(map[string]models.SheetDeal, len(rr.deals))
	for _, r := range rr.deals {
		remoteByID[r.DealID] = r
	}

	comparison := &models.SyncComparison{
		DatabaseCount:     len(lr.deals),
		SheetsCount:       len(rr.deals),
		MissingInSheets:   []string{},
		MissingInDatabase: []string{},
		Conflicts:         []models.SyncConflict{},
	}

	localIDs := make(map[string]bool, len(lr.deals))
	for _, deal := range lr.deals {
		localIDs[deal.ID] = true
		counterpart, exists := remoteByID[deal.ID]
		if !exists {
			comparison.MissingInSheets = append(comparison.MissingInSheets, deal.ID)
			continue
		}
		comparison.Conflicts = append(comparison.Conflicts, detectConflicts(deal, counterpart)...)
	}

	for _, r := range rr.deals {
		if !localIDs[r.DealID] {
			comparison.MissingInDatabase = append(comparison.MissingInDatabase, r.DealID)
		}
	}

	return comparison, nil
}

func (s *SyncService) fail(message string, err error) models.SyncResult {
	log.Printf("Sync failed: %s: %v", message, err)
	result := models.SyncResult{
		Success: false,
		Errors:  []string{err.Error()},
		Message: message,
	}
	s.bus.Emit(events.SyncFailed, result, syncEventSource)
	return result
}
