package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
)

type mockDealStore struct {
	getByIDFunc func(ctx context.Context, id string) (*models.Deal, error)
	listFunc    func(ctx context.Context) ([]models.Deal, error)
	createFunc  func(ctx context.Context, deal *models.Deal) error
	updateFunc  func(ctx context.Context, deal *models.Deal) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockDealStore) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrDealNotFound
}

func (m *mockDealStore) List(ctx context.Context) ([]models.Deal, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockDealStore) Create(ctx context.Context, deal *models.Deal) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, deal)
	}
	return nil
}

func (m *mockDealStore) Update(ctx context.Context, deal *models.Deal) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, deal)
	}
	return nil
}

func (m *mockDealStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// fakeSheet is an in-memory stand-in for the spreadsheet, so reconciliation
// behavior can be checked end to end.
type fakeSheet struct {
	rows    []models.SheetDeal
	listErr error
}

func (f *fakeSheet) List(ctx context.Context) ([]models.SheetDeal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.SheetDeal, len(f.rows))
	for i, r := range f.rows {
		r.RowNumber = i + 2 // data starts below the header row
		out[i] = r
	}
	return out, nil
}

func (f *fakeSheet) Append(ctx context.Context, deal models.SheetDeal) error {
	return f.AppendRows(ctx, []models.SheetDeal{deal})
}

func (f *fakeSheet) AppendRows(ctx context.Context, deals []models.SheetDeal) error {
	f.rows = append(f.rows, deals...)
	return nil
}

func (f *fakeSheet) UpdateRow(ctx context.Context, deal models.SheetDeal, rowNumber int) error {
	idx := rowNumber - 2
	if idx < 0 || idx >= len(f.rows) {
		return fmt.Errorf("row %d out of range", rowNumber)
	}
	f.rows[idx] = deal
	return nil
}

func (f *fakeSheet) Delete(ctx context.Context, dealID string) error {
	for i, r := range f.rows {
		if r.DealID == dealID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("deal %s not found in sheet", dealID)
}

func (f *fakeSheet) DeleteRows(ctx context.Context, rowNumbers []int) error {
	for _, rowNumber := range sortedDesc(rowNumbers) {
		idx := rowNumber - 2
		if idx < 0 || idx >= len(f.rows) {
			return fmt.Errorf("row %d out of range", rowNumber)
		}
		f.rows = append(f.rows[:idx], f.rows[idx+1:]...)
	}
	return nil
}

func (f *fakeSheet) Replace(ctx context.Context, deals []models.SheetDeal) error {
	f.rows = append([]models.SheetDeal{}, deals...)
	return nil
}

func sortedDesc(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] > out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Emit(eventType string, payload interface{}, source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events.Event{Type: eventType, Payload: payload, Source: source})
}

func (b *recordingBus) byType(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func defaultConfig() *ConfigProvider {
	return NewConfigProvider(models.SyncConfig{
		AutoSyncEnabled:     true,
		SyncIntervalMinutes: 30,
		ConflictResolution:  models.ConflictDatabaseWins,
		BatchSize:           50,
		RetryAttempts:       3,
	})
}

func testDeal(id string) models.Deal {
	return models.Deal{
		ID:                id,
		Date:              "15-03-2026",
		SaleParty:         "Acme",
		QuantitySold:      decimal.NewFromInt(100),
		SaleRate:          decimal.NewFromInt(50),
		DeliveryTerms:     models.DeliveryTermsDelivered,
		ProductCode:       "PP-H030",
		Grade:             "HP",
		Company:           "Reliance",
		Source:            models.SourceNew,
		PurchaseParty:     "Bulk Traders",
		QuantityPurchased: decimal.NewFromInt(100),
		PurchaseRate:      decimal.NewFromInt(47),
	}
}

func TestSyncDealToSheets_AppendsNewDeal(t *testing.T) {
	deal := testDeal("d1")
	store := &mockDealStore{
		getByIDFunc: func(ctx context.Context, id string) (*models.Deal, error) {
			return &deal, nil
		},
	}
	sheet := &fakeSheet{}
	bus := &recordingBus{}

	svc := NewSyncService(store, sheet, bus, defaultConfig())
	result := svc.SyncDealToSheets(context.Background(), "d1")

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.Synced != 1 {
		t.Errorf("expected synced 1, got %d", result.Synced)
	}

	rows, _ := sheet.List(context.Background())
	if len(rows) != 1 {
		t.Fatalf("expected 1 sheet row, got %d", len(rows))
	}
	if rows[0].SaleParty != "Acme" {
		t.Errorf("expected saleParty 'Acme', got %s", rows[0].SaleParty)
	}
	if !rows[0].QuantitySold.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected quantitySold 100, got %s", rows[0].QuantitySold)
	}
	if !rows[0].SaleRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected saleRate 50, got %s", rows[0].SaleRate)
	}

	if len(bus.byType(events.SyncCompleted)) != 1 {
		t.Error("expected a sync.completed event")
	}
}

func TestSyncDealToSheets_SecondCallUpdatesInPlace(t *testing.T) {
	deal := testDeal("d1")
	store := &mockDealStore{
		getByIDFunc: func(ctx context.Context, id string) (*models.Deal, error) {
			return &deal, nil
		},
	}
	sheet := &fakeSheet{}
	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())

	first := svc.SyncDealToSheets(context.Background(), "d1")
	second := svc.SyncDealToSheets(context.Background(), "d1")

	if !first.Success || !second.Success {
		t.Fatal("expected both calls to succeed")
	}

	rows, _ := sheet.List(context.Background())
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row after repeated sync, got %d", len(rows))
	}
}

func TestSyncDealToSheets_DealNotFound(t *testing.T) {
	store := &mockDealStore{}
	bus := &recordingBus{}
	svc := NewSyncService(store, &fakeSheet{}, bus, defaultConfig())

	result := svc.SyncDealToSheets(context.Background(), "missing")

	if result.Success {
		t.Fatal("expected failure for missing deal")
	}
	if len(result.Errors) == 0 {
		t.Error("expected errors to be populated")
	}
	if len(bus.byType(events.SyncFailed)) != 1 {
		t.Error("expected a sync.failed event")
	}
}

func TestSyncDealToSheets_SheetReadError(t *testing.T) {
	deal := testDeal("d1")
	store := &mockDealStore{
		getByIDFunc: func(ctx context.Context, id string) (*models.Deal, error) {
			return &deal, nil
		},
	}
	sheet := &fakeSheet{listErr: errors.New("quota exceeded")}
	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())

	result := svc.SyncDealToSheets(context.Background(), "d1")

	if result.Success {
		t.Fatal("expected failure when sheet read fails")
	}
	if result.Errors[0] != "quota exceeded" {
		t.Errorf("expected underlying error surfaced, got %v", result.Errors)
	}
}

func TestSyncAllDealsToSheets_DiffAddsUpdatesAndRemoves(t *testing.T) {
	unchanged := testDeal("d1")
	changed := testDeal("d2")
	added := testDeal("d3")

	changedRemote := models.FromDeal(changed)
	changedRemote.SaleParty = "Old Name"

	sheet := &fakeSheet{rows: []models.SheetDeal{
		models.FromDeal(unchanged),
		changedRemote,
		{DealID: "stale", Date: "01-01-2026", SaleParty: "Gone Co"},
	}}

	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{unchanged, changed, added}, nil
		},
	}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())
	result := svc.SyncAllDealsToSheets(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.Synced != 2 { // one update + one addition
		t.Errorf("expected synced 2, got %d", result.Synced)
	}

	rows, _ := sheet.List(context.Background())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows after diff push, got %d", len(rows))
	}

	byID := make(map[string]models.SheetDeal)
	for _, r := range rows {
		byID[r.DealID] = r
	}
	if _, exists := byID["stale"]; exists {
		t.Error("expected stale remote-only row to be removed")
	}
	if byID["d2"].SaleParty != "Acme" {
		t.Errorf("expected d2 updated in place, got saleParty %s", byID["d2"].SaleParty)
	}
	if _, exists := byID["d3"]; !exists {
		t.Error("expected d3 to be appended")
	}
}

func TestSyncAllDealsToSheets_ThenCompareShowsNoDrift(t *testing.T) {
	deals := []models.Deal{testDeal("d1"), testDeal("d2"), testDeal("d3")}
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return deals, nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{
		{DealID: "orphan", Date: "01-01-2026", SaleParty: "X"},
	}}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())

	if result := svc.SyncAllDealsToSheets(context.Background()); !result.Success {
		t.Fatalf("push failed: %v", result.Errors)
	}

	comparison, err := svc.CompareTables(context.Background())
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if len(comparison.MissingInSheets) != 0 {
		t.Errorf("expected missingInSheets empty, got %v", comparison.MissingInSheets)
	}
	if comparison.SheetsCount != comparison.DatabaseCount {
		t.Errorf("expected counts equal, got sheets %d database %d",
			comparison.SheetsCount, comparison.DatabaseCount)
	}
	if len(comparison.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", comparison.Conflicts)
	}
}

func TestReplaceAllDealsInSheets_OverwritesEverything(t *testing.T) {
	deal := testDeal("d1")
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{deal}, nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{
		{DealID: "r1", SaleParty: "A"},
		{DealID: "r2", SaleParty: "B"},
	}}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())
	result := svc.ReplaceAllDealsInSheets(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.Synced != 1 {
		t.Errorf("expected synced 1, got %d", result.Synced)
	}

	rows, _ := sheet.List(context.Background())
	if len(rows) != 1 || rows[0].DealID != "d1" {
		t.Errorf("expected sheet to hold only d1, got %v", rows)
	}
}

func TestSyncSheetsToDatabase_CreatesMissingDeal(t *testing.T) {
	var created []models.Deal
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, deal *models.Deal) error {
			created = append(created, *deal)
			return nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{models.FromDeal(testDeal("d1"))}}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())
	result := svc.SyncSheetsToDatabase(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.Synced != 1 {
		t.Errorf("expected synced 1, got %d", result.Synced)
	}
	if len(created) != 1 || created[0].ID != "d1" {
		t.Fatalf("expected deal d1 created locally, got %v", created)
	}
	if created[0].SaleParty != "Acme" {
		t.Errorf("expected created deal to carry sheet fields, got %s", created[0].SaleParty)
	}
}

func TestSyncSheetsToDatabase_ManualPolicyEmitsConflict(t *testing.T) {
	local := testDeal("d1")
	remote := models.FromDeal(local)
	remote.SaleRate = decimal.NewFromInt(99)

	updated := false
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{local}, nil
		},
		updateFunc: func(ctx context.Context, deal *models.Deal) error {
			updated = true
			return nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{remote}}
	bus := &recordingBus{}

	cfg := defaultConfig()
	base := cfg.Get()
	base.ConflictResolution = models.ConflictManual
	if err := cfg.Update(base); err != nil {
		t.Fatalf("config update failed: %v", err)
	}

	svc := NewSyncService(store, sheet, bus, cfg)
	result := svc.SyncSheetsToDatabase(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if updated {
		t.Error("expected local record left unchanged under manual policy")
	}

	conflictEvents := bus.byType(events.SyncConflictDetected)
	if len(conflictEvents) != 1 {
		t.Fatalf("expected 1 conflict event, got %d", len(conflictEvents))
	}
	conflict, ok := conflictEvents[0].Payload.(models.SyncConflict)
	if !ok {
		t.Fatalf("expected SyncConflict payload, got %T", conflictEvents[0].Payload)
	}
	if conflict.Field != "saleRate" {
		t.Errorf("expected conflict on saleRate, got %s", conflict.Field)
	}
	if conflict.DatabaseValue != "50" || conflict.SheetsValue != "99" {
		t.Errorf("expected both values carried, got db=%s sheets=%s",
			conflict.DatabaseValue, conflict.SheetsValue)
	}
}

func TestSyncSheetsToDatabase_SheetsWinsOverwritesLocal(t *testing.T) {
	local := testDeal("d1")
	remote := models.FromDeal(local)
	remote.SaleRate = decimal.NewFromInt(99)

	var saved *models.Deal
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{local}, nil
		},
		updateFunc: func(ctx context.Context, deal *models.Deal) error {
			saved = deal
			return nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{remote}}

	cfg := defaultConfig()
	base := cfg.Get()
	base.ConflictResolution = models.ConflictSheetsWins
	if err := cfg.Update(base); err != nil {
		t.Fatalf("config update failed: %v", err)
	}

	svc := NewSyncService(store, sheet, &recordingBus{}, cfg)
	result := svc.SyncSheetsToDatabase(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.ConflictsResolved != 1 {
		t.Errorf("expected 1 conflict resolved, got %d", result.ConflictsResolved)
	}
	if saved == nil {
		t.Fatal("expected local record to be overwritten")
	}
	if !saved.SaleRate.Equal(decimal.NewFromInt(99)) {
		t.Errorf("expected sheet rate 99 written locally, got %s", saved.SaleRate)
	}
}

func TestSyncSheetsToDatabase_RowFailureDoesNotAbortOthers(t *testing.T) {
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, deal *models.Deal) error {
			if deal.ID == "bad" {
				return errors.New("constraint violation")
			}
			return nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{
		models.FromDeal(testDeal("bad")),
		models.FromDeal(testDeal("good")),
	}}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())
	result := svc.SyncSheetsToDatabase(context.Background())

	if result.Success {
		t.Fatal("expected overall failure with per-row error")
	}
	if result.Synced != 1 {
		t.Errorf("expected the good row still created, got synced %d", result.Synced)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 row error, got %v", result.Errors)
	}
}

func TestCompareTables_BothEmpty(t *testing.T) {
	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return nil, nil
		},
	}
	svc := NewSyncService(store, &fakeSheet{}, &recordingBus{}, defaultConfig())

	comparison, err := svc.CompareTables(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if comparison.DatabaseCount != 0 || comparison.SheetsCount != 0 {
		t.Errorf("expected zero counts, got db=%d sheets=%d",
			comparison.DatabaseCount, comparison.SheetsCount)
	}
	if len(comparison.MissingInSheets) != 0 || len(comparison.MissingInDatabase) != 0 || len(comparison.Conflicts) != 0 {
		t.Error("expected all discrepancy collections empty")
	}
}

func TestCompareTables_ReportsAllThreeSets(t *testing.T) {
	localOnly := testDeal("local-only")
	shared := testDeal("shared")

	sharedRemote := models.FromDeal(shared)
	sharedRemote.SaleRate = decimal.NewFromFloat(51.5)

	store := &mockDealStore{
		listFunc: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{localOnly, shared}, nil
		},
	}
	sheet := &fakeSheet{rows: []models.SheetDeal{
		sharedRemote,
		{DealID: "remote-only", Date: "01-01-2026", SaleParty: "Z"},
	}}

	svc := NewSyncService(store, sheet, &recordingBus{}, defaultConfig())
	comparison, err := svc.CompareTables(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(comparison.MissingInSheets) != 1 || comparison.MissingInSheets[0] != "local-only" {
		t.Errorf("expected missingInSheets [local-only], got %v", comparison.MissingInSheets)
	}
	if len(comparison.MissingInDatabase) != 1 || comparison.MissingInDatabase[0] != "remote-only" {
		t.Errorf("expected missingInDatabase [remote-only], got %v", comparison.MissingInDatabase)
	}
	if len(comparison.Conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d", len(comparison.Conflicts))
	}
	if comparison.Conflicts[0].Field != "saleRate" {
		t.Errorf("expected conflict on saleRate, got %s", comparison.Conflicts[0].Field)
	}
}
