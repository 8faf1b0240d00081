package monday

import (
	"context"
	"errors"
	"testing"

	"mortgage-office-api/config"
	"mortgage-office-api/internal/auth"
	"mortgage-office-api/internal/pipeline"

	"gorm.io/gorm"
)

// fakeFetcher serves canned items per board and records the boards it was
// asked for.
type fakeFetcher struct {
	items   map[string][]Item
	columns map[string][]Column
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) FetchAllItems(ctx context.Context, token, boardID string) ([]Item, error) {
	f.fetched = append(f.fetched, boardID)
	if err := f.errs[boardID]; err != nil {
		return nil, err
	}
	return f.items[boardID], nil
}

func (f *fakeFetcher) FetchBoardColumns(ctx context.Context, token, boardID string) ([]Column, error) {
	return f.columns[boardID], nil
}

type fakeCredStore struct {
	token string
	err   error
}

func (f *fakeCredStore) GetCredential(userID int, service string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func newSyncService(t *testing.T, db *gorm.DB, fetcher *fakeFetcher) *SyncService {
	t.Helper()
	cfg := &config.Config{MondayToken: "env-token"}
	return NewSyncService(db, cfg, fetcher, &fakeCredStore{err: auth.ErrCredentialNotFound}, nil, nil)
}

func seedBoard(t *testing.T, db *gorm.DB, boardID, section string, order int) {
	t.Helper()
	board := BoardConfig{BoardID: boardID, BoardName: "Board " + boardID, TargetSection: section, IsActive: true, DisplayOrder: order}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}
	mapping := ColumnMapping{BoardID: boardID, ColumnID: "c_amount", PipelineField: "loan_amount", IsVisible: true}
	if err := db.Create(&mapping).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}
}

func TestRunSync_TokenNotConfigured(t *testing.T) {
	db := newTestDB(t)
	s := NewSyncService(db, &config.Config{}, &fakeFetcher{}, &fakeCredStore{err: auth.ErrCredentialNotFound}, nil, nil)

	_, err := s.RunSync(context.Background(), 1)
	if !errors.Is(err, ErrTokenNotConfigured) {
		t.Fatalf("expected ErrTokenNotConfigured, got %v", err)
	}
}

func TestRunSync_SecondConcurrentRunRejected(t *testing.T) {
	db := newTestDB(t)
	s := newSyncService(t, db, &fakeFetcher{})

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	_, err := s.RunSync(context.Background(), 1)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
}

func TestRunSync_CreatesAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)

	fetcher := &fakeFetcher{items: map[string][]Item{
		"100": {
			{ID: "i1", Name: "Jane Doe", GroupTitle: "Processing", ColumnValues: []ColumnValue{{ID: "c_amount", Text: "$250,000"}}},
			{ID: "i2", Name: "John Roe", GroupTitle: "New Leads"},
		},
	}}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if summary.ItemsCreated != 2 || summary.ItemsUpdated != 0 {
		t.Fatalf("first run summary: %+v", summary)
	}

	summary, err = s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.ItemsCreated != 0 || summary.ItemsUpdated != 2 || summary.ItemsDeleted != 0 {
		t.Fatalf("second run summary: %+v", summary)
	}

	var count int64
	db.Model(&pipeline.PipelineLoan{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestRunSync_DeletesRowsGoneFromBoard(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)

	fetcher := &fakeFetcher{items: map[string][]Item{
		"100": {
			{ID: "i1", Name: "Jane Doe"},
			{ID: "i2", Name: "John Roe"},
		},
	}}
	s := newSyncService(t, db, fetcher)
	if _, err := s.RunSync(context.Background(), 1); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fetcher.items["100"] = []Item{{ID: "i1", Name: "Jane Doe"}}
	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.ItemsDeleted != 1 {
		t.Fatalf("ItemsDeleted=%d", summary.ItemsDeleted)
	}

	var count int64
	db.Model(&pipeline.PipelineLoan{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 surviving row, got %d", count)
	}
}

func TestRunSync_ReconciliationSparesManualRows(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)

	manual := pipeline.PipelineLoan{ClientName: "Walk-In Client", SourceSystem: "manual"}
	if err := db.Create(&manual).Error; err != nil {
		t.Fatalf("seed manual row: %v", err)
	}

	fetcher := &fakeFetcher{items: map[string][]Item{
		"100": {{ID: "i1", Name: "Jane Doe"}},
	}}
	s := newSyncService(t, db, fetcher)
	if _, err := s.RunSync(context.Background(), 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	var survivor pipeline.PipelineLoan
	if err := db.Where("client_name = ?", "Walk-In Client").First(&survivor).Error; err != nil {
		t.Fatalf("manual row was deleted: %v", err)
	}
}

func TestRunSync_FetchFailureNeverWipesSection(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)

	fetcher := &fakeFetcher{items: map[string][]Item{
		"100": {{ID: "i1", Name: "Jane Doe"}},
	}}
	s := newSyncService(t, db, fetcher)
	if _, err := s.RunSync(context.Background(), 1); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fetcher.errs = map[string]error{"100": errors.New("api down")}
	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("second run should not fail outright: %v", err)
	}
	if summary.ItemsDeleted != 0 {
		t.Fatalf("fetch failure must not trigger deletions, got %d", summary.ItemsDeleted)
	}

	var count int64
	db.Model(&pipeline.PipelineLoan{}).Count(&count)
	if count != 1 {
		t.Fatalf("section was wiped after a fetch failure")
	}

	var errLog SyncLog
	if err := db.Where("board_id = ? AND status = ?", "100", "error").First(&errLog).Error; err != nil {
		t.Fatalf("no error run log recorded: %v", err)
	}
	if errLog.ErrorMessage == nil || *errLog.ErrorMessage != "api down" {
		t.Fatalf("error message not recorded: %v", errLog.ErrorMessage)
	}
}

func TestRunSync_BoardFailureIsolated(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)
	seedBoard(t, db, "200", SectionFunded, 1)

	fundedMapping := ColumnMapping{BoardID: "200", ColumnID: "c_funded", PipelineField: "funded_date", IsVisible: true}
	if err := db.Create(&fundedMapping).Error; err != nil {
		t.Fatalf("seed funded mapping: %v", err)
	}

	fetcher := &fakeFetcher{
		errs: map[string]error{"100": errors.New("board gone")},
		items: map[string][]Item{
			"200": {{ID: "f1", Name: "Jane Doe", ColumnValues: []ColumnValue{
				{ID: "c_funded", Text: "2026-02-01", Value: `{"date":"2026-02-01"}`},
			}}},
		},
	}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.BoardsProcessed != 2 {
		t.Fatalf("BoardsProcessed=%d", summary.BoardsProcessed)
	}
	if summary.ItemsCreated != 1 {
		t.Fatalf("healthy board should still sync, created=%d", summary.ItemsCreated)
	}

	var count int64
	db.Model(&pipeline.FundedLoan{}).Count(&count)
	if count != 1 {
		t.Fatalf("funded_loans count=%d", count)
	}
}

func TestRunSync_SkipsBoardWithoutUsableMapping(t *testing.T) {
	db := newTestDB(t)
	board := BoardConfig{BoardID: "300", TargetSection: SectionPipeline, IsActive: true}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}

	// no stored mappings, and the board's column titles match nothing
	fetcher := &fakeFetcher{columns: map[string][]Column{
		"300": {{ID: "x1", Title: "Favorite Color", Type: "text"}},
	}}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ItemsFetched != 0 {
		t.Fatalf("board without mapping must not be fetched, got %d items", summary.ItemsFetched)
	}
	if len(fetcher.fetched) != 0 {
		t.Fatalf("FetchAllItems was called for an unmapped board: %v", fetcher.fetched)
	}
}

func TestRunSync_AutoMapFallback(t *testing.T) {
	db := newTestDB(t)
	board := BoardConfig{BoardID: "400", TargetSection: SectionPipeline, IsActive: true}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}

	fetcher := &fakeFetcher{
		columns: map[string][]Column{
			"400": {{ID: "a1", Title: "Loan Amount", Type: "numbers"}},
		},
		items: map[string][]Item{
			"400": {{ID: "i1", Name: "Jane Doe", ColumnValues: []ColumnValue{{ID: "a1", Text: "500000"}}}},
		},
	}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ItemsCreated != 1 {
		t.Fatalf("ItemsCreated=%d", summary.ItemsCreated)
	}

	var stored pipeline.PipelineLoan
	db.Where("monday_item_id = ?", "i1").First(&stored)
	if stored.LoanAmount == nil || *stored.LoanAmount != 500000 {
		t.Fatalf("auto-mapped amount not applied: %v", stored.LoanAmount)
	}
}

func TestRunSync_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "100", SectionPipeline, 0)

	fetcher := &fakeFetcher{items: map[string][]Item{
		"100": {{ID: "1", Name: "Jane Doe", ColumnValues: []ColumnValue{{ID: "c_amount", Text: "250000"}}}},
	}}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ItemsCreated != 1 {
		t.Fatalf("ItemsCreated=%d", summary.ItemsCreated)
	}

	var stored pipeline.PipelineLoan
	if err := db.Where("monday_item_id = ?", "1").First(&stored).Error; err != nil {
		t.Fatalf("row not created: %v", err)
	}
	if stored.ClientName != "Jane Doe" {
		t.Errorf("ClientName=%q", stored.ClientName)
	}
	if stored.LoanAmount == nil || *stored.LoanAmount != 250000 {
		t.Errorf("LoanAmount=%v", stored.LoanAmount)
	}
	if stored.Stage != "Unknown" {
		t.Errorf("Stage=%q", stored.Stage)
	}
	if stored.SourceSystem != SourceMonday {
		t.Errorf("SourceSystem=%q", stored.SourceSystem)
	}
}

func TestRunSync_InactiveBoardsIgnored(t *testing.T) {
	db := newTestDB(t)
	board := BoardConfig{BoardID: "500", TargetSection: SectionPipeline, IsActive: false}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}

	fetcher := &fakeFetcher{}
	s := newSyncService(t, db, fetcher)

	summary, err := s.RunSync(context.Background(), 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.BoardsProcessed != 0 {
		t.Fatalf("inactive board was processed")
	}
}

func TestRunSync_PrefersStoredCredentialOverEnv(t *testing.T) {
	db := newTestDB(t)
	s := NewSyncService(db, &config.Config{MondayToken: "env-token"}, &fakeFetcher{}, &fakeCredStore{token: "stored-token"}, nil, nil)

	token, err := s.resolveToken(7)
	if err != nil {
		t.Fatalf("resolveToken: %v", err)
	}
	if token != "stored-token" {
		t.Fatalf("token=%q, want stored credential", token)
	}
}

func TestSaveMapping_RejectsFieldOutsideWhitelist(t *testing.T) {
	db := newTestDB(t)
	board := BoardConfig{BoardID: "600", TargetSection: SectionFunded, IsActive: true}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}
	s := newSyncService(t, db, &fakeFetcher{})

	// "stage" is a pipeline field, not a funded-loans one
	_, err := s.SaveMapping("600", SaveMappingRequest{ColumnID: "c1", PipelineField: "stage"})
	if !errors.Is(err, ErrFieldNotAllowed) {
		t.Fatalf("expected ErrFieldNotAllowed, got %v", err)
	}

	var count int64
	db.Model(&ColumnMapping{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected mapping was persisted")
	}
}

func TestSaveMapping_CreateThenUpdate(t *testing.T) {
	db := newTestDB(t)
	board := BoardConfig{BoardID: "700", TargetSection: SectionPipeline, IsActive: true}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}
	s := newSyncService(t, db, &fakeFetcher{})

	if _, err := s.SaveMapping("700", SaveMappingRequest{ColumnID: "c1", PipelineField: "loan_amount"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.SaveMapping("700", SaveMappingRequest{ColumnID: "c1", PipelineField: "rate"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var mappings []ColumnMapping
	db.Where("board_id = ?", "700").Find(&mappings)
	if len(mappings) != 1 {
		t.Fatalf("expected one mapping, got %d", len(mappings))
	}
	if mappings[0].PipelineField != "rate" {
		t.Fatalf("PipelineField=%q", mappings[0].PipelineField)
	}
}

func TestCreateBoard_ValidatesSection(t *testing.T) {
	db := newTestDB(t)
	s := newSyncService(t, db, &fakeFetcher{})

	if _, err := s.CreateBoard(BoardConfig{BoardID: "800", TargetSection: "archived"}); err == nil {
		t.Fatalf("unknown section should be rejected")
	}
	if _, err := s.CreateBoard(BoardConfig{TargetSection: SectionPipeline}); err == nil {
		t.Fatalf("empty board id should be rejected")
	}
	if _, err := s.CreateBoard(BoardConfig{BoardID: "800", TargetSection: SectionPipeline}); err != nil {
		t.Fatalf("valid board rejected: %v", err)
	}
}

func TestDeleteBoard_CascadesMappings(t *testing.T) {
	db := newTestDB(t)
	seedBoard(t, db, "900", SectionPipeline, 0)
	s := newSyncService(t, db, &fakeFetcher{})

	var board BoardConfig
	db.Where("board_id = ?", "900").First(&board)
	if err := s.DeleteBoard(board.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&ColumnMapping{}).Where("board_id = ?", "900").Count(&count)
	if count != 0 {
		t.Fatalf("mappings not cascaded, %d left", count)
	}
}

func TestGetSyncHistory_LimitDefaults(t *testing.T) {
	db := newTestDB(t)
	s := newSyncService(t, db, &fakeFetcher{})

	seedBoard(t, db, "100", SectionPipeline, 0)
	fetcher := s.Client.(*fakeFetcher)
	fetcher.items = map[string][]Item{"100": {{ID: "i1", Name: "Jane Doe"}}}
	if _, err := s.RunSync(context.Background(), 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := s.GetSyncHistory(0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != "success" {
		t.Fatalf("unexpected history: %+v", entries)
	}
}
