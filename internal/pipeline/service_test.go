package pipeline

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(&PipelineLoan{}, &PreApproval{}, &FundedLoan{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreatePipelineLoan_RequiresClientName(t *testing.T) {
	s := &PipelineService{DB: newTestDB(t)}

	if _, err := s.CreatePipelineLoan(PipelineLoan{}); err == nil {
		t.Fatalf("expected error for missing client_name")
	}
}

func TestCreatePipelineLoan_DefaultsSourceToManual(t *testing.T) {
	s := &PipelineService{DB: newTestDB(t)}

	created, err := s.CreatePipelineLoan(PipelineLoan{ClientName: "Jane Doe", Stage: "Application"})
	if err != nil {
		t.Fatalf("CreatePipelineLoan err: %v", err)
	}
	if created.SourceSystem != "manual" {
		t.Fatalf("expected source_system=manual, got %q", created.SourceSystem)
	}
}

func TestUpdatePipelineLoan_StripsProtectedFields(t *testing.T) {
	s := &PipelineService{DB: newTestDB(t)}

	itemID := "42"
	created, err := s.CreatePipelineLoan(PipelineLoan{
		ClientName:   "Jane Doe",
		MondayItemID: &itemID,
		SourceSystem: "monday",
	})
	if err != nil {
		t.Fatalf("CreatePipelineLoan err: %v", err)
	}

	_, err = s.UpdatePipelineLoan(created.ID, map[string]interface{}{
		"stage":          "Underwriting",
		"monday_item_id": "999",
		"source_system":  "spoofed",
	})
	if err != nil {
		t.Fatalf("UpdatePipelineLoan err: %v", err)
	}

	var loan PipelineLoan
	if err := s.DB.First(&loan, created.ID).Error; err != nil {
		t.Fatalf("reload err: %v", err)
	}
	if loan.Stage != "Underwriting" {
		t.Fatalf("stage not updated: %q", loan.Stage)
	}
	if loan.MondayItemID == nil || *loan.MondayItemID != "42" {
		t.Fatalf("monday_item_id should be untouched, got %v", loan.MondayItemID)
	}
	if loan.SourceSystem != "monday" {
		t.Fatalf("source_system should be untouched, got %q", loan.SourceSystem)
	}
}

func TestDeletePipelineLoan_NotFound(t *testing.T) {
	s := &PipelineService{DB: newTestDB(t)}

	err := s.DeletePipelineLoan(12345)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestExportPipelineXLSX_WritesHeaderAndRows(t *testing.T) {
	s := &PipelineService{DB: newTestDB(t)}

	amount := 250000.0
	if _, err := s.CreatePipelineLoan(PipelineLoan{
		ClientName: "Jane Doe",
		Stage:      "Application",
		LoanAmount: &amount,
	}); err != nil {
		t.Fatalf("CreatePipelineLoan err: %v", err)
	}

	buf, err := s.ExportPipelineXLSX()
	if err != nil {
		t.Fatalf("ExportPipelineXLSX err: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Pipeline")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "Client" {
		t.Fatalf("unexpected first header: %q", rows[0][0])
	}
	if rows[1][0] != "Jane Doe" {
		t.Fatalf("unexpected client cell: %q", rows[1][0])
	}
}
