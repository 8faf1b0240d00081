package monday

import (
	"errors"
	"time"

	"mortgage-office-api/internal/pipeline"

	"gorm.io/gorm"
)

// Upsert outcomes.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultSkipped = "skipped"
)

// UpsertEngine applies mapped rows to the destination tables, keyed by
// monday_item_id. Re-running with the same item is idempotent: the lookup
// finds the existing row and updates it in place.
type UpsertEngine struct {
	DB *gorm.DB
}

// updatesFor builds the update set from the row's touched fields only, so an
// untouched field never clobbers stored data. Touched-but-nil values write
// NULL deliberately.
func (row *MappedRow) updatesFor(section string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"client_name":    row.ClientName,
		"source_system":  SourceMonday,
		"last_synced_at": now,
	}

	put := func(field string, value interface{}) {
		if row.Touched(field) && AllowedField(section, field) {
			updates[field] = value
		}
	}

	// Funded loans carry no stage column; the stage/status value maps onto
	// whichever of the two the section's table has.
	if section != SectionFunded && (row.Touched("stage") || row.Touched("status")) {
		stageColumn := "stage"
		if section == SectionPreApproval {
			stageColumn = "status"
		}
		updates[stageColumn] = deref(row.Stage)
	}

	put("loan_amount", floatOrNil(row.LoanAmount))
	put("rate", strOrNil(row.Rate))
	put("loan_type", strOrNil(row.LoanType))
	put("lender", strOrNil(row.Lender))
	put("loan_officer_name", strOrNil(row.LoanOfficerName))
	put("application_date", strOrNil(row.ApplicationDate))
	put("lock_date", strOrNil(row.LockDate))
	put("closing_date", strOrNil(row.ClosingDate))
	put("pre_approval_date", strOrNil(row.PreApprovalDate))
	put("expiration_date", strOrNil(row.ExpirationDate))
	put("funded_date", strOrNil(row.FundedDate))
	put("notes", strOrNil(row.Notes))

	if row.Touched("loan_officer_id") {
		updates["loan_officer_id"] = intOrNil(row.LoanOfficerID)
	}

	return updates
}

func (e *UpsertEngine) UpsertPipeline(row MappedRow) (string, error) {
	now := time.Now()

	var existing pipeline.PipelineLoan
	err := e.DB.Where("monday_item_id = ?", row.MondayItemID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultSkipped, err
		}

		loan := pipeline.PipelineLoan{
			ClientName:      row.ClientName,
			Stage:           deref(row.Stage),
			LoanAmount:      row.LoanAmount,
			Rate:            row.Rate,
			LoanType:        row.LoanType,
			Lender:          row.Lender,
			LoanOfficerName: row.LoanOfficerName,
			LoanOfficerID:   row.LoanOfficerID,
			ApplicationDate: row.ApplicationDate,
			LockDate:        row.LockDate,
			ClosingDate:     row.ClosingDate,
			Notes:           row.Notes,
			MondayItemID:    &row.MondayItemID,
			SourceSystem:    SourceMonday,
			LastSyncedAt:    &now,
		}
		if err := e.DB.Create(&loan).Error; err != nil {
			return ResultSkipped, err
		}
		return ResultCreated, nil
	}

	if err := e.DB.Model(&existing).Updates(row.updatesFor(SectionPipeline, now)).Error; err != nil {
		return ResultSkipped, err
	}
	return ResultUpdated, nil
}

func (e *UpsertEngine) UpsertPreApproval(row MappedRow) (string, error) {
	now := time.Now()

	var existing pipeline.PreApproval
	err := e.DB.Where("monday_item_id = ?", row.MondayItemID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultSkipped, err
		}

		pa := pipeline.PreApproval{
			ClientName:      row.ClientName,
			Status:          deref(row.Stage),
			LoanAmount:      row.LoanAmount,
			Rate:            row.Rate,
			LoanType:        row.LoanType,
			LoanOfficerName: row.LoanOfficerName,
			LoanOfficerID:   row.LoanOfficerID,
			PreApprovalDate: row.PreApprovalDate,
			ExpirationDate:  row.ExpirationDate,
			Notes:           row.Notes,
			MondayItemID:    &row.MondayItemID,
			SourceSystem:    SourceMonday,
			LastSyncedAt:    &now,
		}
		if err := e.DB.Create(&pa).Error; err != nil {
			return ResultSkipped, err
		}
		return ResultCreated, nil
	}

	if err := e.DB.Model(&existing).Updates(row.updatesFor(SectionPreApproval, now)).Error; err != nil {
		return ResultSkipped, err
	}
	return ResultUpdated, nil
}

// UpsertFunded requires a funded date: a funded record without one is not
// meaningful, so the row is skipped rather than created or updated.
func (e *UpsertEngine) UpsertFunded(row MappedRow) (string, error) {
	if row.FundedDate == nil {
		return ResultSkipped, nil
	}

	now := time.Now()

	var existing pipeline.FundedLoan
	err := e.DB.Where("monday_item_id = ?", row.MondayItemID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultSkipped, err
		}

		fl := pipeline.FundedLoan{
			ClientName:      row.ClientName,
			LoanAmount:      row.LoanAmount,
			Rate:            row.Rate,
			LoanType:        row.LoanType,
			Lender:          row.Lender,
			FundedDate:      row.FundedDate,
			LoanOfficerName: row.LoanOfficerName,
			LoanOfficerID:   row.LoanOfficerID,
			Notes:           row.Notes,
			MondayItemID:    &row.MondayItemID,
			SourceSystem:    SourceMonday,
			LastSyncedAt:    &now,
		}
		if err := e.DB.Create(&fl).Error; err != nil {
			return ResultSkipped, err
		}
		return ResultCreated, nil
	}

	if err := e.DB.Model(&existing).Updates(row.updatesFor(SectionFunded, now)).Error; err != nil {
		return ResultSkipped, err
	}
	return ResultUpdated, nil
}

// Upsert dispatches to the section-appropriate engine.
func (e *UpsertEngine) Upsert(section string, row MappedRow) (string, error) {
	switch section {
	case SectionPipeline:
		return e.UpsertPipeline(row)
	case SectionPreApproval:
		return e.UpsertPreApproval(row)
	case SectionFunded:
		return e.UpsertFunded(row)
	default:
		return ResultSkipped, errors.New("unknown target section: " + section)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func floatOrNil(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func intOrNil(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
