package pipeline

import (
	"time"
)

// Rows mirrored from Monday.com carry a non-nil MondayItemID and
// SourceSystem="monday"; manually entered rows leave MondayItemID nil.

type PipelineLoan struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName      string     `gorm:"size:255;not null;column:client_name" json:"client_name"`
	Stage           string     `gorm:"size:100" json:"stage"`
	LoanAmount      *float64   `gorm:"column:loan_amount" json:"loan_amount,omitempty"`
	Rate            *string    `gorm:"size:50" json:"rate,omitempty"`
	LoanType        *string    `gorm:"size:100;column:loan_type" json:"loan_type,omitempty"`
	Lender          *string    `gorm:"size:255" json:"lender,omitempty"`
	LoanOfficerName *string    `gorm:"size:255;column:loan_officer_name" json:"loan_officer_name,omitempty"`
	LoanOfficerID   *int       `gorm:"column:loan_officer_id" json:"loan_officer_id,omitempty"`
	ApplicationDate *string    `gorm:"size:50;column:application_date" json:"application_date,omitempty"`
	LockDate        *string    `gorm:"size:50;column:lock_date" json:"lock_date,omitempty"`
	ClosingDate     *string    `gorm:"size:50;column:closing_date" json:"closing_date,omitempty"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	MondayItemID    *string    `gorm:"size:50;uniqueIndex;column:monday_item_id" json:"monday_item_id,omitempty"`
	SourceSystem    string     `gorm:"size:50;column:source_system" json:"source_system"`
	LastSyncedAt    *time.Time `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PipelineLoan) TableName() string {
	return "pipeline_loans"
}

type PreApproval struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName      string     `gorm:"size:255;not null;column:client_name" json:"client_name"`
	Status          string     `gorm:"size:100" json:"status"`
	LoanAmount      *float64   `gorm:"column:loan_amount" json:"loan_amount,omitempty"`
	Rate            *string    `gorm:"size:50" json:"rate,omitempty"`
	LoanType        *string    `gorm:"size:100;column:loan_type" json:"loan_type,omitempty"`
	PreApprovalDate *string    `gorm:"size:50;column:pre_approval_date" json:"pre_approval_date,omitempty"`
	ExpirationDate  *string    `gorm:"size:50;column:expiration_date" json:"expiration_date,omitempty"`
	LoanOfficerName *string    `gorm:"size:255;column:loan_officer_name" json:"loan_officer_name,omitempty"`
	LoanOfficerID   *int       `gorm:"column:loan_officer_id" json:"loan_officer_id,omitempty"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	MondayItemID    *string    `gorm:"size:50;uniqueIndex;column:monday_item_id" json:"monday_item_id,omitempty"`
	SourceSystem    string     `gorm:"size:50;column:source_system" json:"source_system"`
	LastSyncedAt    *time.Time `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PreApproval) TableName() string {
	return "pre_approvals"
}

type FundedLoan struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName      string     `gorm:"size:255;not null;column:client_name" json:"client_name"`
	LoanAmount      *float64   `gorm:"column:loan_amount" json:"loan_amount,omitempty"`
	Rate            *string    `gorm:"size:50" json:"rate,omitempty"`
	LoanType        *string    `gorm:"size:100;column:loan_type" json:"loan_type,omitempty"`
	Lender          *string    `gorm:"size:255" json:"lender,omitempty"`
	FundedDate      *string    `gorm:"size:50;column:funded_date" json:"funded_date,omitempty"`
	LoanOfficerName *string    `gorm:"size:255;column:loan_officer_name" json:"loan_officer_name,omitempty"`
	LoanOfficerID   *int       `gorm:"column:loan_officer_id" json:"loan_officer_id,omitempty"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	MondayItemID    *string    `gorm:"size:50;uniqueIndex;column:monday_item_id" json:"monday_item_id,omitempty"`
	SourceSystem    string     `gorm:"size:50;column:source_system" json:"source_system"`
	LastSyncedAt    *time.Time `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (FundedLoan) TableName() string {
	return "funded_loans"
}
