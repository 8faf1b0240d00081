package monday

import (
	"time"

	"gorm.io/datatypes"
)

// BoardConfig is one watched Monday.com board and the internal section its
// items feed. Admin-managed; read at the start of every sync run.
type BoardConfig struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID       string    `gorm:"size:50;uniqueIndex;not null;column:board_id" json:"board_id"`
	BoardName     string    `gorm:"size:255;column:board_name" json:"board_name"`
	TargetSection string    `gorm:"size:50;not null;column:target_section" json:"target_section"`
	IsActive      bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	DisplayOrder  int       `gorm:"not null;default:0;column:display_order" json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (BoardConfig) TableName() string {
	return "monday_board_configs"
}

// ColumnMapping maps one external column of a board onto one internal field.
// PipelineField must belong to the board section's whitelist; this is
// enforced when an admin writes the mapping, not during sync.
type ColumnMapping struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID       string    `gorm:"size:50;not null;index:idx_board_column,unique;column:board_id" json:"board_id"`
	ColumnID      string    `gorm:"size:100;not null;index:idx_board_column,unique;column:column_id" json:"column_id"`
	PipelineField string    `gorm:"size:100;not null;column:pipeline_field" json:"pipeline_field"`
	DisplayLabel  *string   `gorm:"size:255;column:display_label" json:"display_label,omitempty"`
	DisplayOrder  int       `gorm:"not null;default:0;column:display_order" json:"display_order"`
	IsVisible     bool      `gorm:"not null;default:true;column:is_visible" json:"is_visible"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ColumnMapping) TableName() string {
	return "monday_column_mappings"
}

// SyncLog is one board's entry in one sync run. Created as "pending" before
// any network I/O, finalized exactly once to "success" or "error".
type SyncLog struct {
	ID           int            `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID      string         `gorm:"size:50;not null;index;column:board_id" json:"board_id"`
	Status       string         `gorm:"size:20;not null;default:pending" json:"status"`
	ItemsFetched int            `gorm:"not null;default:0;column:items_fetched" json:"items_fetched"`
	ItemsCreated int            `gorm:"not null;default:0;column:items_created" json:"items_created"`
	ItemsUpdated int            `gorm:"not null;default:0;column:items_updated" json:"items_updated"`
	ErrorMessage *string        `gorm:"type:text;column:error_message" json:"error_message,omitempty"`
	TriggeredBy  *int           `gorm:"column:triggered_by" json:"triggered_by,omitempty"`
	Details      datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	StartedAt    time.Time      `gorm:"not null;column:started_at" json:"started_at"`
	FinishedAt   *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (SyncLog) TableName() string {
	return "monday_sync_logs"
}

// Item is one board row as fetched from the API. Never persisted; it exists
// only for the duration of a sync pass.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	GroupTitle   string        `json:"group_title"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ColumnValue is one (column id, display text, raw value) triple on an item.
// Value is the column's raw JSON as text; Text is what the board displays.
type ColumnValue struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Column describes a board column, used for title-based auto-mapping.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// SyncSummary is what the triggering caller gets back.
type SyncSummary struct {
	BoardsProcessed int `json:"boards_processed"`
	ItemsFetched    int `json:"items_fetched"`
	ItemsCreated    int `json:"items_created"`
	ItemsUpdated    int `json:"items_updated"`
	ItemsDeleted    int `json:"items_deleted"`
}

type SaveMappingRequest struct {
	ColumnID      string  `json:"column_id" binding:"required"`
	PipelineField string  `json:"pipeline_field" binding:"required"`
	DisplayLabel  *string `json:"display_label"`
	DisplayOrder  int     `json:"display_order"`
	IsVisible     *bool   `json:"is_visible"`
}
