package monday

import "context"

// BoardFetcher is the read-only surface of the Monday API the sync engine
// consumes. *Client implements it.
type BoardFetcher interface {
	FetchAllItems(ctx context.Context, token, boardID string) ([]Item, error)
	FetchBoardColumns(ctx context.Context, token, boardID string) ([]Column, error)
}

type SyncServiceAPI interface {
	RunSync(ctx context.Context, userID int) (*SyncSummary, error)
	GetSyncHistory(limit int) ([]SyncLog, error)
	GetBoards() ([]BoardConfig, error)
	CreateBoard(board BoardConfig) (*BoardConfig, error)
	UpdateBoard(id int, updates map[string]interface{}) (*BoardConfig, error)
	DeleteBoard(id int) error
	GetMappings(boardID string) ([]ColumnMapping, error)
	SaveMapping(boardID string, req SaveMappingRequest) (*ColumnMapping, error)
	DeleteMapping(boardID, columnID string) error
}
