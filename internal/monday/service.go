package monday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"mortgage-office-api/config"
	"mortgage-office-api/internal/auth"
	"mortgage-office-api/internal/logs"
	"mortgage-office-api/internal/pipeline"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrTokenNotConfigured means neither a stored credential nor the
	// process-wide MONDAY_API_TOKEN is available; nothing can run.
	ErrTokenNotConfigured = errors.New("monday API token is not configured")

	// ErrSyncInProgress guards the reconciliation step, which is unsafe
	// under concurrent runs against the same section.
	ErrSyncInProgress = errors.New("a sync run is already in progress")

	// ErrFieldNotAllowed rejects a column mapping targeting a field outside
	// the board section's whitelist.
	ErrFieldNotAllowed = errors.New("field is not allowed for the board's target section")
)

// SyncService drives full sync runs and owns the board/mapping admin surface.
type SyncService struct {
	DB          *gorm.DB
	CFG         *config.Config
	Client      BoardFetcher
	Credentials auth.CredentialStore
	Users       auth.UserDirectory
	LogService  *logs.LogService
	Mapper      *Mapper
	Engine      *UpsertEngine

	mu      sync.Mutex
	running bool
}

func NewSyncService(db *gorm.DB, cfg *config.Config, client BoardFetcher, creds auth.CredentialStore, users auth.UserDirectory, logService *logs.LogService) *SyncService {
	return &SyncService{
		DB:          db,
		CFG:         cfg,
		Client:      client,
		Credentials: creds,
		Users:       users,
		LogService:  logService,
		Mapper:      NewMapper(),
		Engine:      &UpsertEngine{DB: db},
	}
}

// RunSync executes one full synchronization pass: every active board in
// display order, then deletion reconciliation per observed section. A single
// board's failure never aborts its siblings; only a missing token fails the
// run outright.
func (s *SyncService) RunSync(ctx context.Context, userID int) (*SyncSummary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	token, err := s.resolveToken(userID)
	if err != nil {
		return nil, err
	}

	var boards []BoardConfig
	if err := s.DB.Where("is_active = ?", true).Order("display_order ASC").Find(&boards).Error; err != nil {
		return nil, err
	}

	nameToUserID := map[string]int{}
	if s.Users != nil {
		if m, err := s.Users.UserNameMap(); err == nil {
			nameToUserID = m
		} else {
			log.Printf("monday sync: user name map unavailable: %v", err)
		}
	}

	summary := &SyncSummary{}
	seen := map[string]map[string]bool{}

	for _, board := range boards {
		s.syncBoard(ctx, board, token, userID, nameToUserID, seen, summary)
		summary.BoardsProcessed++
	}

	deleted := s.reconcileDeletions(seen)
	summary.ItemsDeleted = deleted

	s.logEvent("info", "sync_complete", fmt.Sprintf(
		"sync finished: %d boards, %d fetched, %d created, %d updated, %d deleted",
		summary.BoardsProcessed, summary.ItemsFetched, summary.ItemsCreated, summary.ItemsUpdated, summary.ItemsDeleted,
	), userID, boardIDs(boards))

	return summary, nil
}

func (s *SyncService) resolveToken(userID int) (string, error) {
	if s.Credentials != nil && userID > 0 {
		token, err := s.Credentials.GetCredential(userID, "monday")
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil && !errors.Is(err, auth.ErrCredentialNotFound) {
			log.Printf("monday sync: credential lookup failed, falling back to env token: %v", err)
		}
	}

	if s.CFG != nil && s.CFG.MondayToken != "" {
		return s.CFG.MondayToken, nil
	}
	return "", ErrTokenNotConfigured
}

// syncBoard processes one board end to end. Errors are contained at the
// board (fetch) or item (upsert) level and recorded on the board's run log.
func (s *SyncService) syncBoard(ctx context.Context, board BoardConfig, token string, userID int, nameToUserID map[string]int, seen map[string]map[string]bool, summary *SyncSummary) {
	columnMap, err := s.columnMapForBoard(ctx, board, token)
	if err != nil {
		log.Printf("monday sync: board %s mapping error: %v", board.BoardID, err)
	}
	if len(columnMap) == 0 {
		log.Printf("monday sync: board %s has no usable column mapping, skipping", board.BoardID)
		s.logEvent("warn", "board_skipped", "no usable column mapping for board "+board.BoardID, userID, []string{board.BoardID})
		return
	}

	// Run-log entry opens before any network I/O so an interrupted run
	// leaves an inspectable "pending" trail.
	runLog := SyncLog{
		BoardID:     board.BoardID,
		Status:      "pending",
		StartedAt:   time.Now(),
		TriggeredBy: triggeredBy(userID),
	}
	if err := s.DB.Create(&runLog).Error; err != nil {
		log.Printf("monday sync: could not open run log for board %s: %v", board.BoardID, err)
	}

	items, err := s.Client.FetchAllItems(ctx, token, board.BoardID)
	if err != nil {
		s.finalizeRunLog(&runLog, "error", err.Error())
		s.logEvent("error", "board_fetch_failed", err.Error(), userID, []string{board.BoardID})
		return
	}

	if seen[board.TargetSection] == nil {
		seen[board.TargetSection] = map[string]bool{}
	}

	created, updated := 0, 0
	for _, item := range items {
		seen[board.TargetSection][item.ID] = true

		// The pipeline family is keyed on a client name; nameless items
		// cannot form a meaningful row there.
		if board.TargetSection == SectionPipeline && strings.TrimSpace(item.Name) == "" {
			continue
		}

		row := s.Mapper.MapItemToRow(item, columnMap, nameToUserID, board.TargetSection)
		result, err := s.Engine.Upsert(board.TargetSection, row)
		if err != nil {
			log.Printf("monday sync: upsert failed for item %s on board %s: %v", item.ID, board.BoardID, err)
			continue
		}
		switch result {
		case ResultCreated:
			created++
		case ResultUpdated:
			updated++
		}
	}

	runLog.ItemsFetched = len(items)
	runLog.ItemsCreated = created
	runLog.ItemsUpdated = updated
	s.finalizeRunLog(&runLog, "success", "")

	summary.ItemsFetched += len(items)
	summary.ItemsCreated += created
	summary.ItemsUpdated += updated
}

// columnMapForBoard prefers explicit admin mappings and falls back to
// title-based auto-mapping.
func (s *SyncService) columnMapForBoard(ctx context.Context, board BoardConfig, token string) (map[string]string, error) {
	var mappings []ColumnMapping
	if err := s.DB.Where("board_id = ?", board.BoardID).Find(&mappings).Error; err != nil {
		return nil, err
	}

	if len(mappings) == 0 {
		auto, err := s.Mapper.AutoMapColumns(ctx, s.Client, token, board.BoardID)
		if err != nil {
			return nil, err
		}
		mappings = auto
	}

	columnMap := make(map[string]string, len(mappings))
	for _, m := range mappings {
		columnMap[m.ColumnID] = m.PipelineField
	}
	return columnMap, nil
}

func (s *SyncService) finalizeRunLog(runLog *SyncLog, status, errMsg string) {
	if runLog.ID == 0 {
		return
	}

	now := time.Now()
	runLog.Status = status
	runLog.FinishedAt = &now
	if errMsg != "" {
		runLog.ErrorMessage = &errMsg
	}
	if details, err := json.Marshal(map[string]int{
		"fetched": runLog.ItemsFetched,
		"created": runLog.ItemsCreated,
		"updated": runLog.ItemsUpdated,
	}); err == nil {
		runLog.Details = details
	}

	if err := s.DB.Save(runLog).Error; err != nil {
		log.Printf("monday sync: could not finalize run log %d: %v", runLog.ID, err)
	}
}

// reconcileDeletions removes rows whose external item disappeared. Only
// sections that observed at least one item this run are touched, so a total
// fetch failure can never wipe a section.
func (s *SyncService) reconcileDeletions(seen map[string]map[string]bool) int {
	deleted := 0
	for section, ids := range seen {
		if len(ids) == 0 {
			continue
		}
		n, err := s.reconcileSection(section, ids)
		if err != nil {
			log.Printf("monday sync: reconciliation failed for section %s: %v", section, err)
			s.logEvent("error", "reconcile_failed", err.Error(), 0, nil)
			continue
		}
		deleted += n
	}
	return deleted
}

func (s *SyncService) reconcileSection(section string, ids map[string]bool) (int, error) {
	stale := func(observed []string) []string {
		var gone []string
		for _, id := range observed {
			if !ids[id] {
				gone = append(gone, id)
			}
		}
		return gone
	}

	switch section {
	case SectionPipeline:
		var rows []pipeline.PipelineLoan
		if err := s.DB.Where("source_system = ? AND monday_item_id IS NOT NULL", SourceMonday).Find(&rows).Error; err != nil {
			return 0, err
		}
		observed := make([]string, 0, len(rows))
		for _, r := range rows {
			observed = append(observed, *r.MondayItemID)
		}
		gone := stale(observed)
		if len(gone) == 0 {
			return 0, nil
		}
		result := s.DB.Where("source_system = ? AND monday_item_id IN ?", SourceMonday, gone).Delete(&pipeline.PipelineLoan{})
		return int(result.RowsAffected), result.Error

	case SectionPreApproval:
		var rows []pipeline.PreApproval
		if err := s.DB.Where("source_system = ? AND monday_item_id IS NOT NULL", SourceMonday).Find(&rows).Error; err != nil {
			return 0, err
		}
		observed := make([]string, 0, len(rows))
		for _, r := range rows {
			observed = append(observed, *r.MondayItemID)
		}
		gone := stale(observed)
		if len(gone) == 0 {
			return 0, nil
		}
		result := s.DB.Where("source_system = ? AND monday_item_id IN ?", SourceMonday, gone).Delete(&pipeline.PreApproval{})
		return int(result.RowsAffected), result.Error

	case SectionFunded:
		var rows []pipeline.FundedLoan
		if err := s.DB.Where("source_system = ? AND monday_item_id IS NOT NULL", SourceMonday).Find(&rows).Error; err != nil {
			return 0, err
		}
		observed := make([]string, 0, len(rows))
		for _, r := range rows {
			observed = append(observed, *r.MondayItemID)
		}
		gone := stale(observed)
		if len(gone) == 0 {
			return 0, nil
		}
		result := s.DB.Where("source_system = ? AND monday_item_id IN ?", SourceMonday, gone).Delete(&pipeline.FundedLoan{})
		return int(result.RowsAffected), result.Error
	}

	return 0, nil
}

func (s *SyncService) logEvent(level, action, message string, userID int, boards []string) {
	if s.LogService == nil {
		return
	}
	entry := logs.SystemLog{
		Level:   level,
		Service: "monday",
		Action:  action,
		Message: message,
		Boards:  pq.StringArray(boards),
	}
	if userID > 0 {
		uid := uint(userID)
		entry.UserID = &uid
	}
	if err := s.LogService.Log(entry, nil); err != nil {
		log.Printf("monday sync: could not write system log: %v", err)
	}
}

// --- admin surface ---

func (s *SyncService) GetBoards() ([]BoardConfig, error) {
	var boards []BoardConfig
	if err := s.DB.Order("display_order ASC").Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *SyncService) CreateBoard(board BoardConfig) (*BoardConfig, error) {
	if !ValidSection(board.TargetSection) {
		return nil, errors.New("unknown target section: " + board.TargetSection)
	}
	if strings.TrimSpace(board.BoardID) == "" {
		return nil, errors.New("board_id is required")
	}
	if err := s.DB.Create(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *SyncService) UpdateBoard(id int, updates map[string]interface{}) (*BoardConfig, error) {
	if section, ok := updates["target_section"].(string); ok && !ValidSection(section) {
		return nil, errors.New("unknown target section: " + section)
	}
	delete(updates, "id")

	var board BoardConfig
	if err := s.DB.Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&board).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *SyncService) DeleteBoard(id int) error {
	var board BoardConfig
	if err := s.DB.Where("id = ?", id).First(&board).Error; err != nil {
		return err
	}
	if err := s.DB.Where("board_id = ?", board.BoardID).Delete(&ColumnMapping{}).Error; err != nil {
		return err
	}
	return s.DB.Delete(&board).Error
}

func (s *SyncService) GetMappings(boardID string) ([]ColumnMapping, error) {
	var mappings []ColumnMapping
	if err := s.DB.Where("board_id = ?", boardID).Order("display_order ASC").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// SaveMapping validates the target field against the board section's
// whitelist; violations are rejected here, at admin-write time, never
// during a sync pass.
func (s *SyncService) SaveMapping(boardID string, req SaveMappingRequest) (*ColumnMapping, error) {
	var board BoardConfig
	if err := s.DB.Where("board_id = ?", boardID).First(&board).Error; err != nil {
		return nil, err
	}

	if !AllowedField(board.TargetSection, req.PipelineField) {
		return nil, ErrFieldNotAllowed
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	mapping := ColumnMapping{
		BoardID:       boardID,
		ColumnID:      req.ColumnID,
		PipelineField: req.PipelineField,
		DisplayLabel:  req.DisplayLabel,
		DisplayOrder:  req.DisplayOrder,
		IsVisible:     visible,
	}

	var existing ColumnMapping
	err := s.DB.Where("board_id = ? AND column_id = ?", boardID, req.ColumnID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.DB.Create(&mapping).Error; err != nil {
			return nil, err
		}
		return &mapping, nil
	}

	if err := s.DB.Model(&existing).Updates(map[string]interface{}{
		"pipeline_field": mapping.PipelineField,
		"display_label":  strOrNil(mapping.DisplayLabel),
		"display_order":  mapping.DisplayOrder,
		"is_visible":     mapping.IsVisible,
	}).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *SyncService) DeleteMapping(boardID, columnID string) error {
	result := s.DB.Where("board_id = ? AND column_id = ?", boardID, columnID).Delete(&ColumnMapping{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetSyncHistory returns run-log entries, newest first.
func (s *SyncService) GetSyncHistory(limit int) ([]SyncLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []SyncLog
	if err := s.DB.Order("started_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func triggeredBy(userID int) *int {
	if userID <= 0 {
		return nil
	}
	return &userID
}

func boardIDs(boards []BoardConfig) []string {
	ids := make([]string, 0, len(boards))
	for _, b := range boards {
		ids = append(ids, b.BoardID)
	}
	return ids
}
