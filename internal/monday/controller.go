package monday

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SyncController struct {
	Service SyncServiceAPI
}

// TriggerSync runs a full sync pass and returns the aggregate summary.
// Per-board and per-item failures are visible via the history endpoint, not
// inline here.
func (sc *SyncController) TriggerSync(c *gin.Context) {
	userID := 0
	if v, ok := c.Get("userID"); ok {
		if f, ok := v.(float64); ok {
			userID = int(f)
		}
	}

	summary, err := sc.Service.RunSync(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTokenNotConfigured):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sync completed successfully", "summary": summary})
}

func (sc *SyncController) GetSyncHistory(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := sc.Service.GetSyncHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (sc *SyncController) GetBoards(c *gin.Context) {
	boards, err := sc.Service.GetBoards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (sc *SyncController) CreateBoard(c *gin.Context) {
	var board BoardConfig
	if err := c.ShouldBindJSON(&board); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := sc.Service.CreateBoard(board)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board created successfully", "board": created})
}

func (sc *SyncController) UpdateBoard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("boardId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := sc.Service.UpdateBoard(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board updated successfully", "board": board})
}

func (sc *SyncController) DeleteBoard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("boardId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}

	if err := sc.Service.DeleteBoard(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

func (sc *SyncController) GetMappings(c *gin.Context) {
	mappings, err := sc.Service.GetMappings(c.Param("boardId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

func (sc *SyncController) SaveMapping(c *gin.Context) {
	var req SaveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapping, err := sc.Service.SaveMapping(c.Param("boardId"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFieldNotAllowed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mapping saved successfully", "mapping": mapping})
}

func (sc *SyncController) DeleteMapping(c *gin.Context) {
	if err := sc.Service.DeleteMapping(c.Param("boardId"), c.Param("columnId")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mapping deleted successfully"})
}

// GetSectionFields serves the per-section whitelists and labels for the
// admin mapping UI.
func (sc *SyncController) GetSectionFields(c *gin.Context) {
	section := c.Param("section")
	fields := SectionFieldList(section)
	if fields == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": section, "fields": fields})
}
