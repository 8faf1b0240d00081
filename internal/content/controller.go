package content

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service ContentServiceAPI
}

func (cc *ContentController) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := uint(0)
	if v, ok := c.Get("userID"); ok {
		if f, ok := v.(float64); ok {
			userID = uint(f)
		}
	}

	resp, err := cc.Service.Generate(c.Request.Context(), req, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (cc *ContentController) History(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	drafts, err := cc.Service.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}
