package handlers

import (
	"net/http"
	"strconv"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/errors"
	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
)

// 提交举报
func (h *Handlers) handleCreateReport(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Comment == "" {
		response.Fail(c, "comment is required", nil)
		return
	}

	report, err := models.CreateReport(h.db, req.Comment)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to save report"))
		return
	}
	response.Created(c, "report created", report)
}

// 分页列出举报
func (h *Handlers) handleListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := models.ListReports(h.db, page, limit)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to load reports"))
		return
	}
	response.Success(c, "get reports", result)
}
