package handlers

import (
	stderrors "errors"
	"net/http"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/errors"
	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 记录一次使用（语音转文字或文字转语音）
func (h *Handlers) handleCreateHistory(c *gin.Context) {
	var req struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		Message        string `json:"message"`
		IsSpeechToText bool   `json:"is_speech_to_text"`
		Email          string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" || req.Title == "" || req.Message == "" || req.Email == "" {
		response.Fail(c, "id, title, message and email are required", nil)
		return
	}

	entry := &models.History{
		ID:             req.ID,
		Title:          req.Title,
		Message:        req.Message,
		IsSpeechToText: req.IsSpeechToText,
		Email:          req.Email,
	}
	if err := models.CreateHistory(h.db, entry); err != nil {
		response.Error(c, errors.Persistence(err, "failed to save history"))
		return
	}
	response.Created(c, "history created", entry.Entry())
}

// 列出全部使用记录，空结果按约定返回 404
func (h *Handlers) handleListHistory(c *gin.Context) {
	rows, err := models.GetAllHistory(h.db)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to load history"))
		return
	}
	if len(rows) == 0 {
		response.Error(c, errors.NotFound("no history found"))
		return
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].Entry())
	}
	response.Success(c, "get history", entries)
}

func (h *Handlers) handleGetHistory(c *gin.Context) {
	id := c.Param("id")

	entry, err := models.GetHistory(h.db, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.NotFound("history %s not found", id))
			return
		}
		response.Error(c, errors.Persistence(err, "failed to load history"))
		return
	}
	response.Success(c, "get history", entry.Entry())
}

func (h *Handlers) handleDeleteHistory(c *gin.Context) {
	id := c.Param("id")

	if _, err := models.GetHistory(h.db, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.NotFound("history %s not found", id))
			return
		}
		response.Error(c, errors.Persistence(err, "failed to load history"))
		return
	}

	if err := models.DeleteHistory(h.db, id); err != nil {
		response.Error(c, errors.Persistence(err, "failed to delete history"))
		return
	}
	response.Success(c, "history deleted", nil)
}
