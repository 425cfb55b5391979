package handlers

import (
	"net/http"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/errors"
	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
)

// 提交评价，评分取值 [1,4]
func (h *Handlers) handleCreateFeedback(c *gin.Context) {
	var req struct {
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Comment == "" {
		response.Fail(c, "comment is required", nil)
		return
	}
	if req.Rating < models.FeedbackRatingMin || req.Rating > models.FeedbackRatingMax {
		response.Fail(c, "rating must be between 1 and 4", nil)
		return
	}

	fb, err := models.CreateFeedback(h.db, req.Comment, req.Rating)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to save feedback"))
		return
	}
	response.Created(c, "feedback created", fb)
}
