package handlers

import (
	"net/http"
	"strconv"

	"EchoBoard/pkg/response"

	"github.com/gin-gonic/gin"
)

// 创建音频卡片：合成文本并上传后落库
func (h *Handlers) handleCreateSoundboard(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sb, err := h.soundboards.Create(c.Request.Context(), req.Title, req.Text, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "soundboard created", sb)
}

// 按归属者列出，带 fileExists 标记
func (h *Handlers) handleListSoundboards(c *gin.Context) {
	email := c.Param("email")

	boards, err := h.soundboards.ListByOwner(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "get soundboards", boards)
}

// 标题/文本全文检索
func (h *Handlers) handleSearchSoundboards(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.Fail(c, "q is required", nil)
		return
	}
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	res, err := h.soundboards.Search(c.Request.Context(), keyword, c.Query("email"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "search soundboards", res)
}

// 删除卡片，对象删除是尽力而为
func (h *Handlers) handleDeleteSoundboard(c *gin.Context) {
	id := c.Param("id")

	if err := h.soundboards.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "soundboard deleted", nil)
}
