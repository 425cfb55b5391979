package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"EchoBoard/pkg/errors"
	"EchoBoard/pkg/response"
	stores "EchoBoard/pkg/storage"

	"EchoBoard/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxProfilePictureSize = 5 << 20 // 5MB

// 创建用户资料，邮箱不可重复
func (h *Handlers) handleCreateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" || req.Email == "" {
		response.Fail(c, "name and email are required", nil)
		return
	}

	exists, err := models.ExistsProfileEmail(h.db, req.Email)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to check email"))
		return
	}
	if exists {
		response.Fail(c, "email already registered", nil)
		return
	}

	profile, err := models.CreateProfile(h.db, req.Name, req.Email)
	if err != nil {
		response.Error(c, errors.Persistence(err, "failed to create profile"))
		return
	}
	response.Created(c, "profile created", profile)
}

func (h *Handlers) handleGetProfile(c *gin.Context) {
	email := c.Param("email")

	profile, err := models.GetProfileByEmail(h.db, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.NotFound("profile %s not found", email))
			return
		}
		response.Error(c, errors.Persistence(err, "failed to load profile"))
		return
	}
	response.Success(c, "get profile", profile)
}

// 更新名称与头像（multipart，头像可选）
func (h *Handlers) handleUpdateProfile(c *gin.Context) {
	email := c.Param("email")

	name := c.PostForm("name")
	if name == "" {
		response.Fail(c, "name is required", nil)
		return
	}

	var pictureURL string
	file, err := c.FormFile("profile_picture")
	if err == nil && file != nil {
		if file.Size > maxProfilePictureSize {
			response.Fail(c, "profile picture exceeds 5MB", nil)
			return
		}
		contentType := file.Header.Get("Content-Type")
		if contentType != "image/jpeg" && contentType != "image/png" {
			response.Fail(c, "profile picture must be jpeg or png", nil)
			return
		}

		src, err := file.Open()
		if err != nil {
			response.Error(c, errors.Storage(err, "failed to read upload"))
			return
		}
		defer src.Close()

		key := fmt.Sprintf("profiles/%d-%s", time.Now().Unix(), sanitizeFilename(file.Filename))
		err = h.store.Write(c.Request.Context(), key, src, file.Size, stores.PutOptions{
			ContentType:  contentType,
			CacheControl: "public, max-age=86400",
		})
		if err != nil {
			response.Error(c, errors.Storage(err, "failed to upload profile picture"))
			return
		}
		pictureURL = h.store.PublicURL(key)
	}

	profile, err := models.UpdateProfile(h.db, email, name, pictureURL)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.NotFound("profile %s not found", email))
			return
		}
		response.Error(c, errors.Persistence(err, "failed to update profile"))
		return
	}
	response.Success(c, "profile updated", profile)
}

// sanitizeFilename 去掉路径成分，避免对象键逃出 profiles/ 前缀
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
