package webobject

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))

	engine := gin.New()
	group := engine.Group("/admin")
	RegisterObjects(group, db, []WebObject{
		{Model: note{}, Name: "note", Orderables: []string{"CreatedAt"}},
	})
	return engine, db
}

func TestListPagination(t *testing.T) {
	engine, db := setupRouter(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&note{Title: fmt.Sprintf("note %d", i)}).Error)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notes?page=2&limit=20", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(25), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Page)

	items, ok := resp.Data.Items.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 5)
}

func TestGetAndDelete(t *testing.T) {
	engine, db := setupRouter(t)

	n := note{Title: "keep me"}
	require.NoError(t, db.Create(&n).Error)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/notes/%d", n.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "keep me")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/notes/%d", n.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/notes/%d", n.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownOrderIgnored(t *testing.T) {
	engine, db := setupRouter(t)
	require.NoError(t, db.Create(&note{Title: "only"}).Error)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notes?order=-Secret", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
