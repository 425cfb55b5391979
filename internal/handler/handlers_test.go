package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"EchoBoard/internal/models"
	"EchoBoard/internal/service"
	"EchoBoard/pkg/config"
	stores "EchoBoard/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Read(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *memStore) Write(ctx context.Context, key string, r io.Reader, size int64, opts stores.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memStore) PublicURL(key string) string { return "https://cdn.test/" + key }

type stubSynth struct{}

func (stubSynth) Name() string { return "stub" }

func (stubSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("audio:" + text), nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.GlobalConfig = &config.Config{APIPrefix: "/api"}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Soundboard{},
		&models.Profile{},
		&models.History{},
		&models.Feedback{},
		&models.Report{},
	))

	store := &memStore{objects: make(map[string][]byte)}
	svc := service.NewSoundboard(db, store, stubSynth{})

	engine := gin.New()
	NewHandlers(db, svc, store).Register(engine)
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSoundboardLifecycle(t *testing.T) {
	engine, _ := newTestRouter(t)

	// 空列表按约定返回 404
	w := doJSON(t, engine, http.MethodGet, "/api/soundboards/a@b.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/soundboards", gin.H{
		"title": "Greeting",
		"text":  "Halo dunia",
		"email": "a@b.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Soundboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Data.ID)
	assert.True(t, strings.HasSuffix(created.Data.FileName, ".mp3"))

	w = doJSON(t, engine, http.MethodGet, "/api/soundboards/a@b.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data []service.EnrichedSoundboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].FileExists)

	w = doJSON(t, engine, http.MethodDelete, "/api/soundboards/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 再删同一条返回 404
	w = doJSON(t, engine, http.MethodDelete, "/api/soundboards/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/soundboards/a@b.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedbackRatingBounds(t *testing.T) {
	engine, _ := newTestRouter(t)

	cases := []struct {
		rating int
		want   int
	}{
		{0, http.StatusBadRequest},
		{1, http.StatusCreated},
		{4, http.StatusCreated},
		{5, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("rating %d", tc.rating), func(t *testing.T) {
			w := doJSON(t, engine, http.MethodPost, "/api/feedback", gin.H{
				"comment": "nice app",
				"rating":  tc.rating,
			})
			assert.Equal(t, tc.want, w.Code)
		})
	}

	t.Run("comment required", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/feedback", gin.H{"rating": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHistoryFlow(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/history", gin.H{
		"id":      "h-1",
		"title":   "Greeting",
		"message": "Halo dunia",
		"email":   "a@b.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 缺字段被拒绝
	w = doJSON(t, engine, http.MethodPost, "/api/history", gin.H{"id": "h-2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/history/h-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/history/h-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/history/h-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileCreateAndGet(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/profile", gin.H{
		"name":  "Andi",
		"email": "andi@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 重复邮箱被拒绝
	w = doJSON(t, engine, http.MethodPost, "/api/profile", gin.H{
		"name":  "Andi Again",
		"email": "andi@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/profile/andi@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/profile/missing@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportPagination(t *testing.T) {
	engine, _ := newTestRouter(t)

	for i := 0; i < 12; i++ {
		w := doJSON(t, engine, http.MethodPost, "/api/report", gin.H{
			"comment": fmt.Sprintf("report %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, engine, http.MethodGet, "/api/report?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.ReportPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Data.Total)
	assert.Len(t, resp.Data.Items, 2)
	assert.Equal(t, 2, resp.Data.TotalPages)
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
