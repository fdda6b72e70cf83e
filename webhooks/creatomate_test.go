package webhooks

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drewmudry/chatshorts-api/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h *Handler, target, body string) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST("/webhooks/creatomate", h.HandleCreatomateWebhook)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsBadToken(t *testing.T) {
	h := NewHandler(nil, "s3cret")

	w := serve(h, "/webhooks/creatomate?token=wrong", `{"id":"r-1","status":"succeeded"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(h, "/webhooks/creatomate", `{"id":"r-1","status":"succeeded"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(NewHandler(nil, ""), "/webhooks/creatomate?token=", `{"id":"r-1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsBadBody(t *testing.T) {
	h := NewHandler(nil, "s3cret")

	w := serve(h, "/webhooks/creatomate?token=s3cret", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h, "/webhooks/creatomate?token=s3cret", `{"status":"succeeded"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "renders.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Render{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestWebhookRecordsCompletion(t *testing.T) {
	db := newTestDB(t)
	render := models.Render{Kind: models.KindFakeText, Status: models.StatusRendering, ExternalID: "cr-1"}
	require.NoError(t, db.Create(&render).Error)

	h := NewHandler(db, "s3cret")
	w := serve(h, "/webhooks/creatomate?token=s3cret",
		`{"id":"cr-1","status":"succeeded","url":"https://cdn.creatomate.com/cr-1.mp4","metadata":"1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"render_id":1}`, w.Body.String())

	var got models.Render
	require.NoError(t, db.First(&got, render.ID).Error)
	assert.Equal(t, models.StatusSucceeded, got.Status)
	assert.Equal(t, "https://cdn.creatomate.com/cr-1.mp4", got.VideoURL)
}

func TestWebhookLeavesTerminalRenderAlone(t *testing.T) {
	db := newTestDB(t)
	render := models.Render{Kind: models.KindStory, Status: models.StatusFailed, ExternalID: "cr-2", ErrorMessage: "tts failed"}
	require.NoError(t, db.Create(&render).Error)

	w := serve(NewHandler(db, "s3cret"), "/webhooks/creatomate?token=s3cret",
		`{"id":"cr-2","status":"succeeded","url":"https://cdn.creatomate.com/cr-2.mp4"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Render
	require.NoError(t, db.First(&got, render.ID).Error)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "tts failed", got.ErrorMessage)
	assert.Empty(t, got.VideoURL)
}

func TestWebhookAcknowledgesUnknownRender(t *testing.T) {
	w := serve(NewHandler(newTestDB(t), "s3cret"), "/webhooks/creatomate?token=s3cret",
		`{"id":"cr-never-issued","status":"succeeded"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}
