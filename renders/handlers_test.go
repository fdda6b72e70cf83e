package renders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires handlers without a database. Every request below is
// rejected before the handler would touch it.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	settings, err := layout.DefaultSettings()
	require.NoError(t, err)

	h := NewHandler(nil, nil, settings)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})
	router.POST("/fake-text", h.CreateFakeText)
	router.POST("/fake-text/generate", h.GenerateFakeText)
	router.POST("/reddit-video", h.CreateRedditVideo)
	router.GET("/presets", h.GetPresets)
	router.GET("/renders", h.GetUserRenders)
	router.GET("/renders/:id", h.GetRender)
	return router
}

func do(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestCreateFakeTextRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "no messages",
			body:    `{"messages":[],"voices":{"me":"a","them":"b"}}`,
			wantErr: "no messages",
		},
		{
			name:    "missing voice",
			body:    `{"messages":[{"sender":"me","type":"text","text":"hi"},{"sender":"them","type":"text","text":"yo"}],"voices":{"me":"a"}}`,
			wantErr: `missing voice id for sender "them" (message 1)`,
		},
		{
			name:    "unknown preset",
			body:    `{"messages":[{"sender":"me","type":"text","text":"hi"}],"preset":"telegram","voices":{"me":"a"}}`,
			wantErr: "unknown preset",
		},
		{
			name:    "blank text",
			body:    `{"messages":[{"sender":"me","type":"text","text":"hi"},{"sender":"them","type":"text","text":"   "}],"voices":{"me":"a","them":"b"}}`,
			wantErr: "text message 1 has no text",
		},
		{
			name:    "image without url",
			body:    `{"messages":[{"sender":"me","type":"image"}],"voices":{"me":"a"}}`,
			wantErr: "image message 0 has no imageUrl",
		},
		{
			name:    "bad sender",
			body:    `{"messages":[{"sender":"narrator","type":"text","text":"hi"}],"voices":{"me":"a"}}`,
			wantErr: "Sender",
		},
		{
			name:    "negative duration",
			body:    `{"messages":[{"sender":"me","type":"text","text":"hi"}],"voices":{"me":"a"},"max_duration":-5}`,
			wantErr: "MaxDuration",
		},
		{
			name:    "malformed json",
			body:    `{"messages":`,
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/fake-text", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorBody(t, w), tt.wantErr)
		})
	}
}

func TestCreateRedditVideoRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/reddit-video", `{"title":"  ","story":"","voice":"v"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "empty story")

	w = do(router, http.MethodPost, "/reddit-video", `{"title":"AITA","story":"for this","voice":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "missing voice id")
}

func TestGenerateFakeTextValidation(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/fake-text/generate", `{"message_count":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/fake-text/generate", `{"topic":"exes","message_count":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPresets(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"presets": ["instagram", "iphone", "whatsapp"],
		"default": "iphone",
		"slot_capacity": 60,
		"max_duration": 90
	}`, w.Body.String())
}

func TestRenderLookupValidation(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/renders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/renders?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
