package renders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/drewmudry/chatshorts-api/models"
	"github.com/drewmudry/chatshorts-api/processing"
	"github.com/drewmudry/chatshorts-api/tasks"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Queue accepts background tasks.
type Queue interface {
	Enqueue(ctx context.Context, queueName string, payload interface{}) error
}

type Handler struct {
	DB       *gorm.DB
	Queue    Queue
	Settings *layout.Settings
}

func NewHandler(db *gorm.DB, queue Queue, settings *layout.Settings) *Handler {
	return &Handler{DB: db, Queue: queue, Settings: settings}
}

type FakeTextRequest struct {
	Messages    []layout.Message         `json:"messages" binding:"dive"`
	Preset      string                   `json:"preset"`
	Voices      map[layout.Sender]string `json:"voices"`
	MaxDuration float64                  `json:"max_duration" binding:"gte=0"`
	ContactName string                   `json:"contact_name" binding:"max=64"`
	AvatarURL   string                   `json:"avatar_url" binding:"omitempty,url"`
}

type FakeTextResponse struct {
	RenderID      uint          `json:"render_id"`
	Status        string        `json:"status"`
	TotalDuration float64       `json:"total_duration"`
	PlacedCount   int           `json:"placed_count"`
	Dropped       int           `json:"dropped"`
	HardCuts      int           `json:"hard_cuts"`
	Pages         []layout.Page `json:"pages"`
}

type StoryRequest struct {
	Title       string  `json:"title" binding:"max=300"`
	Story       string  `json:"story"`
	Voice       string  `json:"voice"`
	MaxDuration float64 `json:"max_duration" binding:"gte=0"`
}

type StoryResponse struct {
	RenderID      uint               `json:"render_id"`
	Status        string             `json:"status"`
	TotalDuration float64            `json:"total_duration"`
	PlacedCount   int                `json:"placed_count"`
	Dropped       int                `json:"dropped"`
	Pages         []layout.StoryPage `json:"pages"`
}

type GenerateRequest struct {
	Topic        string `json:"topic" binding:"required"`
	MessageCount int    `json:"message_count" binding:"required,min=1,max=40"`
}

// layoutError writes the HTTP response for a failed layout call.
func layoutError(c *gin.Context, err error) {
	if layout.IsPrecondition(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("Layout error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lay out video"})
}

// CreateFakeText lays out the chat right away so bad input fails before
// anything is queued, then hands synthesis and rendering to the worker.
func (h *Handler) CreateFakeText(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req FakeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := models.FakeTextInput{
		Messages:    req.Messages,
		Preset:      req.Preset,
		Voices:      req.Voices,
		MaxDuration: req.MaxDuration,
		ContactName: req.ContactName,
		AvatarURL:   req.AvatarURL,
	}
	res, _, err := processing.PlanFakeText(h.Settings, input)
	if err != nil {
		layoutError(c, err)
		return
	}

	render := models.Render{
		UserID:        userID,
		Kind:          models.KindFakeText,
		Status:        models.StatusPending,
		TotalDuration: res.TotalDuration,
		PlacedCount:   res.PlacedCount,
		Dropped:       res.Dropped,
	}
	if !h.createAndEnqueue(c, &render, input) {
		return
	}

	c.JSON(http.StatusAccepted, FakeTextResponse{
		RenderID:      render.ID,
		Status:        render.Status,
		TotalDuration: res.TotalDuration,
		PlacedCount:   res.PlacedCount,
		Dropped:       res.Dropped,
		HardCuts:      res.HardCuts(),
		Pages:         res.Pages,
	})
}

// CreateRedditVideo paginates a narrated story and queues it for rendering.
func (h *Handler) CreateRedditVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := models.StoryInput{
		Title:       req.Title,
		Story:       req.Story,
		Voice:       req.Voice,
		MaxDuration: req.MaxDuration,
	}
	res, _, err := processing.PlanStory(h.Settings, input)
	if err != nil {
		layoutError(c, err)
		return
	}

	render := models.Render{
		UserID:        userID,
		Kind:          models.KindStory,
		Status:        models.StatusPending,
		TotalDuration: res.TotalDuration,
		PlacedCount:   res.PlacedCount,
		Dropped:       res.Dropped,
	}
	if !h.createAndEnqueue(c, &render, input) {
		return
	}

	c.JSON(http.StatusAccepted, StoryResponse{
		RenderID:      render.ID,
		Status:        render.Status,
		TotalDuration: res.TotalDuration,
		PlacedCount:   res.PlacedCount,
		Dropped:       res.Dropped,
		Pages:         res.Pages,
	})
}

func (h *Handler) createAndEnqueue(c *gin.Context, render *models.Render, input interface{}) bool {
	if err := render.SetInput(input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode request"})
		return false
	}
	if err := h.DB.Create(render).Error; err != nil {
		log.Printf("Error creating render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create render"})
		return false
	}

	task := tasks.RenderTaskPayload{RenderID: render.ID}
	if err := h.Queue.Enqueue(c.Request.Context(), tasks.QueueRenderSynthesize, task); err != nil {
		log.Printf("Error queueing render %d: %v", render.ID, err)
		h.DB.Model(render).Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": "failed to queue render",
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue render"})
		return false
	}

	log.Printf("Queued %s render %d for user %d", render.Kind, render.ID, render.UserID)
	return true
}

// GenerateFakeText drafts a conversation with OpenAI. Nothing is saved.
func (h *Handler) GenerateFakeText(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := processing.GenerateConversation(c.Request.Context(), req.Topic, req.MessageCount)
	if err != nil {
		if errors.Is(err, processing.ErrInvalidMessageCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error generating conversation: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate conversation"})
		return
	}

	c.JSON(http.StatusOK, conv)
}

// GetPresets lists the layout presets and limits clients can choose from.
func (h *Handler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"presets":       h.Settings.PresetNames(),
		"default":       processing.DefaultPreset,
		"slot_capacity": h.Settings.SlotCapacity,
		"max_duration":  h.Settings.MaxDuration,
	})
}

func (h *Handler) GetUserRenders(c *gin.Context) {
	userID := c.GetUint("user_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	var renders []models.Render
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&renders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve renders"})
		return
	}

	c.JSON(http.StatusOK, renders)
}

func (h *Handler) GetRender(c *gin.Context) {
	renderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid render ID"})
		return
	}

	userID := c.GetUint("user_id")

	var render models.Render
	if err := h.DB.First(&render, "id = ? AND user_id = ?", renderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Render not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, render)
}
