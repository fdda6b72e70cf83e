package webhooks

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/worker"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Secret string
}

func NewHandler(db *gorm.DB, secret string) *Handler {
	return &Handler{DB: db, Secret: secret}
}

// authorized checks the shared token Creatomate echoes back in the
// webhook URL query.
func (h *Handler) authorized(c *gin.Context) bool {
	if h.Secret == "" {
		return false
	}
	token := c.Query("token")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
}

// HandleCreatomateWebhook records render completion posted by Creatomate.
func (h *Handler) HandleCreatomateWebhook(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook token"})
		return
	}

	var remote creatomate.Render
	if err := c.ShouldBindJSON(&remote); err != nil || remote.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	log.Printf("Creatomate webhook: render %s is %s", remote.ID, remote.Status)

	render, err := worker.ApplyRemote(h.DB, remote)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Acknowledge so Creatomate stops retrying a render we never issued.
			log.Printf("No render found for Creatomate render %s", remote.ID)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("Error applying Creatomate webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update render"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "render_id": render.ID})
}
