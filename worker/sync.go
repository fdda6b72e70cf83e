package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/models"
	"gorm.io/gorm"
)

// staleAfter is how long a render may sit in rendering before polling
// asks Creatomate about it.
const staleAfter = 2 * time.Minute

// RenderUpdates maps a remote render state onto columns of the local
// render. It returns nil while the remote render is still in flight.
func RenderUpdates(remote creatomate.Render) map[string]interface{} {
	switch remote.Status {
	case creatomate.StatusSucceeded:
		return map[string]interface{}{
			"status":        models.StatusSucceeded,
			"video_url":     remote.URL,
			"error_message": "",
		}
	case creatomate.StatusFailed:
		msg := remote.ErrorMessage
		if msg == "" {
			msg = "render failed"
		}
		return map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": msg,
		}
	default:
		return nil
	}
}

// ApplyRemote records a remote render state on the matching local render.
// Terminal renders are left untouched.
func ApplyRemote(db *gorm.DB, remote creatomate.Render) (*models.Render, error) {
	var render models.Render
	if err := db.Where("external_id = ?", remote.ID).First(&render).Error; err != nil {
		return nil, fmt.Errorf("find render for %s: %w", remote.ID, err)
	}
	if render.Terminal() {
		return &render, nil
	}

	updates := RenderUpdates(remote)
	if updates == nil {
		return &render, nil
	}
	err := db.Model(&render).
		Where("status NOT IN ?", []string{models.StatusSucceeded, models.StatusFailed}).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("update render %d: %w", render.ID, err)
	}
	log.Printf("Render %d is now %s", render.ID, updates["status"])
	return &render, nil
}

// PollRendering asks Creatomate about renders that have not heard back from
// their webhook in a while.
func (p *Processor) PollRendering(ctx context.Context) error {
	var stale []models.Render
	err := p.DB.Where("status = ? AND updated_at < ?", models.StatusRendering, time.Now().Add(-staleAfter)).
		Order("updated_at").
		Limit(50).
		Find(&stale).Error
	if err != nil {
		return fmt.Errorf("query rendering renders: %w", err)
	}

	for _, r := range stale {
		if r.ExternalID == "" {
			continue
		}
		remote, err := p.Video.GetRender(ctx, r.ExternalID)
		if err != nil {
			log.Printf("Error polling render %d: %v", r.ID, err)
			continue
		}
		if _, err := ApplyRemote(p.DB, *remote); err != nil {
			log.Printf("Error applying render %d: %v", r.ID, err)
		}
	}
	return nil
}
