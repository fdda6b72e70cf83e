package worker

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/drewmudry/chatshorts-api/internal/audio"
	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/internal/storage"
	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/drewmudry/chatshorts-api/models"
	"github.com/drewmudry/chatshorts-api/processing"
	"github.com/drewmudry/chatshorts-api/tasks"
	"golang.org/x/sync/errgroup"
)

// synthesisConcurrency bounds parallel TTS calls per render.
const synthesisConcurrency = 4

// cue is one clip to voice, keyed by the slot it plays in.
type cue struct {
	Slot    int
	VoiceID string
	Text    string
}

// clips are the uploaded voice clips of a render, keyed by slot.
type clips struct {
	URLs      map[int]string
	Durations map[int]float64
}

// HandleSynthesize processes tasks from QueueRenderSynthesize.
func (p *Processor) HandleSynthesize(ctx context.Context, payload string) error {
	var task tasks.RenderTaskPayload
	if err := tasks.Unmarshal(payload, &task); err != nil {
		return err
	}

	var render models.Render
	if err := p.DB.First(&render, task.RenderID).Error; err != nil {
		return fmt.Errorf("load render %d: %w", task.RenderID, err)
	}

	// Claim the render so a redelivered task cannot synthesize it twice.
	claim := p.DB.Model(&models.Render{}).
		Where("id = ? AND status = ?", render.ID, models.StatusPending).
		Update("status", models.StatusSynthesizing)
	if claim.Error != nil {
		return fmt.Errorf("claim render %d: %w", render.ID, claim.Error)
	}
	if claim.RowsAffected == 0 {
		log.Printf("Render %d already %s, skipping", render.ID, render.Status)
		return nil
	}
	render.Status = models.StatusSynthesizing

	log.Printf("Synthesizing render %d (%s)", render.ID, render.Kind)

	req, err := p.compose(ctx, render)
	if err != nil {
		p.fail(&render, err)
		return err
	}

	job, err := p.Video.Render(ctx, req)
	if err != nil {
		p.fail(&render, err)
		return err
	}

	if err := p.DB.Model(&render).Updates(map[string]interface{}{
		"status":      models.StatusRendering,
		"external_id": job.ID,
	}).Error; err != nil {
		return err
	}
	log.Printf("Render %d submitted as %s", render.ID, job.ID)
	return nil
}

// compose replays the layout for a stored render, voices every slot and
// builds the template request. It touches no database state.
func (p *Processor) compose(ctx context.Context, render models.Render) (creatomate.RenderRequest, error) {
	switch render.Kind {
	case models.KindFakeText:
		return p.composeFakeText(ctx, render)
	case models.KindStory:
		return p.composeStory(ctx, render)
	default:
		return creatomate.RenderRequest{}, fmt.Errorf("unknown render kind %q", render.Kind)
	}
}

func (p *Processor) composeFakeText(ctx context.Context, render models.Render) (creatomate.RenderRequest, error) {
	var in models.FakeTextInput
	if err := render.DecodeInput(&in); err != nil {
		return creatomate.RenderRequest{}, err
	}
	res, cfg, err := processing.PlanFakeText(p.Settings, in)
	if err != nil {
		return creatomate.RenderRequest{}, fmt.Errorf("layout: %w", err)
	}

	cues := make([]cue, 0, len(res.Placements))
	for _, pl := range res.Placements {
		cues = append(cues, cue{Slot: pl.Slot, VoiceID: pl.VoiceID, Text: pl.SpeechText})
	}
	c, err := p.synthesize(ctx, render.ID, cues)
	if err != nil {
		return creatomate.RenderRequest{}, err
	}

	mods := layout.Modifications(res, in.Messages, layout.Assets{
		AudioURLs:      c.URLs,
		AudioDurations: c.Durations,
		ContactName:    in.ContactName,
		AvatarURL:      in.AvatarURL,
	}, cfg.SlotCapacity)
	return p.renderRequest(p.Templates.FakeText, render, mods)
}

func (p *Processor) composeStory(ctx context.Context, render models.Render) (creatomate.RenderRequest, error) {
	var in models.StoryInput
	if err := render.DecodeInput(&in); err != nil {
		return creatomate.RenderRequest{}, err
	}
	res, cfg, err := processing.PlanStory(p.Settings, in)
	if err != nil {
		return creatomate.RenderRequest{}, fmt.Errorf("paginate: %w", err)
	}

	cues := make([]cue, 0, len(res.Pages))
	for _, pg := range res.Pages {
		cues = append(cues, cue{Slot: pg.Slot, VoiceID: pg.VoiceID, Text: pg.Text})
	}
	c, err := p.synthesize(ctx, render.ID, cues)
	if err != nil {
		return creatomate.RenderRequest{}, err
	}

	mods := layout.StoryModifications(res, c.URLs, c.Durations, cfg.SlotCapacity)
	return p.renderRequest(p.Templates.Story, render, mods)
}

func (p *Processor) renderRequest(templateID string, render models.Render, mods map[string]any) (creatomate.RenderRequest, error) {
	if templateID == "" {
		return creatomate.RenderRequest{}, fmt.Errorf("no template configured for %s renders", render.Kind)
	}
	return creatomate.RenderRequest{
		TemplateID:    templateID,
		Modifications: mods,
		WebhookURL:    p.WebhookURL,
		Metadata:      strconv.FormatUint(uint64(render.ID), 10),
	}, nil
}

// synthesize voices and uploads every cue, at most synthesisConcurrency at
// a time. The first failure cancels the rest.
func (p *Processor) synthesize(ctx context.Context, renderID uint, cues []cue) (clips, error) {
	out := clips{
		URLs:      make(map[int]string, len(cues)),
		Durations: make(map[int]float64, len(cues)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(synthesisConcurrency)
	for _, c := range cues {
		c := c
		g.Go(func() error {
			data, err := p.TTS.Synthesize(gctx, c.VoiceID, c.Text)
			if err != nil {
				return fmt.Errorf("synthesize slot %d: %w", c.Slot, err)
			}
			url, err := p.Store.Upload(gctx, storage.AudioKey(renderID, c.Slot), "audio/mpeg", data)
			if err != nil {
				return fmt.Errorf("upload slot %d: %w", c.Slot, err)
			}

			d := audio.MP3Duration(data)
			if d == 0 {
				log.Printf("Render %d slot %d: could not measure clip duration", renderID, c.Slot)
			}

			mu.Lock()
			out.URLs[c.Slot] = url
			out.Durations[c.Slot] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return clips{}, err
	}
	return out, nil
}

func (p *Processor) fail(render *models.Render, cause error) {
	log.Printf("Render %d failed: %v", render.ID, cause)
	p.DB.Model(render).Updates(map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": cause.Error(),
	})
}
