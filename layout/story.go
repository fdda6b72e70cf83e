package layout

import (
	"math"
	"strings"
)

const defaultStoryWordsPerPage = 12

// StoryPage is one caption card of a narrated story video.
type StoryPage struct {
	Slot     int     `json:"slot"`
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	VoiceID  string  `json:"voice_id"`
}

// StoryResult is a paginated narration.
type StoryResult struct {
	Pages         []StoryPage `json:"pages"`
	TotalDuration float64     `json:"total_duration"`
	PlacedCount   int         `json:"placed_count"`
	Dropped       int         `json:"dropped"`
}

// chunkWords splits text into runs of at most size words.
func chunkWords(text string, size int) []string {
	words := strings.Fields(text)
	var chunks []string
	for len(words) > 0 {
		n := min(size, len(words))
		chunks = append(chunks, strings.Join(words[:n], " "))
		words = words[n:]
	}
	return chunks
}

// PaginateStory splits a title card plus story body into back-to-back
// caption pages, each timed by its estimated narration. Pages past the
// duration ceiling or slot capacity are dropped. The preset in cfg is not
// used.
func PaginateStory(title, story, voiceID string, cfg Config) (*StoryResult, error) {
	title, story = strings.TrimSpace(title), strings.TrimSpace(story)
	if title == "" && story == "" {
		return nil, ErrEmptyStory
	}
	if err := cfg.validateBudget(); err != nil {
		return nil, err
	}
	if voiceID == "" {
		return nil, &MissingVoiceIDError{Sender: SenderNarrator}
	}

	size := cfg.Timing.StoryWordsPerPage
	if size <= 0 {
		size = defaultStoryWordsPerPage
	}
	var chunks []string
	if title != "" {
		chunks = append(chunks, strings.Join(strings.Fields(title), " "))
	}
	chunks = append(chunks, chunkWords(story, size)...)

	res := &StoryResult{}
	t := 0.0
	for _, text := range chunks {
		if t >= cfg.MaxDuration || len(res.Pages) >= cfg.SlotCapacity {
			break
		}
		d := EstimateSpeech(text, cfg.Timing) + cfg.Timing.Gap
		res.Pages = append(res.Pages, StoryPage{
			Slot:     len(res.Pages) + 1,
			Text:     text,
			Start:    t,
			Duration: d,
			VoiceID:  voiceID,
		})
		t += d
	}

	res.TotalDuration = math.Min(t, cfg.MaxDuration)
	last := &res.Pages[len(res.Pages)-1]
	last.Duration = math.Max(cfg.Timing.Floor, res.TotalDuration-last.Start)
	res.PlacedCount = len(res.Pages)
	res.Dropped = len(chunks) - res.PlacedCount
	return res, nil
}

// StoryModifications flattens a paginated story into template overrides.
// Measured clip durations are clamped to their page like chat audio.
func StoryModifications(res *StoryResult, audioURLs map[int]string, audioDurations map[int]float64, capacity int) map[string]any {
	mods := map[string]any{
		"duration": seconds(res.TotalDuration),
	}
	for _, pg := range res.Pages {
		n := pg.Slot
		mods[slotKey("Page", n, "visible")] = true
		mods[slotKey("Page", n, "text")] = pg.Text
		mods[slotKey("Page", n, "time")] = seconds(pg.Start)
		mods[slotKey("Page", n, "duration")] = seconds(pg.Duration)
		if url, ok := audioURLs[n]; ok {
			mods[slotKey("Audio", n, "source")] = url
			mods[slotKey("Audio", n, "time")] = seconds(pg.Start)
			if d := audioDurations[n]; d > 0 {
				mods[slotKey("Audio", n, "duration")] = seconds(min(d, pg.Duration))
			}
		}
	}
	for n := res.PlacedCount + 1; n <= capacity; n++ {
		mods[slotKey("Page", n, "visible")] = false
	}
	return mods
}
