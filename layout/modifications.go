package layout

import (
	"fmt"
	"math"
	"strings"
)

// Assets are the render inputs that only exist once audio has been
// synthesized and uploaded. AudioURLs and AudioDurations are keyed by slot.
type Assets struct {
	AudioURLs      map[int]string
	AudioDurations map[int]float64
	ContactName    string
	AvatarURL      string
}

func slotKey(element string, slot int, property string) string {
	return fmt.Sprintf("%s-%d.%s", element, slot, property)
}

func seconds(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Modifications flattens a chat layout into the key/value overrides the
// chat template understands. Slots past the placed count up to capacity
// are hidden.
func Modifications(res *Result, messages []Message, assets Assets, capacity int) map[string]any {
	mods := map[string]any{
		"duration": seconds(res.TotalDuration),
	}
	if assets.ContactName != "" {
		mods["Contact.text"] = assets.ContactName
	}
	if assets.AvatarURL != "" {
		mods["Avatar.source"] = assets.AvatarURL
	}

	for _, pl := range res.Placements {
		m := messages[pl.MessageIndex]
		n := pl.Slot

		mods[slotKey("Bubble", n, "visible")] = true
		mods[slotKey("Bubble", n, "time")] = seconds(pl.Start)
		mods[slotKey("Bubble", n, "duration")] = seconds(pl.Duration)
		mods[slotKey("Bubble", n, "y")] = fmt.Sprintf("%.0f px", pl.Offset)
		mods[slotKey("Me", n, "visible")] = m.Sender == SenderMe
		mods[slotKey("Them", n, "visible")] = m.Sender == SenderThem

		caption := strings.TrimSpace(m.Text)
		mods[slotKey("Text", n, "visible")] = caption != ""
		if caption != "" {
			mods[slotKey("Text", n, "text")] = caption
		}
		mods[slotKey("Image", n, "visible")] = m.isImage()
		if m.isImage() {
			mods[slotKey("Image", n, "source")] = m.ImageURL
		}

		if url, ok := assets.AudioURLs[n]; ok {
			mods[slotKey("Audio", n, "source")] = url
			mods[slotKey("Audio", n, "time")] = seconds(pl.Start)
			// clips never play past their bubble
			if d := assets.AudioDurations[n]; d > 0 {
				mods[slotKey("Audio", n, "duration")] = seconds(min(d, pl.Duration))
			}
		}
	}

	for n := res.PlacedCount + 1; n <= capacity; n++ {
		mods[slotKey("Bubble", n, "visible")] = false
	}
	return mods
}
