package processing

import (
	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/drewmudry/chatshorts-api/models"
)

// PlanFakeText lays out a stored fake_text request. The API calls it to fail
// fast and report the timeline; the worker calls it again on the same input
// and gets the same placements back.
func PlanFakeText(settings *layout.Settings, in models.FakeTextInput) (*layout.Result, layout.Config, error) {
	preset := in.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	cfg, err := settings.Config(preset, in.MaxDuration, in.Voices)
	if err != nil {
		return nil, cfg, err
	}
	res, err := layout.Layout(in.Messages, cfg)
	return res, cfg, err
}

// PlanStory paginates a stored reddit request.
func PlanStory(settings *layout.Settings, in models.StoryInput) (*layout.StoryResult, layout.Config, error) {
	cfg := settings.StoryConfig(in.MaxDuration)
	res, err := layout.PaginateStory(in.Title, in.Story, in.Voice, cfg)
	return res, cfg, err
}

// DefaultPreset is used when a request names none.
const DefaultPreset = "iphone"
