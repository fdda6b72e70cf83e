package layout

import (
	"fmt"
	"math"
)

// Config is everything a single Layout call depends on. It is built fresh
// per request and never mutated by the engine.
type Config struct {
	Preset       Preset
	Timing       Timing
	MaxDuration  float64
	SlotCapacity int
	Voices       map[Sender]string
}

func (c Config) validate() error {
	if err := c.Preset.Validate(); err != nil {
		return err
	}
	return c.validateBudget()
}

func (c Config) validateBudget() error {
	if err := c.Timing.validate(); err != nil {
		return err
	}
	if c.MaxDuration <= 0 {
		return fmt.Errorf("%w: max duration %.2f", ErrInvalidConfig, c.MaxDuration)
	}
	if c.SlotCapacity <= 0 {
		return fmt.Errorf("%w: slot capacity %d", ErrInvalidConfig, c.SlotCapacity)
	}
	return nil
}

// Placement is the computed position of one message on the timeline.
type Placement struct {
	Slot         int     `json:"slot"`
	MessageIndex int     `json:"message_index"`
	Page         int     `json:"page"`
	Start        float64 `json:"start"`
	Offset       float64 `json:"offset"`
	Height       float64 `json:"height"`
	Duration     float64 `json:"duration"`
	SpeechText   string  `json:"speech_text"`
	VoiceID      string  `json:"voice_id"`
}

// End is the time the bubble disappears.
func (p Placement) End() float64 {
	return p.Start + p.Duration
}

// Page is a group of bubbles visible together between two hard cuts.
type Page struct {
	Index int     `json:"index"`
	Slots []int   `json:"slots"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Result is the finalized layout.
type Result struct {
	Placements    []Placement `json:"placements"`
	Pages         []Page      `json:"pages"`
	TotalDuration float64     `json:"total_duration"`
	PlacedCount   int         `json:"placed_count"`
	Dropped       int         `json:"dropped"`
}

// HardCuts is the number of overflow-triggered page resets.
func (r *Result) HardCuts() int {
	if len(r.Pages) == 0 {
		return 0
	}
	return len(r.Pages) - 1
}

// openPage is the single page group accepting new bubbles. Members are
// indexes into the placement list; all of them are finalized together by cut.
type openPage struct {
	members []int
	start   float64
}

func (p *openPage) empty() bool {
	return len(p.members) == 0
}

func (p *openPage) admit(i int) {
	p.members = append(p.members, i)
}

// cut closes the page at time at, fixing every member's duration, and
// reopens it empty starting at the same instant.
func (p *openPage) cut(at, floor float64, placements []Placement, index int) Page {
	page := Page{Index: index, Start: p.start, End: at, Slots: make([]int, 0, len(p.members))}
	for _, i := range p.members {
		placements[i].Duration = math.Max(floor, at-placements[i].Start)
		page.Slots = append(page.Slots, placements[i].Slot)
	}
	p.members = nil
	p.start = at
	return page
}

// Layout assigns every admissible message a slot, start time and vertical
// offset, cutting to an empty chat region whenever the next bubble would
// overflow it. Messages past the time budget or slot capacity are dropped.
//
// A single bubble taller than the whole chat region is still placed on its
// own page; the cut happens before the message after it.
func Layout(messages []Message, cfg Config) (*Result, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for i, m := range messages {
		if err := m.validate(i); err != nil {
			return nil, err
		}
		if cfg.Voices[m.Sender] == "" {
			return nil, &MissingVoiceIDError{Sender: m.Sender, Index: i}
		}
	}

	p, tm := cfg.Preset, cfg.Timing
	res := &Result{
		Placements: make([]Placement, 0, min(len(messages), cfg.SlotCapacity)),
	}
	page := &openPage{}
	t, y := 0.0, p.ChatTop

	for i, m := range messages {
		if t >= cfg.MaxDuration || len(res.Placements) >= cfg.SlotCapacity {
			break
		}

		h := BubbleHeight(m, p)
		if y+h > p.ChatBottom {
			if !page.empty() {
				res.Pages = append(res.Pages, page.cut(t, tm.Floor, res.Placements, len(res.Pages)+1))
			}
			y = p.ChatTop
		}

		speech := SpeechText(m, tm)
		res.Placements = append(res.Placements, Placement{
			Slot:         len(res.Placements) + 1,
			MessageIndex: i,
			Page:         len(res.Pages) + 1,
			Start:        t,
			Offset:       y,
			Height:       h,
			SpeechText:   speech,
			VoiceID:      cfg.Voices[m.Sender],
		})
		page.admit(len(res.Placements) - 1)

		y += h + p.GapY
		t += EstimateSpeech(speech, tm) + tm.Gap
	}

	res.TotalDuration = math.Min(t, cfg.MaxDuration)
	if !page.empty() {
		res.Pages = append(res.Pages, page.cut(res.TotalDuration, tm.Floor, res.Placements, len(res.Pages)+1))
	}
	res.PlacedCount = len(res.Placements)
	res.Dropped = len(messages) - res.PlacedCount
	return res, nil
}
