package layout

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultSettingsYAML []byte

// Preset holds the pixel-space constants of one chat template.
type Preset struct {
	Name              string  `yaml:"-" json:"name"`
	ChatTop           float64 `yaml:"chat_top" json:"chat_top"`
	ChatBottom        float64 `yaml:"chat_bottom" json:"chat_bottom"`
	CharsPerLine      int     `yaml:"chars_per_line" json:"chars_per_line"`
	LineHeight        float64 `yaml:"line_height" json:"line_height"`
	BubblePad         float64 `yaml:"bubble_pad" json:"bubble_pad"`
	ImageBubbleHeight float64 `yaml:"image_bubble_height" json:"image_bubble_height"`
	GapY              float64 `yaml:"gap_y" json:"gap_y"`
}

// Validate checks that every constant is positive and the chat region is non-empty.
func (p Preset) Validate() error {
	if p.ChatTop <= 0 || p.ChatBottom <= 0 || p.CharsPerLine <= 0 || p.LineHeight <= 0 ||
		p.BubblePad <= 0 || p.ImageBubbleHeight <= 0 || p.GapY <= 0 {
		return fmt.Errorf("%w: %q has non-positive constants", ErrInvalidPreset, p.Name)
	}
	if p.ChatBottom <= p.ChatTop {
		return fmt.Errorf("%w: %q chat_bottom %.0f is not below chat_top %.0f", ErrInvalidPreset, p.Name, p.ChatBottom, p.ChatTop)
	}
	return nil
}

// Timing holds the empirically tuned speech-duration parameters.
type Timing struct {
	WordsPerSecond    float64 `yaml:"words_per_second"`
	FixedPad          float64 `yaml:"fixed_pad"`
	Floor             float64 `yaml:"floor"`
	Gap               float64 `yaml:"gap"`
	ImagePhrase       string  `yaml:"image_phrase"`
	StoryWordsPerPage int     `yaml:"story_words_per_page"`
}

func (t Timing) validate() error {
	if t.WordsPerSecond <= 0 || t.Floor <= 0 || t.FixedPad < 0 || t.Gap < 0 {
		return fmt.Errorf("%w: timing must have positive words_per_second and floor", ErrInvalidConfig)
	}
	return nil
}

// Settings is the full layout configuration file.
type Settings struct {
	SlotCapacity int               `yaml:"slot_capacity"`
	MaxDuration  float64           `yaml:"max_duration"`
	Timing       Timing            `yaml:"timing"`
	Presets      map[string]Preset `yaml:"presets"`
}

// DefaultSettings parses the embedded presets.yaml.
func DefaultSettings() (*Settings, error) {
	return parseSettings(defaultSettingsYAML)
}

// LoadSettings reads settings from path, or the embedded defaults when path is empty.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout config: %w", err)
	}
	return parseSettings(data)
}

func parseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse layout config: %w", err)
	}
	if s.SlotCapacity <= 0 || s.MaxDuration <= 0 {
		return nil, fmt.Errorf("%w: slot_capacity and max_duration must be positive", ErrInvalidConfig)
	}
	if err := s.Timing.validate(); err != nil {
		return nil, err
	}
	if len(s.Presets) == 0 {
		return nil, fmt.Errorf("%w: no presets defined", ErrInvalidConfig)
	}
	for name, p := range s.Presets {
		p.Name = name
		if err := p.Validate(); err != nil {
			return nil, err
		}
		s.Presets[name] = p
	}
	return &s, nil
}

// Preset looks up a named preset.
func (s *Settings) Preset(name string) (Preset, bool) {
	p, ok := s.Presets[name]
	return p, ok
}

// PresetNames returns the configured preset names in sorted order.
func (s *Settings) PresetNames() []string {
	names := make([]string, 0, len(s.Presets))
	for name := range s.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClampDuration limits a requested duration to the configured ceiling.
// Zero or negative requests get the ceiling itself.
func (s *Settings) ClampDuration(requested float64) float64 {
	if requested <= 0 || requested > s.MaxDuration {
		return s.MaxDuration
	}
	return requested
}

// Config builds an engine Config for the named preset.
func (s *Settings) Config(presetName string, maxDuration float64, voices map[Sender]string) (Config, error) {
	p, ok := s.Preset(presetName)
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidPreset, presetName)
	}
	return Config{
		Preset:       p,
		Timing:       s.Timing,
		MaxDuration:  s.ClampDuration(maxDuration),
		SlotCapacity: s.SlotCapacity,
		Voices:       voices,
	}, nil
}

// StoryConfig builds the budget-only Config used for story pagination.
func (s *Settings) StoryConfig(maxDuration float64) Config {
	return Config{
		Timing:       s.Timing,
		MaxDuration:  s.ClampDuration(maxDuration),
		SlotCapacity: s.SlotCapacity,
	}
}
