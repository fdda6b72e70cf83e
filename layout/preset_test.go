package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)

	assert.Equal(t, 60, s.SlotCapacity)
	assert.Equal(t, 90.0, s.MaxDuration)
	assert.Equal(t, []string{"instagram", "iphone", "whatsapp"}, s.PresetNames())

	iphone, ok := s.Preset("iphone")
	require.True(t, ok)
	assert.Equal(t, "iphone", iphone.Name)
	assert.Equal(t, 660.0, iphone.ChatBottom-iphone.ChatTop)
}

func TestClampDuration(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)

	assert.Equal(t, 90.0, s.ClampDuration(0))
	assert.Equal(t, 90.0, s.ClampDuration(240))
	assert.Equal(t, 30.0, s.ClampDuration(30))
}

func TestSettingsConfig(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)

	voices := map[Sender]string{SenderMe: "a", SenderThem: "b"}
	cfg, err := s.Config("whatsapp", 120, voices)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", cfg.Preset.Name)
	assert.Equal(t, 90.0, cfg.MaxDuration)
	assert.Equal(t, 60, cfg.SlotCapacity)

	_, err = s.Config("telegram", 30, voices)
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestLoadSettingsFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
slot_capacity: 10
max_duration: 30
timing:
  words_per_second: 3
  fixed_pad: 0.1
  floor: 0.5
  gap: 0.2
  image_phrase: "photo"
presets:
  small:
    chat_top: 100
    chat_bottom: 400
    chars_per_line: 20
    line_height: 30
    bubble_pad: 20
    image_bubble_height: 200
    gap_y: 10
`), 0o644))

	s, err := LoadSettings(good)
	require.NoError(t, err)
	assert.Equal(t, 10, s.SlotCapacity)
	p, ok := s.Preset("small")
	require.True(t, ok)
	assert.Equal(t, 300.0, p.ChatBottom-p.ChatTop)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
slot_capacity: 10
max_duration: 30
timing:
  words_per_second: 3
  floor: 0.5
presets:
  broken:
    chat_top: 400
    chat_bottom: 100
    chars_per_line: 20
    line_height: 30
    bubble_pad: 20
    image_bubble_height: 200
    gap_y: 10
`), 0o644))

	_, err = LoadSettings(bad)
	assert.ErrorIs(t, err, ErrInvalidPreset)

	_, err = LoadSettings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestStoryConfig(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)

	cfg := s.StoryConfig(45)
	assert.Equal(t, 45.0, cfg.MaxDuration)
	assert.Equal(t, s.Timing, cfg.Timing)

	res, err := PaginateStory("AITA", "for leaving early", "narrator-voice", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.PlacedCount)
}
