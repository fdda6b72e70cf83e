package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifications(t *testing.T) {
	msgs := []Message{
		text(SenderMe, "hi"),
		{Sender: SenderThem, Type: MessageImage, ImageURL: "https://cdn.example.com/cat.png"},
	}
	res, err := Layout(msgs, testConfig())
	require.NoError(t, err)

	mods := Modifications(res, msgs, Assets{
		AudioURLs:      map[int]string{1: "https://s3.example.com/1.mp3", 2: "https://s3.example.com/2.mp3"},
		AudioDurations: map[int]float64{1: 0.4, 2: 60},
		ContactName:    "Mom",
	}, 4)

	assert.Equal(t, "Mom", mods["Contact.text"])
	assert.NotContains(t, mods, "Avatar.source")
	assert.Equal(t, seconds(res.TotalDuration), mods["duration"])

	assert.Equal(t, true, mods["Bubble-1.visible"])
	assert.Equal(t, 0.0, mods["Bubble-1.time"])
	assert.Equal(t, "420 px", mods["Bubble-1.y"])
	assert.Equal(t, true, mods["Me-1.visible"])
	assert.Equal(t, false, mods["Them-1.visible"])
	assert.Equal(t, "hi", mods["Text-1.text"])
	assert.Equal(t, false, mods["Image-1.visible"])
	assert.Equal(t, "https://s3.example.com/1.mp3", mods["Audio-1.source"])
	assert.Equal(t, 0.4, mods["Audio-1.duration"])
	assert.Equal(t, seconds(res.Placements[1].Duration), mods["Audio-2.duration"])

	assert.Equal(t, true, mods["Them-2.visible"])
	assert.Equal(t, false, mods["Text-2.visible"])
	assert.Equal(t, true, mods["Image-2.visible"])
	assert.Equal(t, "https://cdn.example.com/cat.png", mods["Image-2.source"])
	assert.Equal(t, "516 px", mods["Bubble-2.y"])

	assert.Equal(t, false, mods["Bubble-3.visible"])
	assert.Equal(t, false, mods["Bubble-4.visible"])
	assert.NotContains(t, mods, "Bubble-5.visible")
}

func TestModificationsSkipsMissingAudio(t *testing.T) {
	msgs := []Message{text(SenderMe, "hi")}
	res, err := Layout(msgs, testConfig())
	require.NoError(t, err)

	mods := Modifications(res, msgs, Assets{}, 1)
	assert.NotContains(t, mods, "Audio-1.source")
	assert.NotContains(t, mods, "Audio-1.duration")
	assert.NotContains(t, mods, "Contact.text")
}

func TestModificationsTrimsCaptions(t *testing.T) {
	msgs := []Message{
		{Sender: SenderMe, Type: MessageImage, ImageURL: "https://cdn.example.com/a.png", Text: "  "},
		text(SenderThem, "  nice  "),
	}
	res, err := Layout(msgs, testConfig())
	require.NoError(t, err)

	mods := Modifications(res, msgs, Assets{}, 2)
	assert.Equal(t, false, mods["Text-1.visible"])
	assert.NotContains(t, mods, "Text-1.text")
	assert.Equal(t, "nice", mods["Text-2.text"])
}
