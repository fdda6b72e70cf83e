package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SpeechText is the line read aloud for a message. Image bubbles without a
// caption are voiced with the configured placeholder phrase.
func SpeechText(m Message, t Timing) string {
	text := strings.TrimSpace(m.Text)
	if m.isImage() && text == "" {
		return t.ImagePhrase
	}
	return text
}

// EstimateSpeech returns the expected spoken length of text in seconds,
// never shorter than the audible floor.
func EstimateSpeech(text string, t Timing) float64 {
	words := len(strings.Fields(text))
	return math.Max(t.Floor, float64(words)/t.WordsPerSecond+t.FixedPad)
}

// BubbleHeight estimates the rendered height of a bubble in preset pixels.
func BubbleHeight(m Message, p Preset) float64 {
	if m.isImage() {
		return p.ImageBubbleHeight
	}
	runes := utf8.RuneCountInString(m.Text)
	lines := (runes + p.CharsPerLine - 1) / p.CharsPerLine
	if lines < 1 {
		lines = 1
	}
	return p.BubblePad + float64(lines)*p.LineHeight
}
