package models

import (
	"encoding/json"
	"fmt"

	"github.com/drewmudry/chatshorts-api/layout"
)

// FakeTextInput is the stored request behind a fake_text render.
type FakeTextInput struct {
	Messages    []layout.Message         `json:"messages"`
	Preset      string                   `json:"preset"`
	Voices      map[layout.Sender]string `json:"voices"`
	MaxDuration float64                  `json:"max_duration"`
	ContactName string                   `json:"contact_name"`
	AvatarURL   string                   `json:"avatar_url"`
}

// StoryInput is the stored request behind a reddit render.
type StoryInput struct {
	Title       string  `json:"title"`
	Story       string  `json:"story"`
	Voice       string  `json:"voice"`
	MaxDuration float64 `json:"max_duration"`
}

// SetInput stores v as the render's JSON input.
func (r *Render) SetInput(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode render input: %w", err)
	}
	r.Input = string(b)
	return nil
}

// DecodeInput reads the stored input into v.
func (r *Render) DecodeInput(v interface{}) error {
	if r.Input == "" {
		return fmt.Errorf("render %d has no input", r.ID)
	}
	if err := json.Unmarshal([]byte(r.Input), v); err != nil {
		return fmt.Errorf("decode render %d input: %w", r.ID, err)
	}
	return nil
}
