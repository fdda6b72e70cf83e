package models

import (
	"time"
)

// Render kinds
const (
	KindFakeText = "fake_text"
	KindStory    = "reddit"
)

// Render statuses
const (
	StatusPending      = "pending"
	StatusSynthesizing = "synthesizing"
	StatusRendering    = "rendering"
	StatusSucceeded    = "succeeded"
	StatusFailed       = "failed"
)

type Render struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Kind          string    `gorm:"size:32;not null" json:"kind"`
	Status        string    `gorm:"size:32;default:'pending';index" json:"status"`
	Input         string    `gorm:"type:jsonb" json:"-"`
	TotalDuration float64   `json:"total_duration"`
	PlacedCount   int       `json:"placed_count"`
	Dropped       int       `json:"dropped"`
	ExternalID    string    `gorm:"size:64;index" json:"external_id,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`
	ErrorMessage  string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Render) TableName() string {
	return "renders"
}

// Terminal reports whether the render will not change state again.
func (r Render) Terminal() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}
