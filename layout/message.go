package layout

import (
	"fmt"
	"strings"
)

// Sender identifies which side of the conversation a bubble belongs to.
type Sender string

const (
	SenderMe   Sender = "me"
	SenderThem Sender = "them"

	// SenderNarrator voices story pages, which have no chat side.
	SenderNarrator Sender = "narrator"
)

// MessageType is the kind of bubble content.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

// Message is one chat bubble as supplied by the caller
type Message struct {
	Sender   Sender      `json:"sender" binding:"required,oneof=me them"`
	Type     MessageType `json:"type" binding:"required,oneof=text image"`
	Text     string      `json:"text,omitempty"`
	ImageURL string      `json:"imageUrl,omitempty"`
}

func (m Message) isImage() bool {
	return m.Type == MessageImage
}

// validate rejects bubbles that would render blank or be voiced with
// nothing.
func (m Message) validate(index int) error {
	if m.isImage() {
		if strings.TrimSpace(m.ImageURL) == "" {
			return fmt.Errorf("%w: image message %d has no imageUrl", ErrEmptyMessage, index)
		}
		return nil
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: text message %d has no text", ErrEmptyMessage, index)
	}
	return nil
}
