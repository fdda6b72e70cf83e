package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMessages is returned when Layout is called with an empty script.
	ErrNoMessages = errors.New("layout: no messages")

	ErrInvalidPreset = errors.New("layout: invalid preset")
	ErrInvalidConfig = errors.New("layout: invalid config")
	ErrEmptyStory    = errors.New("layout: empty story")

	// ErrEmptyMessage is returned for a text bubble with no words or an
	// image bubble with no source.
	ErrEmptyMessage = errors.New("layout: empty message")
)

// MissingVoiceIDError reports a message whose sender has no voice mapped.
type MissingVoiceIDError struct {
	Sender Sender
	Index  int
}

func (e *MissingVoiceIDError) Error() string {
	return fmt.Sprintf("layout: missing voice id for sender %q (message %d)", e.Sender, e.Index)
}

// IsPrecondition reports whether err is one of the fatal input failures
// raised before any placement is made.
func IsPrecondition(err error) bool {
	var missing *MissingVoiceIDError
	return errors.Is(err, ErrNoMessages) ||
		errors.Is(err, ErrInvalidPreset) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrEmptyStory) ||
		errors.Is(err, ErrEmptyMessage) ||
		errors.As(err, &missing)
}
