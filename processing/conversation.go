package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/drewmudry/chatshorts-api/layout"
)

// MaxGeneratedMessages caps a single generation request.
const MaxGeneratedMessages = 40

var ErrInvalidMessageCount = errors.New("message count out of range")

// ConversationResponse is the structured output for a generated chat.
type ConversationResponse struct {
	ContactName string             `json:"contact_name" jsonschema_description:"The display name of the other person, as it would appear at the top of a phone chat."`
	Messages    []ConversationLine `json:"messages" jsonschema_description:"The chat in order, oldest first."`
}

type ConversationLine struct {
	Sender string `json:"sender" jsonschema:"enum=me,enum=them" jsonschema_description:"Who sends the message. 'me' is the phone owner."`
	Text   string `json:"text" jsonschema_description:"The message text. Short and casual, like a real text message. No emojis-only lines."`
}

var conversationSchema = GenerateSchema[ConversationResponse]()

// Conversation is a generated script ready for layout.
type Conversation struct {
	ContactName string           `json:"contact_name"`
	Messages    []layout.Message `json:"messages"`
}

// GenerateConversation writes a text-message exchange about topic. It only
// produces the script; nothing is laid out or rendered.
func GenerateConversation(ctx context.Context, topic string, count int) (*Conversation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if count < 1 || count > MaxGeneratedMessages {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidMessageCount, count, MaxGeneratedMessages)
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are writing a viral "fake text" conversation for a short vertical video.

Topic: %s

Write exactly %d text messages between "me" (the phone owner) and "them" (the contact).
The conversation should:
- Hook the viewer in the first two messages
- Build tension or humor and end on a twist or punchline
- Keep each message under 120 characters
- Sound like real people texting`, topic, count)

	resp, err := getStructuredResponse[ConversationResponse](ctx, client, "fake_text_conversation", prompt, conversationSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate conversation: %w", err)
	}

	conv := toConversation(resp, count)
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("LLM returned no messages")
	}
	return conv, nil
}

// toConversation normalizes model output: unknown senders and blank lines
// are dropped and the result is capped at count.
func toConversation(resp *ConversationResponse, count int) *Conversation {
	conv := &Conversation{
		ContactName: strings.TrimSpace(resp.ContactName),
		Messages:    make([]layout.Message, 0, len(resp.Messages)),
	}
	for _, line := range resp.Messages {
		if len(conv.Messages) == count {
			break
		}
		sender := layout.Sender(strings.ToLower(strings.TrimSpace(line.Sender)))
		text := strings.TrimSpace(line.Text)
		if text == "" || (sender != layout.SenderMe && sender != layout.SenderThem) {
			continue
		}
		conv.Messages = append(conv.Messages, layout.Message{
			Sender: sender,
			Type:   layout.MessageText,
			Text:   text,
		})
	}
	return conv
}
