package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
const (
	// QueueRenderSynthesize synthesizes voice clips for a render and submits
	// it to the video renderer.
	QueueRenderSynthesize = "q_render_synthesize"
)

// ---
// TASK PAYLOADS
// ---

// RenderTaskPayload is the payload for QueueRenderSynthesize
type RenderTaskPayload struct {
	RenderID uint `json:"render_id"`
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal decodes a payload popped from a queue.
func Unmarshal(payload string, v interface{}) error {
	return json.Unmarshal([]byte(payload), v)
}
