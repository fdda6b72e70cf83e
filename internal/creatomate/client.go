package creatomate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "https://api.creatomate.com"

// Render statuses reported by Creatomate.
const (
	StatusPlanned      = "planned"
	StatusWaiting      = "waiting"
	StatusTranscribing = "transcribing"
	StatusRendering    = "rendering"
	StatusSucceeded    = "succeeded"
	StatusFailed       = "failed"
)

// Client submits and inspects template renders.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from CREATOMATE_API_KEY.
func NewClient() *Client {
	return New(os.Getenv("CREATOMATE_API_KEY"), defaultBaseURL)
}

func New(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RenderRequest renders one template with flat modifications.
type RenderRequest struct {
	TemplateID    string         `json:"template_id"`
	Modifications map[string]any `json:"modifications"`
	WebhookURL    string         `json:"webhook_url,omitempty"`
	Metadata      string         `json:"metadata,omitempty"`
}

// Render is a render job as returned by the API and posted to webhooks.
type Render struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	URL          string  `json:"url"`
	ErrorMessage string  `json:"error_message"`
	Duration     float64 `json:"duration"`
	Metadata     string  `json:"metadata"`
}

// Done reports whether the render reached a terminal status.
func (r Render) Done() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

// Render starts a render and returns the created job.
func (c *Client) Render(ctx context.Context, in RenderRequest) (*Render, error) {
	if in.TemplateID == "" {
		return nil, fmt.Errorf("template id is required")
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal render request: %w", err)
	}

	var renders []Render
	if err := c.do(ctx, http.MethodPost, "/v1/renders", bytes.NewReader(body), &renders); err != nil {
		return nil, err
	}
	if len(renders) == 0 {
		return nil, fmt.Errorf("creatomate returned no renders")
	}
	return &renders[0], nil
}

// GetRender fetches the current state of a render.
func (c *Client) GetRender(ctx context.Context, id string) (*Render, error) {
	var r Render
	if err := c.do(ctx, http.MethodGet, "/v1/renders/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("CREATOMATE_API_KEY environment variable not set")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("creatomate request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("creatomate %s %s failed (%d): %s", method, path, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse creatomate response: %w", err)
	}
	return nil
}
