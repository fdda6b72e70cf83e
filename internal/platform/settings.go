package platform

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/drewmudry/chatshorts-api/layout"
)

// LoadLayoutSettings reads LAYOUT_CONFIG when set and otherwise falls back
// to the embedded presets.
func LoadLayoutSettings() (*layout.Settings, error) {
	LoadEnv()
	if path := os.Getenv("LAYOUT_CONFIG"); path != "" {
		s, err := layout.LoadSettings(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return s, nil
	}
	return layout.DefaultSettings()
}

// CreatomateWebhookURL is the callback Creatomate posts finished renders
// to. It is empty when WEBHOOK_BASE_URL is unset.
func CreatomateWebhookURL() string {
	LoadEnv()
	base := strings.TrimRight(os.Getenv("WEBHOOK_BASE_URL"), "/")
	if base == "" {
		return ""
	}
	return base + "/webhooks/creatomate?token=" + url.QueryEscape(os.Getenv("WEBHOOK_SECRET"))
}
