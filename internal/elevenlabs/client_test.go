package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-123", r.URL.Path)
		assert.Equal(t, outputFormat, r.URL.Query().Get("output_format"))
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))

		var body speechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello there", body.Text)
		assert.Equal(t, defaultModelID, body.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	}))
	defer srv.Close()

	audio, err := New("secret", srv.URL).Synthesize(context.Background(), "voice-123", "hello there")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90, 0x00}, audio)
}

func TestSynthesizeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"voice_not_found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New("secret", srv.URL).Synthesize(context.Background(), "nope", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice_not_found")

	_, err = New("", srv.URL).Synthesize(context.Background(), "v", "hi")
	assert.ErrorContains(t, err, "ELEVENLABS_API_KEY")

	_, err = New("secret", srv.URL).Synthesize(context.Background(), "", "hi")
	assert.ErrorContains(t, err, "voice id")

	_, err = New("secret", srv.URL).Synthesize(context.Background(), "v", "  \n")
	assert.ErrorContains(t, err, "text is required")
}
