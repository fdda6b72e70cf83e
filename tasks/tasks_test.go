package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTaskPayload(t *testing.T) {
	s, err := Marshal(RenderTaskPayload{RenderID: 12})
	require.NoError(t, err)
	assert.JSONEq(t, `{"render_id":12}`, s)

	var got RenderTaskPayload
	require.NoError(t, Unmarshal(s, &got))
	assert.Equal(t, uint(12), got.RenderID)
}
