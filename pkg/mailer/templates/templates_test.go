package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetPassword(t *testing.T) {
	exp := time.Date(2026, 9, 1, 15, 4, 0, 0, time.UTC)
	data := NewResetPasswordData(
		"PeerPicks", "PeerPicks", "https://peerpicks.example.com/support",
		"Jane Doe", "jane@example.com",
		"http://localhost:3000/reset-password?token=abc123",
		WithExpiresAt(exp),
	)

	subject, text, html, err := Render(ResetPassword, ToMap(data))
	require.NoError(t, err)

	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "http://localhost:3000/reset-password?token=abc123")
	assert.Contains(t, html, "http://localhost:3000/reset-password?token=abc123")
	assert.Contains(t, text, "Jane Doe")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", nil)
	assert.Error(t, err)
}

func TestToMapRoundTrip(t *testing.T) {
	d := NewResetPasswordData("Co", "App", "https://s", "Jane", "jane@example.com", "https://r")
	m := ToMap(d)
	assert.Equal(t, "Jane", m["Name"])
	assert.Equal(t, "https://r", m["ResetURL"])
}
