package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProfileCreated(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	out, err := engine.Render("profile_created.tmpl", map[string]string{
		"Name":     "Ada",
		"Email":    "ada@x.com",
		"Location": "",
		"AboutMe":  "climber",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Name:     Ada")
	assert.Contains(t, out, "Email:    ada@x.com")
	assert.Contains(t, out, "Location: -")
	assert.Contains(t, out, "About:    climber")
	assert.NotRegexp(t, `\n$`, out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	_, err = engine.Render("missing.tmpl", nil)
	assert.Error(t, err)
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	_, err := engine.Render("profile_created.tmpl", nil)
	assert.Error(t, err)
}
