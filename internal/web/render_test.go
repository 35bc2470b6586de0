package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLinesClassesAndBold(t *testing.T) {
	got := RenderLines("**Trip Summary:**\nDay 1:\nActivities: Museum\nMeals: Tapas\nTransportation: Walk\nplain")
	require.Len(t, got, 6)

	assert.Equal(t, Line{Class: LinePlain, HTML: "<strong>Trip Summary:</strong>"}, got[0])
	assert.Equal(t, LineDay, got[1].Class)
	assert.Equal(t, LineActivity, got[2].Class)
	assert.Equal(t, LineDetail, got[3].Class)
	assert.Equal(t, LineDetail, got[4].Class)
	assert.Equal(t, LinePlain, got[5].Class)
}

func TestRenderLinesEscapesMarkup(t *testing.T) {
	got := RenderLines(`<script>alert(1)</script> **<b>x</b>**`)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt; <strong>&lt;b&gt;x&lt;/b&gt;</strong>", string(got[0].HTML))
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"welcome.html", "plan.html", "feed"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "welcome.html", map[string]any{"TravelOptions": TravelOptions}))
	assert.Contains(t, buf.String(), "Start Planning")
}

func TestStaticServesScript(t *testing.T) {
	f, err := Static().Open("app.js")
	require.NoError(t, err)
	defer f.Close()
}
