package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/pkg/contract"
)

func TestConvertHTML(t *testing.T) {
	c := New(nil)
	html := `<html><body><h1>Title</h1><p>Hello <b>world</b>. See <a href="https://x.org">docs</a>.</p></body></html>`
	out, err := c.Convert(context.Background(), "page.HTML", html)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "**world**")
	assert.Contains(t, out, "[docs](https://x.org)")
	assert.NotContains(t, out, "<")
}

func TestConvertPassthrough(t *testing.T) {
	c := New(nil)
	for _, id := range []contract.FileID{"notes.md", "stdin", "a.txt", "noext"} {
		out, err := c.Convert(context.Background(), id, "<b>kept</b>")
		require.NoError(t, err)
		assert.Equal(t, "<b>kept</b>", out, "非 HTML 输入应原样透传: %s", id)
	}
}

func TestConvertCustomExts(t *testing.T) {
	c := New(&Options{HTMLExts: []string{"xhtml"}})
	assert.True(t, c.IsHTML("a.xhtml"))
	assert.False(t, c.IsHTML("a.html"))
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Convert(ctx, "a.html", "<p>x</p>")
	assert.ErrorIs(t, err, context.Canceled)
}
