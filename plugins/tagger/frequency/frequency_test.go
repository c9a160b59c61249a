package frequency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/pkg/contract"
)

func TestTagFrequencyOrder(t *testing.T) {
	text := strings.Repeat("Neural networks are trained. ", 5) + strings.Repeat("The dataset is big. ", 3)
	tags, anchored := New().Tag(contract.TagRequest{Text: text, Top: DefaultTop})
	require.GreaterOrEqual(t, len(tags), 3)
	assert.Equal(t, []string{"neural", "networks", "trained", "dataset"}, tags[:4])
	assert.Nil(t, anchored)
	for _, tag := range tags {
		assert.Greater(t, len([]rune(tag)), 3)
		assert.False(t, IsStopword(tag))
	}
}

func TestTagDropsStopwordsAndShortTokens(t *testing.T) {
	tags, _ := New().Tag(contract.TagRequest{Text: "The proposed approach uses a new method with cats and dogs", Top: 10})
	assert.Equal(t, []string{"uses", "cats", "dogs"}, tags)
}

func TestTagTopLimit(t *testing.T) {
	tags, _ := New().Tag(contract.TagRequest{Text: "alpha beta gamma delta omega", Top: 2})
	assert.Equal(t, []string{"alpha", "beta"}, tags)

	tags, anchored := New().Tag(contract.TagRequest{Text: "alpha beta", Top: 0, IncludeAnchors: true})
	assert.Empty(t, tags)
	assert.NotNil(t, tags)
	assert.Empty(t, anchored)
}

func TestTagEmptyText(t *testing.T) {
	tags, _ := New().Tag(contract.TagRequest{Text: "", Top: 8})
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestTagAnchors(t *testing.T) {
	source := "Graphs matter. Subgraphs of GRAPHS too."
	text := "summary graphs words " + source
	tags, anchored := New().Tag(contract.TagRequest{Text: text, Top: 3, IncludeAnchors: true, Source: source})
	require.Len(t, anchored, 3)
	assert.Equal(t, "graphs", tags[0])
	require.NotNil(t, anchored[0].Position)
	assert.Equal(t, 0, *anchored[0].Position)

	// "summary" 只出现在摘要部分，源文本中找不到
	assert.Equal(t, "summary", anchored[1].Tag)
	assert.Nil(t, anchored[1].Position)
}

func TestTagAnchorsWholeWord(t *testing.T) {
	source := "Subnets everywhere, then nets."
	_, anchored := New().Tag(contract.TagRequest{Text: "nets nets", Top: 1, IncludeAnchors: true, Source: source})
	require.Len(t, anchored, 1)
	require.NotNil(t, anchored[0].Position)
	assert.Equal(t, 25, *anchored[0].Position)
}
