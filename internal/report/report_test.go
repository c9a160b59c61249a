package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/pkg/contract"
)

func sample(withEvidence bool) contract.Report {
	rep := contract.Report{
		Summary: "Graphs <matter> & scale.",
		Tags:    []string{"graphs", "scale"},
		Metrics: contract.Metrics{OriginalWords: 10, SummaryWords: 3, Compression: "30.0%"},
	}
	if withEvidence {
		pos := 0
		rep.Evidence = &contract.Evidence{
			Summary: []contract.Anchor{{Sentence: "Graphs <matter> & scale.", SourceIndex: 2, Start: 5, End: 29}},
			Tags:    []contract.AnchoredTag{{Tag: "graphs", Position: &pos}, {Tag: "scale", Position: nil}},
		}
	}
	return rep
}

func TestJSONShape(t *testing.T) {
	b, err := JSON(sample(false))
	require.NoError(t, err)
	s := string(b)
	assert.True(t, strings.HasSuffix(s, "}\n"))
	assert.Contains(t, s, `"summary": "Graphs <matter> & scale."`, "不转义 HTML 字符")
	assert.NotContains(t, s, "evidence")
	// 字段顺序
	assert.Less(t, strings.Index(s, `"summary"`), strings.Index(s, `"tags"`))
	assert.Less(t, strings.Index(s, `"tags"`), strings.Index(s, `"metrics"`))
	assert.Contains(t, s, "\n  \"metrics\": {\n    \"original_words\": 10,")
}

func TestJSONEvidence(t *testing.T) {
	b, err := JSON(sample(true))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	ev := got["evidence"].(map[string]any)
	tags := ev["tags"].([]any)
	assert.Nil(t, tags[1].(map[string]any)["position"], "未找到的标签位置为 null")
	assert.Contains(t, string(b), `"position": null`)
	assert.Contains(t, string(b), `"source_index": 2`)
}

func TestJSONNilTags(t *testing.T) {
	b, err := JSON(contract.Report{Summary: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tags": []`)
}

func TestMarkdownLayout(t *testing.T) {
	md, err := Markdown(sample(false))
	require.NoError(t, err)
	want := "---\n" +
		"tags: [graphs, scale]\n" +
		"original_words: 10\n" +
		"summary_words: 3\n" +
		"compression: \"30.0%\"\n" +
		"---\n" +
		"\n" +
		"## Summary\n" +
		"Graphs <matter> & scale.\n"
	assert.Equal(t, want, md)
}

func TestMarkdownEvidence(t *testing.T) {
	md, err := Markdown(sample(true))
	require.NoError(t, err)
	assert.Contains(t, md, "\n\n## Evidence\n```json\n{\n  \"summary\": [\n")
	assert.True(t, strings.HasSuffix(md, "}\n```\n"))
	assert.Equal(t, 1, strings.Count(md, "## Evidence"))
}

func TestMarkdownEmptyTags(t *testing.T) {
	md, err := Markdown(contract.Report{Summary: "s", Metrics: contract.Metrics{Compression: "0.0%"}})
	require.NoError(t, err)
	assert.Contains(t, md, "tags: []\n")
}

func TestRenderAndError(t *testing.T) {
	b, err := Render(sample(false), "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "---\n"))
	b, err = Render(sample(false), "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "{\n"))
	assert.Equal(t, "{\"error\": \"no such file <x>\"}\n", string(Error("no such file <x>")))
}
