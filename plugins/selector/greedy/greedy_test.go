package greedy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
)

// build 以 texts 构造首尾相接（单空格分隔）的清洗文本与句子。
func build(scores []float64, texts ...string) (string, []contract.Scored) {
	var b strings.Builder
	out := make([]contract.Scored, len(texts))
	pos := 0
	for i, t := range texts {
		if i > 0 {
			b.WriteString(" ")
			pos++
		}
		b.WriteString(t)
		n := textutil.RuneLen(t)
		out[i] = contract.Scored{Score: scores[i], Sentence: contract.Sentence{Text: t, Index: i, Start: pos, End: pos + n}}
		pos += n
	}
	return b.String(), out
}

func TestSelectByScoreWithinBudget(t *testing.T) {
	cleaned, scored := build([]float64{1, 3, 2}, "Aaaa.", "Bbbb.", "Cccc.")
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 10, IncludeAnchors: true})
	assert.Equal(t, "Bbbb. Cccc.", got.Text, "按选择顺序连接")
	require.Len(t, got.Anchors, 2)
	assert.Equal(t, 1, got.Anchors[0].SourceIndex)
	assert.Equal(t, 2, got.Anchors[1].SourceIndex)
}

func TestSelectStopsAtFirstOverflow(t *testing.T) {
	// 第二名放不下时，即使第三名能放下也停止
	cleaned, scored := build([]float64{3, 2, 1}, "Short.", "A much longer sentence here.", "Tiny.")
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 15})
	assert.Equal(t, "Short.", got.Text)
	assert.Nil(t, got.Anchors)
}

func TestSelectBudgetExcludesSpaces(t *testing.T) {
	cleaned, scored := build([]float64{2, 1}, "Abcde", "Fghij")
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 10})
	assert.Equal(t, "Abcde Fghij", got.Text)
}

func TestSelectTruncationFallback(t *testing.T) {
	long := strings.Repeat("x", 200) + "."
	cleaned, scored := build([]float64{1}, long)
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 50})
	assert.Equal(t, strings.Repeat("x", 50)+"…", got.Text)
	assert.Equal(t, 51, textutil.RuneLen(got.Text))
}

func TestSelectTruncationCountsRunes(t *testing.T) {
	cleaned, scored := build([]float64{1}, "ééééé.")
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 3})
	assert.Equal(t, "ééé…", got.Text)
}

func TestSelectEmptyCleaned(t *testing.T) {
	got := New().Select("  ", nil, contract.SelectLimit{MaxLen: 10, IncludeAnchors: true})
	assert.Equal(t, EmptySummary, got.Text)
	assert.NotNil(t, got.Anchors)
	assert.Empty(t, got.Anchors)
}

func TestSelectTieBreakByIndex(t *testing.T) {
	cleaned, scored := build([]float64{1, 1, 1}, "One.", "Two.", "Six.")
	// 打乱输入顺序，结果仍按下标升序
	shuffled := []contract.Scored{scored[2], scored[0], scored[1]}
	for i := 0; i < 3; i++ {
		got := New().Select(cleaned, shuffled, contract.SelectLimit{MaxLen: 8})
		assert.Equal(t, "One. Two.", got.Text)
	}
}

func TestSelectAnchorsAreFaithful(t *testing.T) {
	cleaned, scored := build([]float64{0.2, 0.9, 0.5}, "Première phrase.", "Deuxième — oui!", "Troisième?")
	got := New().Select(cleaned, scored, contract.SelectLimit{MaxLen: 450, IncludeAnchors: true})
	runes := []rune(cleaned)
	for _, a := range got.Anchors {
		assert.Equal(t, a.Sentence, string(runes[a.Start:a.End]))
	}
	assert.Equal(t, 3, len(got.Anchors))
}

func TestSelectDefaultBudget(t *testing.T) {
	cleaned, scored := build([]float64{1}, strings.Repeat("y", DefaultMaxLen))
	got := New().Select(cleaned, scored, contract.SelectLimit{})
	assert.Equal(t, cleaned, got.Text)
}
