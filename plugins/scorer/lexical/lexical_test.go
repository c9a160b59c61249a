package lexical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"textdigest/pkg/contract"
)

func sents(texts ...string) []contract.Sentence {
	out := make([]contract.Sentence, len(texts))
	for i, t := range texts {
		out[i] = contract.Sentence{Text: t, Index: i}
	}
	return out
}

func TestStemsKeepsLongFrequentWords(t *testing.T) {
	got := Stems("Networks learn. Networks adapt. The cat sat. Learning networks")
	// 同频按首现顺序；learning 与 learn 前缀相同，各自计数
	assert.Equal(t, []string{"netwo", "learn", "adapt", "learn"}, got)
}

func TestScoreCountsStemHits(t *testing.T) {
	cleaned := "Neural networks learn patterns. Neural networks generalize. Cats nap."
	s := New()
	got := s.Score(context.Background(), cleaned, sents(
		"Neural networks learn patterns.",
		"Neural networks generalize.",
		"Cats nap.",
	))
	assert.Equal(t, "lexical", s.Mode())
	assert.Len(t, got, 3)
	assert.Equal(t, 4.0, got[0])
	assert.Equal(t, 3.0, got[1])
	assert.Equal(t, 0.0, got[2], "短词不参与评分")
}

func TestScoreCaseInsensitive(t *testing.T) {
	got := New().Score(context.Background(), "ALPHABET alphabet", sents("AlphaBet soup"))
	assert.Equal(t, []float64{1}, got)
}

func TestScoreEmpty(t *testing.T) {
	assert.Empty(t, New().Score(context.Background(), "whatever text", nil))
	assert.Equal(t, []float64{0}, New().Score(context.Background(), "", sents("x")))
}
