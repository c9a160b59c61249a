// Package lexical 实现无嵌入后端时的词频重合度评分。
package lexical

import (
	"context"
	"strings"

	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
)

const (
	// topWords 参与评分的高频词数量。
	topWords = 20
	// minWordLen 高频词需长于该码点数才保留。
	minWordLen = 4
	// stemLen 句中匹配使用的词前缀码点数。
	stemLen = 5
)

// Scorer 为词频评分器；无状态，可重入。
type Scorer struct{}

var _ contract.Scorer = (*Scorer)(nil)

func New() *Scorer { return &Scorer{} }

func (s *Scorer) Mode() string { return "lexical" }

// Score: 句子分数为“全文前 20 高频词中长于 4 个码点者”其 5 码点前缀在句中出现的个数。
func (s *Scorer) Score(_ context.Context, cleaned string, sentences []contract.Sentence) []float64 {
	out := make([]float64, len(sentences))
	if len(sentences) == 0 {
		return out
	}
	stems := Stems(cleaned)
	for i, sent := range sentences {
		folded := textutil.Fold(sent.Text)
		n := 0
		for _, stem := range stems {
			if strings.Contains(folded, stem) {
				n++
			}
		}
		out[i] = float64(n)
	}
	return out
}

// Stems 返回参与评分的词前缀，顺序同词频排名。
func Stems(cleaned string) []string {
	top := textutil.MostCommon(textutil.Words(textutil.Fold(cleaned)), topWords)
	stems := make([]string, 0, len(top))
	for _, w := range top {
		if textutil.RuneLen(w) > minWordLen {
			stems = append(stems, textutil.Prefix(w, stemLen))
		}
	}
	return stems
}
