package contract

import "context"

// Scorer: 为每个句子计算与全文的相关度，返回与 sentences 等长、同序的分数。
// 约束：不得因后端问题失败；无句子时返回空切片。
type Scorer interface {
	Score(ctx context.Context, cleaned string, sentences []Sentence) []float64
	// Mode 返回评分策略名（semantic|lexical），仅用于日志。
	Mode() string
}
