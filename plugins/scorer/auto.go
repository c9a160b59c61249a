// Package scorer 按嵌入后端可用性选择评分策略。
package scorer

import (
	"textdigest/pkg/contract"
	"textdigest/plugins/scorer/lexical"
	"textdigest/plugins/scorer/semantic"
)

// Auto 返回评分器：后端可用时为语义评分（失败回退词频），否则为词频评分。
// onFallback 可为空。
func Auto(emb contract.Embedder, onFallback func(error)) contract.Scorer {
	lex := lexical.New()
	if emb == nil || !emb.Available() {
		return lex
	}
	s, err := semantic.New(&semantic.Options{Embedder: emb, Fallback: lex, OnFallback: onFallback})
	if err != nil {
		return lex
	}
	return s
}
