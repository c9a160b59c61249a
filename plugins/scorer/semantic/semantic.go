// Package semantic 以嵌入向量的余弦相似度为句子评分。
package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"textdigest/pkg/contract"
)

// Options 为语义评分器的依赖。
type Options struct {
	// Embedder: 必填，且应 Available()。
	Embedder contract.Embedder
	// Fallback: 嵌入调用失败时使用的评分器。为空时失败句子全部记 0 分。
	Fallback contract.Scorer
	// OnFallback: 回退时的回调（仅用于诊断日志）。
	OnFallback func(err error)
}

// Scorer 为语义评分器；构造后只读。
type Scorer struct {
	emb        contract.Embedder
	fallback   contract.Scorer
	onFallback func(error)
}

var _ contract.Scorer = (*Scorer)(nil)

func New(opts *Options) (*Scorer, error) {
	if opts == nil || opts.Embedder == nil {
		return nil, fmt.Errorf("semantic scorer: embedder required: %w", contract.ErrBackendUnavailable)
	}
	return &Scorer{emb: opts.Embedder, fallback: opts.Fallback, onFallback: opts.OnFallback}, nil
}

func (s *Scorer) Mode() string { return "semantic" }

// Score 一次批量编码 [cleaned] + 句子，分数为归一化后的点积。
func (s *Scorer) Score(ctx context.Context, cleaned string, sentences []contract.Sentence) []float64 {
	if len(sentences) == 0 {
		return []float64{}
	}
	texts := make([]string, 0, len(sentences)+1)
	texts = append(texts, cleaned)
	for _, sent := range sentences {
		texts = append(texts, sent.Text)
	}

	vecs, err := s.embed(ctx, texts)
	if err == nil && len(vecs) != len(texts) {
		err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	if err != nil {
		return s.fall(ctx, cleaned, sentences, err)
	}

	out := make([]float64, len(sentences))
	doc := unit(vecs[0])
	if doc == nil {
		return out
	}
	for i := range sentences {
		v := unit(vecs[i+1])
		if v == nil || len(v) != len(doc) {
			continue
		}
		score := floats.Dot(doc, v)
		if math.IsNaN(score) {
			score = 0
		}
		out[i] = score
	}
	return out
}

// embed 先请求归一化输出；后端不支持该选项时去掉选项重试一次。
func (s *Scorer) embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs, err := s.emb.Embed(ctx, texts, contract.WithNormalize())
	if errors.Is(err, contract.ErrOptionUnsupported) {
		return s.emb.Embed(ctx, texts)
	}
	return vecs, err
}

func (s *Scorer) fall(ctx context.Context, cleaned string, sentences []contract.Sentence, err error) []float64 {
	if s.onFallback != nil {
		s.onFallback(err)
	}
	if s.fallback == nil {
		return make([]float64, len(sentences))
	}
	return s.fallback.Score(ctx, cleaned, sentences)
}

// unit 返回 L2 归一化副本；零范数或非有限范数返回 nil。
func unit(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	norm := floats.Norm(v, 2)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	floats.Scale(1/norm, out)
	return out
}
