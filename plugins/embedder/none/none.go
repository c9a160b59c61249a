package none

import (
	"context"

	"textdigest/pkg/contract"
)

// Embedder 为空对象后端：始终不可用，评分阶段据此走词频策略。
type Embedder struct {
	model string
}

var _ contract.Embedder = (*Embedder)(nil)

// New 创建空对象后端；model 仅用于日志。
func New(model string) *Embedder { return &Embedder{model: model} }

func (e *Embedder) Embed(ctx context.Context, texts []string, opts ...contract.EmbedOption) ([][]float64, error) {
	return nil, contract.ErrBackendUnavailable
}

func (e *Embedder) Available() bool { return false }

func (e *Embedder) Model() string { return e.model }
