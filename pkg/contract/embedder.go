package contract

import "context"

// EmbedOptions: 单次编码调用的可选参数。
type EmbedOptions struct {
	// Normalize: 请求后端返回 L2 归一化向量。调用方不以此为准，仍会再次归一化。
	Normalize bool
}

// EmbedOption 修改 EmbedOptions。
type EmbedOption func(*EmbedOptions)

// WithNormalize 请求后端归一化输出向量。
func WithNormalize() EmbedOption {
	return func(o *EmbedOptions) { o.Normalize = true }
}

// ApplyEmbedOptions 将 opts 依次应用到零值 EmbedOptions。
func ApplyEmbedOptions(opts []EmbedOption) EmbedOptions {
	var o EmbedOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Embedder: 可选的固定嵌入函数（本地、离线）。
// 约束：
//  1. 一次调用批量编码全部文本，返回与 texts 等长、同序的向量；
//  2. 不支持某个选项时返回 ErrOptionUnsupported，调用方去掉选项重试；
//  3. 不可用（空对象）时 Available()==false，Embed 返回 ErrBackendUnavailable；
//  4. 构造后只读，可重入。
type Embedder interface {
	Embed(ctx context.Context, texts []string, opts ...EmbedOption) ([][]float64, error)
	Available() bool
	Model() string
}
