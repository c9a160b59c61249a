package contract

// Normalizer: 清洗原文（frontmatter、Markdown 标记、链接、引用、参考文献段等）。
// 约束：纯函数、确定性、无失败路径；输出不长于输入。
type Normalizer interface {
	Normalize(raw string) string
}
