package contract

// TagRequest: 标签提取输入。
type TagRequest struct {
	// Text: 参与计数的文本（通常为 摘要 + " " + 清洗文本）。
	Text string
	// Top: 返回的标签数上限；<=0 表示不返回。
	Top int
	// IncludeAnchors: 是否计算首现位置。
	IncludeAnchors bool
	// Source: 锚点检索文本；为空时使用 Text。
	Source string
}

// Tagger: 提取高频内容词作为标签。
// 约束：纯计算；同频按首次出现顺序；Anchored 仅在 IncludeAnchors 时填充且与 Tags 同序。
type Tagger interface {
	Tag(req TagRequest) (tags []string, anchored []AnchoredTag)
}
