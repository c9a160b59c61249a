package contract

// FileID: 逻辑文档ID（通常为路径，需规范化，跨平台一致）；STDIN 固定为 "stdin"。
type FileID string

// StdinID: "-" 输入对应的 FileID。
const StdinID FileID = "stdin"

// Document: 原始输入文档（RawDocument）。
// 约束：Raw 为合法 UTF-8；是 original_words 统计的唯一来源。
type Document struct {
	FileID FileID
	Raw    string
}

// Sentence: 切分后的句子单元。
// 约束：
// - Text 已去首尾空白且非空；
// - Index 自 0 按文档顺序递增；
// - [Start, End) 为清洗后文本中的码点（rune）偏移，runes(cleaned)[Start:End] == Text；
// - 区间互不重叠，随 Index 单调不减。
type Sentence struct {
	Text  string
	Index int
	Start int
	End   int
}

// Scored: 评分后的句子。
type Scored struct {
	Score    float64
	Sentence Sentence
}

// Anchor: 已选句子回指清洗文本的证据（按选择顺序排列，而非文档顺序）。
type Anchor struct {
	Sentence    string `json:"sentence"`
	SourceIndex int    `json:"source_index"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Summary: 摘要结果；Anchors 仅在请求锚点时填充。
type Summary struct {
	Text    string
	Anchors []Anchor
}

// AnchoredTag: 带首现位置的标签；Position 为 nil 表示未找到。
type AnchoredTag struct {
	Tag      string `json:"tag"`
	Position *int   `json:"position"`
}

// Metrics: 单次调用的派生计数。
type Metrics struct {
	OriginalWords int    `json:"original_words"`
	SummaryWords  int    `json:"summary_words"`
	Compression   string `json:"compression"`
}

// Evidence: 锚点证据；Tags 为空时省略。
type Evidence struct {
	Summary []Anchor      `json:"summary"`
	Tags    []AnchoredTag `json:"tags,omitempty"`
}

// Report: 一次调用的完整结果（JSON 字段顺序即输出顺序）。
type Report struct {
	Summary  string    `json:"summary"`
	Tags     []string  `json:"tags"`
	Metrics  Metrics   `json:"metrics"`
	Evidence *Evidence `json:"evidence,omitempty"`
}
