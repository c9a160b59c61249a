package contract

// Segmenter: 将清洗后文本切分为有序 Sentence 序列，并分配 Index（0..n-1）。
// 约束：
// 1) 偏移精确指向清洗后文本（码点偏移）；
// 2) 空片段丢弃且不占用 Index；
// 3) 不做最小长度过滤；
// 4) 无内部并发、幂等。
type Segmenter interface {
	Segment(cleaned string) []Sentence
}
