package contract

// SelectLimit: 选择阶段的预算与输出要求。
type SelectLimit struct {
	// MaxLen: 已选句子字符数（码点）之和的上限，不含连接空格。
	MaxLen int
	// IncludeAnchors: 是否输出锚点。
	IncludeAnchors bool
}

// Selector: 按分数降序贪心选择句子并组装摘要。
// 约束：
//  1. 同分按原始 Index 升序（确定性）；
//  2. 首个放不下的句子即停止扫描；
//  3. 摘要按选择顺序以单个空格连接；
//  4. 无可选句子时按回退规则生成文本，不返回错误。
type Selector interface {
	Select(cleaned string, scored []Scored, limit SelectLimit) Summary
}
