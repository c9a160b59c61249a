package contract

import "context"

// Converter: 将特定格式的原文转换为 Markdown/纯文本，供 Normalizer 处理。
// 约束：按 FileID 判定格式；无需转换时原样返回；失败归类为输入错误。
type Converter interface {
	Convert(ctx context.Context, fileID FileID, raw string) (string, error)
}
