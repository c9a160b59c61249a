package contract

import "errors"

// 最小错误分类（用于退出码与日志分类）。
var (
	// ErrInvalidInput: 缺少输入或输入参数非法。
	ErrInvalidInput = errors.New("invalid input")
	// ErrDecode: 输入无法解码（非法 UTF-8、格式转换失败）。
	ErrDecode = errors.New("decode error")
	// ErrPathInvalid: 目标路径无效（空名、目录等）。
	ErrPathInvalid = errors.New("path invalid")
	// ErrConfig: 配置解析或校验失败。
	ErrConfig = errors.New("config invalid")
	// ErrBackendUnavailable: 嵌入后端不可用（空对象）。
	ErrBackendUnavailable = errors.New("embedding backend unavailable")
	// ErrOptionUnsupported: 嵌入后端不接受某个调用选项。
	ErrOptionUnsupported = errors.New("embedding option unsupported")
)
