package contract

import (
	"context"
	"io"
)

// Reader: 输入源抽象（单个文件或 STDIN）。
// 约束：
// 1) root 为 "-" 时读取 STDIN，FileID 为 StdinID；
// 2) FileID 稳定且去平台差异化；
// 3) 不做解码/业务解析，仅提供字节流，调用方负责 Close；
// 4) 不在内部起并发。
type Reader interface {
	Open(ctx context.Context, root string) (FileID, io.ReadCloser, error)
}
