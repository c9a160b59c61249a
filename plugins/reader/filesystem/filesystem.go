// Package filesystem 实现基于单个文件路径或 STDIN 的 Reader。
package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"textdigest/pkg/contract"
)

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
}

// FileSystem 打开单个常规文件，或在 root 为 "-" 时读取 STDIN。
type FileSystem struct {
	bufSize int
	stdin   io.Reader
}

var _ contract.Reader = (*FileSystem)(nil)

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	const defaultBuf = 64 * 1024
	b := defaultBuf
	if opts != nil && opts.BufSize > 0 {
		b = opts.BufSize
	}
	return &FileSystem{bufSize: b, stdin: os.Stdin}
}

// WithStdin 返回使用 in 作为 STDIN 的副本（CLI 与测试注入）。
func (r *FileSystem) WithStdin(in io.Reader) *FileSystem {
	c := *r
	if in != nil {
		c.stdin = in
	}
	return &c
}

// Open 打开 root。符号链接跟随到常规文件；目录与非常规文件视为非法输入。
func (r *FileSystem) Open(ctx context.Context, root string) (contract.FileID, io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(root) == "" {
		return "", nil, fmt.Errorf("no input path: %w", contract.ErrInvalidInput)
	}
	if root == "-" {
		// 统一缓冲策略：STDIN 也使用 bufio.Reader 封装；不关闭进程级 STDIN
		return contract.StdinID, newBufferedCloser(io.NopCloser(r.stdin), r.bufSize), nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory: %w", root, contract.ErrInvalidInput)
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%s is not a regular file: %w", root, contract.ErrInvalidInput)
	}
	f, err := os.Open(root)
	if err != nil {
		return "", nil, err
	}
	return contract.NormalizeFileID(root), newBufferedCloser(f, r.bufSize), nil
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
