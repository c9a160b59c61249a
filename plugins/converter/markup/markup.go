// Package markup 在归一化前将 HTML 输入转换为 Markdown；其它输入原样透传。
package markup

import (
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"textdigest/pkg/contract"
)

// Options 为转换器的可选配置。
type Options struct {
	// HTMLExts: 视为 HTML 的扩展名（小写，含点）。默认 [".html", ".htm"]。
	HTMLExts []string `json:"html_exts"`
}

type Converter struct {
	exts map[string]struct{}
	md   *converter.Converter
}

var _ contract.Converter = (*Converter)(nil)

func New(opts *Options) *Converter {
	exts := []string{".html", ".htm"}
	if opts != nil && len(opts.HTMLExts) > 0 {
		exts = opts.HTMLExts
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return &Converter{
		exts: set,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// IsHTML 报告 fileID 是否按 HTML 处理。
func (c *Converter) IsHTML(fileID contract.FileID) bool {
	_, ok := c.exts[fileID.Ext()]
	return ok
}

func (c *Converter) Convert(ctx context.Context, fileID contract.FileID, raw string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.IsHTML(fileID) {
		return raw, nil
	}
	out, err := c.md.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("convert %s: %v: %w", fileID, err, contract.ErrInvalidInput)
	}
	return out, nil
}
