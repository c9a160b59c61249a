// Package report 将 contract.Report 渲染为 JSON 或 Markdown。
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"textdigest/pkg/contract"
)

// 输出格式名。
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// marshal 以两空格缩进编码且不转义 HTML 字符；结果不含末尾换行。
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JSON 渲染报告，末尾带一个换行。
func JSON(rep contract.Report) ([]byte, error) {
	if rep.Tags == nil {
		rep.Tags = []string{}
	}
	b, err := marshal(rep)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Error 渲染单行 {"error": msg}。
func Error(msg string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(msg)
	return []byte(`{"error": ` + strings.TrimRight(buf.String(), "\n") + "}\n")
}

// Markdown 渲染带 frontmatter 的摘要文档；有证据时追加 Evidence 小节。
// 结果去首尾空白并以单个换行结尾。
func Markdown(rep contract.Report) (string, error) {
	lines := []string{
		"---",
		"tags: [" + strings.Join(rep.Tags, ", ") + "]",
		fmt.Sprintf("original_words: %d", rep.Metrics.OriginalWords),
		fmt.Sprintf("summary_words: %d", rep.Metrics.SummaryWords),
		fmt.Sprintf("compression: %q", rep.Metrics.Compression),
		"---",
		"",
		"## Summary",
		rep.Summary,
	}
	if rep.Evidence != nil {
		ev, err := marshal(rep.Evidence)
		if err != nil {
			return "", err
		}
		lines = append(lines, "", "## Evidence", "```json", string(ev), "```")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n", nil
}

// Render 按 format 渲染；未知格式按 JSON 处理。
func Render(rep contract.Report, format string) ([]byte, error) {
	if strings.EqualFold(format, FormatMarkdown) || strings.EqualFold(format, "md") {
		s, err := Markdown(rep)
		return []byte(s), err
	}
	return JSON(rep)
}
