// Package subtitle 将 SRT 字幕转换为纯文本台词，其它输入原样透传。
package subtitle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"textdigest/pkg/contract"
)

// Options 为字幕转换器的可选配置（最小必要）。
type Options struct {
	// Exts: 视为 SRT 的扩展名（大小写不敏感，包含点，如 [".srt"]）。
	// 为空时采用默认 [".srt"]。
	Exts []string `json:"exts"`
}

// Converter 实现 SRT → 纯文本。
type Converter struct {
	allow map[string]struct{}
}

var _ contract.Converter = (*Converter)(nil)

// New 创建字幕转换器。
func New(opts *Options) *Converter {
	exts := []string{".srt"}
	if opts != nil && len(opts.Exts) > 0 {
		exts = opts.Exts
	}
	allow := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allow[e] = struct{}{}
	}
	return &Converter{allow: allow}
}

var (
	timeLineRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[,.]\d{3} --> \d{2}:\d{2}:\d{2}[,.]\d{3}`)
	// 字幕内联样式标签：<i>、</b>、<font color=...> 等
	styleTagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// IsSubtitle 报告 fileID 是否按 SRT 处理。
func (c *Converter) IsSubtitle(fileID contract.FileID) bool {
	_, ok := c.allow[fileID.Ext()]
	return ok
}

// Convert 丢弃序号行与时间轴行，每条字幕的多行文本以空格拼接、字幕之间换行分隔。
// 格式错误归类为 ErrInvalidInput。
func (c *Converter) Convert(ctx context.Context, fileID contract.FileID, raw string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.IsSubtitle(fileID) {
		return raw, nil
	}
	cues, err := parse(ctx, bufio.NewReader(strings.NewReader(strings.TrimPrefix(raw, "\ufeff"))))
	if err != nil {
		return "", fmt.Errorf("convert %s: %v: %w", fileID, err, contract.ErrInvalidInput)
	}
	return strings.Join(cues, "\n"), nil
}

func parse(ctx context.Context, br *bufio.Reader) ([]string, error) {
	var cues []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 一个块：序号行、时间轴行、文本若干行，空行结束
		seqLine, eof, err := readTrimmedLine(br)
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		seqLine = strings.TrimSpace(seqLine)
		if seqLine == "" {
			continue
		}
		if _, err := strconv.Atoi(seqLine); err != nil {
			return nil, fmt.Errorf("srt format error: invalid sequence line: %q", seqLine)
		}

		timeLine, _, err := readTrimmedLine(br)
		if err != nil {
			return nil, err
		}
		if !timeLineRe.MatchString(strings.TrimSpace(timeLine)) {
			return nil, fmt.Errorf("srt format error: invalid time line: %q", timeLine)
		}

		var texts []string
		for {
			line, _, err := readTrimmedLine(br)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(line) == "" {
				break
			}
			if t := strings.TrimSpace(styleTagRe.ReplaceAllString(line, "")); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			cues = append(cues, strings.Join(texts, " "))
		}
	}
	return cues, nil
}

// readTrimmedLine 读取一行，归一 CRLF→LF，并去除结尾换行符；返回该行、是否 EOF。
func readTrimmedLine(br *bufio.Reader) (line string, eof bool, err error) {
	s, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			eof = true
		} else {
			return "", false, err
		}
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, eof && s == "", nil
}
