package markdown

import (
	"regexp"
	"strings"

	"textdigest/pkg/contract"
)

// Options 为 Markdown Normalizer 的可选配置（最小必要）。
type Options struct {
	// CutoffHeadings: 截断标题（大小写不敏感、独占一行）。
	// 为 nil 时采用默认 [references bibliography appendix]；显式空切片表示不截断。
	CutoffHeadings []string `json:"cutoff_headings"`
}

// 与 Unicode 语义的 \s / \S 对齐（Go 的 \s 仅含 ASCII 空白且不含 \v）。
const (
	ws    = `[\s\v\x{85}\p{Z}]`
	nonWS = `[^\s\v\x{85}\p{Z}]`
)

var (
	frontmatterRe = regexp.MustCompile(`(?s)\A---` + ws + `*\n.*?\n---` + ws + `*\n?`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	citationRe    = regexp.MustCompile(`(?i)@article\{[^}]+\}|https?://` + nonWS + `+|doi:` + nonWS + `+`)
	imageRe       = regexp.MustCompile(`!\[.*?\]\([^\)]+\)`)
	symbolRe      = regexp.MustCompile("[*#>`~]")
	captionRe     = regexp.MustCompile(`(?im)^(?:Table|Figure)` + ws + `*\p{Nd}+.*`)
)

var defaultHeadings = []string{"references", "bibliography", "appendix"}

// Normalizer 实现 Markdown 清洗。
type Normalizer struct {
	// cutoff 为 nil 表示不截断。
	cutoff *regexp.Regexp
}

var _ contract.Normalizer = (*Normalizer)(nil)

// New 创建 Markdown Normalizer。
func New(opts *Options) *Normalizer {
	headings := defaultHeadings
	if opts != nil && opts.CutoffHeadings != nil {
		headings = opts.CutoffHeadings
	}
	var alts []string
	for _, h := range headings {
		if h = strings.TrimSpace(h); h != "" {
			alts = append(alts, regexp.QuoteMeta(h))
		}
	}
	n := &Normalizer{}
	if len(alts) > 0 {
		n.cutoff = regexp.MustCompile(`(?i)\n` + ws + `*(?:` + strings.Join(alts, "|") + `)` + ws + `*\n`)
	}
	return n
}

// Normalize 按固定顺序应用清洗规则；顺序有语义（后一步作用于前一步输出）。
func (n *Normalizer) Normalize(raw string) string {
	text := frontmatterRe.ReplaceAllString(raw, "")
	text = linkRe.ReplaceAllString(text, "${1}")
	text = citationRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "")
	text = symbolRe.ReplaceAllString(text, "")
	text = captionRe.ReplaceAllString(text, "")
	if n.cutoff != nil {
		if loc := n.cutoff.FindStringIndex(text); loc != nil {
			text = text[:loc[0]]
		}
	}
	return strings.TrimSpace(text)
}
