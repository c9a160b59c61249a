package punct

import (
	"unicode"

	"textdigest/pkg/contract"
)

// Segmenter 按句末标点切分句子并保留码点偏移（锚点可回指）。
// 切分点位于 . ! ? 之后、紧随其后的空白串之前；标点留在前一句。
type Segmenter struct{}

var _ contract.Segmenter = (*Segmenter)(nil)

// New 创建 Segmenter。
func New() *Segmenter { return &Segmenter{} }

// Segment 将清洗后的文本切分为 []Sentence。
func (s *Segmenter) Segment(cleaned string) []contract.Sentence {
	runes := []rune(cleaned)
	n := len(runes)
	var out []contract.Sentence
	emit := func(from, to int) {
		a, b := trim(runes, from, to)
		if a >= b {
			return
		}
		out = append(out, contract.Sentence{Text: string(runes[a:b]), Index: len(out), Start: a, End: b})
	}

	start := 0
	for i := 1; i < n; i++ {
		if !unicode.IsSpace(runes[i]) || !terminal(runes[i-1]) {
			continue
		}
		j := i
		for j < n && unicode.IsSpace(runes[j]) {
			j++
		}
		emit(start, i)
		start = j
		i = j - 1
	}
	if start < n {
		emit(start, n)
	}

	// 兜底：非空文本至少产出一句。
	if len(out) == 0 {
		if a, b := trim(runes, 0, n); a < b {
			out = append(out, contract.Sentence{Text: string(runes[a:b]), Index: 0, Start: a, End: b})
		}
	}
	return out
}

func terminal(r rune) bool { return r == '.' || r == '!' || r == '?' }

// trim 收缩 [from,to) 两端空白，返回新的区间。
func trim(runes []rune, from, to int) (int, int) {
	for from < to && unicode.IsSpace(runes[from]) {
		from++
	}
	for to > from && unicode.IsSpace(runes[to-1]) {
		to--
	}
	return from, to
}
