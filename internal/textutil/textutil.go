// Package textutil 提供各阶段共享的分词、大小写折叠与码点偏移工具。
package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// wordRe 与 Unicode 语义的 \w+ 对齐：字母、数字与下划线。
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Fold 按 Unicode 规则小写化（含多码点映射，如 İ → i̇）。
// cases.Caser 有内部状态，每次调用新建。
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Words 返回 s 中全部词元（保持原大小写）。
func Words(s string) []string {
	return wordRe.FindAllString(s, -1)
}

// CountWords 统计词元数。
func CountWords(s string) int {
	return len(wordRe.FindAllStringIndex(s, -1))
}

// IsWordRune 判定 r 是否属于词元字符集。
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// RuneLen 返回码点数。
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// Prefix 返回前 n 个码点；n 超长时返回原串。
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// RuneOffset 将字节偏移换算为码点偏移。
func RuneOffset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff > len(s) {
		byteOff = len(s)
	}
	return utf8.RuneCountInString(s[:byteOff])
}

// MostCommon 按频次降序返回前 n 个不同词元；同频按首次出现顺序。n<0 表示全部。
func MostCommon(tokens []string, n int) []string {
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	ranked := stableByCount(order, counts)
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FindWord 返回 word 在 text 中首个整词匹配的码点偏移。
// 词边界：两侧相邻字符不属于词元字符集（或为文本边界）。
func FindWord(text, word string) (int, bool) {
	if word == "" {
		return 0, false
	}
	from := 0
	for from <= len(text) {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return 0, false
		}
		start := from + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return RuneOffset(text, start), true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return 0, false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !IsWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !IsWordRune(r)
}
