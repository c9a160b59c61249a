// Package frequency 以词频提取关键词标签。
package frequency

import (
	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
)

// DefaultTop 为默认标签数。
const DefaultTop = 8

// minTagLen 标签需长于该码点数。
const minTagLen = 3

var stopwords = func() map[string]struct{} {
	words := []string{
		"the", "and", "for", "with", "this", "that", "from", "were", "been", "have",
		"using", "used", "which", "their", "they", "will", "would", "there", "these", "about",
		"when", "what", "where", "is", "are", "was", "not", "but", "all", "into",
		"can", "has", "more", "one", "its", "out", "also", "than", "other", "some",
		"very", "only", "time", "just", "even", "most", "like", "may", "such", "each",
		"new", "based", "our", "results", "study", "method", "approach", "proposed",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopword 报告 w（已折叠）是否为停用词。
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

type Tagger struct{}

var _ contract.Tagger = (*Tagger)(nil)

func New() *Tagger { return &Tagger{} }

func (t *Tagger) Tag(req contract.TagRequest) ([]string, []contract.AnchoredTag) {
	var anchored []contract.AnchoredTag
	if req.IncludeAnchors {
		anchored = []contract.AnchoredTag{}
	}
	if req.Top <= 0 {
		return []string{}, anchored
	}
	words := textutil.Words(textutil.Fold(req.Text))
	kept := words[:0]
	for _, w := range words {
		if textutil.RuneLen(w) <= minTagLen || IsStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	tags := textutil.MostCommon(kept, req.Top)
	if tags == nil {
		tags = []string{}
	}
	if !req.IncludeAnchors {
		return tags, nil
	}
	source := req.Source
	if source == "" {
		source = req.Text
	}
	folded := textutil.Fold(source)
	for _, tag := range tags {
		at := contract.AnchoredTag{Tag: tag}
		if pos, ok := textutil.FindWord(folded, tag); ok {
			p := pos
			at.Position = &p
		}
		anchored = append(anchored, at)
	}
	return tags, anchored
}
