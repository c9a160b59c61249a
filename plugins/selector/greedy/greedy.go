// Package greedy 实现按分数降序、遇首个超预算句即停止的摘要选择。
package greedy

import (
	"sort"
	"strings"

	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
)

// EmptySummary 为清洗后无内容时的固定摘要。
const EmptySummary = "Nothing to summarize after cleaning."

// Ellipsis 为截断回退的后缀。
const Ellipsis = "…"

// DefaultMaxLen 为默认预算（码点）。
const DefaultMaxLen = 450

type Selector struct{}

var _ contract.Selector = (*Selector)(nil)

func New() *Selector { return &Selector{} }

func (s *Selector) Select(cleaned string, scored []contract.Scored, limit contract.SelectLimit) contract.Summary {
	var anchors []contract.Anchor
	if limit.IncludeAnchors {
		anchors = []contract.Anchor{}
	}
	if strings.TrimSpace(cleaned) == "" {
		return contract.Summary{Text: EmptySummary, Anchors: anchors}
	}
	maxLen := limit.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	ranked := make([]contract.Scored, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Sentence.Index < ranked[j].Sentence.Index
	})

	picked := make([]string, 0, len(ranked))
	used := 0
	for _, sc := range ranked {
		n := textutil.RuneLen(sc.Sentence.Text)
		if used+n > maxLen {
			break
		}
		used += n
		picked = append(picked, sc.Sentence.Text)
		if limit.IncludeAnchors {
			anchors = append(anchors, contract.Anchor{
				Sentence:    sc.Sentence.Text,
				SourceIndex: sc.Sentence.Index,
				Start:       sc.Sentence.Start,
				End:         sc.Sentence.End,
			})
		}
	}
	if len(picked) == 0 {
		return contract.Summary{Text: textutil.Prefix(cleaned, maxLen) + Ellipsis, Anchors: anchors}
	}
	return contract.Summary{Text: strings.Join(picked, " "), Anchors: anchors}
}
