package textutil

import "sort"

// stableByCount 按计数降序稳定排序（同频保持 order 中的先后）。
func stableByCount(order []string, counts map[string]int) []string {
	out := make([]string, len(order))
	copy(out, order)
	sort.SliceStable(out, func(i, j int) bool {
		return counts[out[i]] > counts[out[j]]
	})
	return out
}
