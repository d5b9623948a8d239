package harvest

import (
	"sort"

	"golang.org/x/text/cases"
)

// Merge reconciles freshly crawled entries with the prior on-disk set and
// returns the sorted result. Under MergeUnion the result is the set union;
// under MergeReplace prior entries are discarded. Empty strings are dropped
// and duplicates collapse regardless of policy.
func Merge(prior, fresh []string, policy MergePolicy) []string {
	set := make(map[string]struct{}, len(prior)+len(fresh))
	if policy == MergeUnion {
		for _, e := range prior {
			if e != "" {
				set[e] = struct{}{}
			}
		}
	}
	for _, e := range fresh {
		if e != "" {
			set[e] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	SortEntries(out)
	return out
}

// SortEntries sorts entries in place under Unicode case folding, so "apple"
// and "Apple" end up adjacent and "ß" orders with "ss". Content is
// case-preserving; only the sort key is folded. Entries equal under folding
// are ordered byte-wise to keep the output deterministic.
func SortEntries(entries []string) {
	fold := cases.Fold()
	sort.Slice(entries, func(i, j int) bool {
		ki, kj := fold.String(entries[i]), fold.String(entries[j])
		if ki != kj {
			return ki < kj
		}
		return entries[i] < entries[j]
	})
}
