package save

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// suggestion cutoff: a typo'd slot name is close; an unrelated one is not.
const maxSuggestDistance = 3

// ClosestSlot finds the existing slot key nearest to a missing one, for
// "did you mean" hints on failed loads. Ties break alphabetically.
func ClosestSlot(slots map[string]Snapshot, key string) (string, bool) {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, k := range keys {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
