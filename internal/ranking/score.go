package ranking

import "sort"

const (
	scoreViewed       = 5
	scoreSameLocation = 3
	scoreSameType     = 2
	scoreSaved        = -1
)

// Score weighs a candidate against the profile. Saved items score -1.
func Score[T Item](item T, p *Profile) int {
	if p.IsSaved(item.ItemID()) {
		return scoreSaved
	}
	score := 0
	if p.viewed(item.ItemID()) {
		score += scoreViewed
	}
	if p.sharesLocation(item.ItemLocation()) {
		score += scoreSameLocation
	}
	if p.sharesType(item.ItemType()) {
		score += scoreSameType
	}
	return score
}

type scored[T Item] struct {
	item  T
	score int
}

// Rank drops saved candidates, sorts the rest by score descending keeping
// pool order on ties, and truncates to limit.
func Rank[T Item](pool []T, p *Profile, limit int) []T {
	candidates := make([]scored[T], 0, len(pool))
	for _, it := range pool {
		s := Score(it, p)
		if s < 0 {
			continue
		}
		candidates = append(candidates, scored[T]{item: it, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]T, len(candidates))
	for i, c := range candidates {
		out[i] = c.item
	}
	return out
}
