package ranking

import (
	"context"
	"fmt"
)

// Source is one candidate strategy. Fetch receives the ids to exclude
// (collected so far, then saved) and how many usable candidates are still
// needed.
type Source[T Item] struct {
	Name  string
	Fetch func(ctx context.Context, p *Profile, exclude []string, need int) ([]T, error)
}

// PreferenceSource queries the catalog with every bound in the user's
// preference record, over-fetching need*overfetch rows. Saved items are not
// excluded here; scoring drops them.
func PreferenceSource[T Item](catalog Catalog[T], overfetch int) Source[T] {
	return Source[T]{
		Name: "preference",
		Fetch: func(ctx context.Context, p *Profile, _ []string, need int) ([]T, error) {
			pref := p.Preference
			if pref == nil {
				return nil, nil
			}
			return catalog.Find(ctx, Filter{
				MinPrice:  pref.MinPrice,
				MaxPrice:  pref.MaxPrice,
				MinBeds:   pref.MinBeds,
				MinBaths:  pref.MinBaths,
				Locations: pref.PreferredLocations,
				Types:     pref.PreferredPropertyTypes,
				Limit:     need * overfetch,
			})
		},
	}
}

// HistorySource returns items sharing a location or a type with the user's
// recent views.
func HistorySource[T Item](catalog Catalog[T]) Source[T] {
	return Source[T]{
		Name: "history",
		Fetch: func(ctx context.Context, p *Profile, exclude []string, need int) ([]T, error) {
			if len(p.Locations) == 0 && len(p.Types) == 0 {
				return nil, nil
			}
			return catalog.Find(ctx, Filter{
				Locations:  p.Locations,
				Types:      p.Types,
				MatchAny:   true,
				ExcludeIDs: exclude,
				Limit:      need,
			})
		},
	}
}

// PopularitySource fills with the highest-priced items. Price is the only
// popularity signal available.
func PopularitySource[T Item](catalog Catalog[T]) Source[T] {
	return Source[T]{
		Name: "popularity",
		Fetch: func(ctx context.Context, _ *Profile, exclude []string, need int) ([]T, error) {
			return catalog.Find(ctx, Filter{
				ExcludeIDs: exclude,
				OrderBy:    OrderPriceDesc,
				Limit:      need,
			})
		},
	}
}

// Fill runs sources in order until limit usable (non-saved) candidates are
// collected, de-duplicating by id. The first source error aborts the fill.
func Fill[T Item](ctx context.Context, p *Profile, limit int, sources []Source[T], observe func(stage string, added int)) ([]T, error) {
	var pool []T
	seen := make(map[string]struct{})
	usable := 0

	for _, src := range sources {
		need := limit - usable
		if need <= 0 {
			break
		}

		exclude := make([]string, 0, len(pool)+len(p.SavedIDs))
		for _, it := range pool {
			exclude = append(exclude, it.ItemID())
		}
		exclude = append(exclude, p.SavedIDs...)

		items, err := src.Fetch(ctx, p, exclude, need)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", src.Name, err)
		}

		added := 0
		for _, it := range items {
			id := it.ItemID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			pool = append(pool, it)
			added++
			if !p.IsSaved(id) {
				usable++
			}
		}
		if observe != nil {
			observe(src.Name, added)
		}
	}
	return pool, nil
}
