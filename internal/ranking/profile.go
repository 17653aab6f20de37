package ranking

import "realestate-marketplace/internal/models"

// Profile is the per-call view of a user's signals.
type Profile struct {
	UserID     string
	Preference *models.UserPreference
	HistoryIDs []string
	Locations  []string
	Types      []string
	SavedIDs   []string

	history   map[string]struct{}
	locations map[string]struct{}
	types     map[string]struct{}
	saved     map[string]struct{}
}

// NewProfile derives the distinct non-empty locations and types of the
// viewed items, keeping first-seen order.
func NewProfile[T Item](userID string, pref *models.UserPreference, historyIDs, savedIDs []string, viewed []T) *Profile {
	p := &Profile{
		UserID:     userID,
		Preference: pref,
		HistoryIDs: historyIDs,
		SavedIDs:   savedIDs,
		history:    toSet(historyIDs),
		locations:  make(map[string]struct{}),
		types:      make(map[string]struct{}),
		saved:      toSet(savedIDs),
	}
	for _, it := range viewed {
		if loc := it.ItemLocation(); loc != "" {
			if _, ok := p.locations[loc]; !ok {
				p.locations[loc] = struct{}{}
				p.Locations = append(p.Locations, loc)
			}
		}
		if typ := it.ItemType(); typ != "" {
			if _, ok := p.types[typ]; !ok {
				p.types[typ] = struct{}{}
				p.Types = append(p.Types, typ)
			}
		}
	}
	return p
}

func (p *Profile) IsSaved(id string) bool {
	_, ok := p.saved[id]
	return ok
}

func (p *Profile) viewed(id string) bool {
	_, ok := p.history[id]
	return ok
}

func (p *Profile) sharesLocation(loc string) bool {
	if loc == "" {
		return false
	}
	_, ok := p.locations[loc]
	return ok
}

func (p *Profile) sharesType(typ string) bool {
	if typ == "" {
		return false
	}
	_, ok := p.types[typ]
	return ok
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
