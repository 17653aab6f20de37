// Package ranking builds personalized recommendation lists for any catalog
// whose items expose an id, a location and a type.
//
// A call loads the user's profile (preferences, recent views, saved items),
// runs an ordered list of candidate sources through Fill until enough usable
// candidates are collected, then scores and truncates the pool. When a
// context item is supplied the profile is ignored and candidates come from a
// single type allow-list query instead.
package ranking

import (
	"context"
	"errors"
	"strings"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/models"
)

const (
	DefaultLimit        = 6
	DefaultHistoryDepth = 10
	DefaultOverfetch    = 2
)

// ErrContextNotFound is returned by a ContextResolver when the context item
// does not exist.
var ErrContextNotFound = errors.New("context item not found")

// Item is the capability the ranking needs from a catalog row.
type Item interface {
	ItemID() string
	ItemLocation() string
	ItemType() string
}

type Order int

const (
	OrderNone Order = iota
	OrderPriceDesc
)

// Filter is a catalog query. Zero values mean "no constraint". Locations and
// Types are ANDed unless MatchAny is set, in which case a row matching either
// set qualifies.
type Filter struct {
	MinPrice   *float64
	MaxPrice   *float64
	MinBeds    *int
	MinBaths   *int
	Locations  []string
	Types      []string
	MatchAny   bool
	ExcludeIDs []string
	OrderBy    Order
	Limit      int
}

// Catalog is a read-only record set of T.
type Catalog[T Item] interface {
	Find(ctx context.Context, f Filter) ([]T, error)
	FindByIDs(ctx context.Context, ids []string) ([]T, error)
}

// Signals exposes the per-user inputs. Preference returns nil, nil when the
// user has none.
type Signals interface {
	Preference(ctx context.Context, userID string) (*models.UserPreference, error)
	RecentViews(ctx context.Context, userID string, n int) ([]string, error)
	SavedIDs(ctx context.Context, userID string) ([]string, error)
}

// ContextResolver maps a context item to the item types compatible with it.
// A nil slice means no restriction.
type ContextResolver interface {
	AllowedTypes(ctx context.Context, contextID string) ([]string, error)
}

type Request struct {
	UserID    string
	Limit     int
	ContextID string
}

type Options struct {
	DefaultLimit int
	HistoryDepth int
	Overfetch    int
	// Observer, when set, is told how many new candidates each stage added.
	Observer func(stage string, added int)
}

type Recommender[T Item] struct {
	catalog  Catalog[T]
	signals  Signals
	resolver ContextResolver
	sources  []Source[T]
	opts     Options
}

// NewRecommender wires the standard preference, history and popularity
// sources. resolver may be nil when the catalog has no context mode.
func NewRecommender[T Item](catalog Catalog[T], signals Signals, resolver ContextResolver, opts Options) *Recommender[T] {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.HistoryDepth <= 0 {
		opts.HistoryDepth = DefaultHistoryDepth
	}
	if opts.Overfetch <= 0 {
		opts.Overfetch = DefaultOverfetch
	}
	return &Recommender[T]{
		catalog:  catalog,
		signals:  signals,
		resolver: resolver,
		sources: []Source[T]{
			PreferenceSource(catalog, opts.Overfetch),
			HistorySource(catalog),
			PopularitySource(catalog),
		},
		opts: opts,
	}
}

// WithSources replaces the candidate sources, keeping their order.
func (r *Recommender[T]) WithSources(sources ...Source[T]) *Recommender[T] {
	r.sources = sources
	return r
}

// Recommend returns at most Limit items for the user. Store failures abort the
// call as an upstream read failure; an empty result is not an error.
func (r *Recommender[T]) Recommend(ctx context.Context, req Request) ([]T, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperrors.NewInvalidRequestError("user_id is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = r.opts.DefaultLimit
	}

	if req.ContextID != "" && r.resolver != nil {
		return r.recommendForContext(ctx, req.ContextID, limit)
	}

	profile, err := r.LoadProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	pool, err := Fill(ctx, profile, limit, r.sources, r.opts.Observer)
	if err != nil {
		return nil, apperrors.NewUpstreamReadFailureError("recommend", err)
	}
	return Rank(pool, profile, limit), nil
}

func (r *Recommender[T]) recommendForContext(ctx context.Context, contextID string, limit int) ([]T, error) {
	allowed, err := r.resolver.AllowedTypes(ctx, contextID)
	if err != nil {
		if errors.Is(err, ErrContextNotFound) {
			return nil, apperrors.NewInvalidRequestError(ErrContextNotFound.Error())
		}
		return nil, apperrors.NewUpstreamReadFailureError("resolve context item", err)
	}

	items, err := r.catalog.Find(ctx, Filter{Types: allowed, Limit: limit})
	if err != nil {
		return nil, apperrors.NewUpstreamReadFailureError("context candidates", err)
	}
	if r.opts.Observer != nil {
		r.opts.Observer("context", len(items))
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// LoadProfile reads the user's preference, recent views and saved ids, then
// resolves the viewed items to derive history locations and types.
func (r *Recommender[T]) LoadProfile(ctx context.Context, userID string) (*Profile, error) {
	pref, err := r.signals.Preference(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUpstreamReadFailureError("load preference", err)
	}
	historyIDs, err := r.signals.RecentViews(ctx, userID, r.opts.HistoryDepth)
	if err != nil {
		return nil, apperrors.NewUpstreamReadFailureError("load view history", err)
	}
	savedIDs, err := r.signals.SavedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUpstreamReadFailureError("load saved items", err)
	}

	var viewed []T
	if len(historyIDs) > 0 {
		viewed, err = r.catalog.FindByIDs(ctx, historyIDs)
		if err != nil {
			return nil, apperrors.NewUpstreamReadFailureError("load viewed items", err)
		}
	}

	return NewProfile(userID, pref, historyIDs, savedIDs, viewed), nil
}
