// Package search answers natural-language catalog searches from
// Elasticsearch, falling back to Postgres when the index is unavailable.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"realestate-marketplace/internal/common/config"
	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/common/observability"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/store"
)

var ErrSearchFailed = errors.New("search query failed")

// Source names the backend that answered a search.
type Source string

const (
	SourceElasticsearch Source = "elasticsearch"
	SourcePostgres      Source = "postgres"
)

const breakerName = "elasticsearch"

type PropertyFallback interface {
	Search(ctx context.Context, q store.PropertyQuery) ([]models.Property, error)
}

type FurnitureFallback interface {
	Search(ctx context.Context, q store.FurnitureQuery) ([]models.Furniture, error)
}

type Service struct {
	es         *elasticsearch.Client
	breaker    *gobreaker.CircuitBreaker[[]json.RawMessage]
	cfg        config.SearchConfig
	properties PropertyFallback
	furniture  FurnitureFallback
	logger     logger.Logger
}

// NewService builds the search service. A nil es client sends every search
// straight to Postgres.
func NewService(es *elasticsearch.Client, cfg config.SearchConfig, properties PropertyFallback, furniture FurnitureFallback, log logger.Logger) *Service {
	log = log.WithFields(map[string]interface{}{"component": "search"})
	return &Service{
		es:         es,
		breaker:    newBreaker(cfg, log),
		cfg:        cfg,
		properties: properties,
		furniture:  furniture,
		logger:     log,
	}
}

func newBreaker(cfg config.SearchConfig, log logger.Logger) *gobreaker.CircuitBreaker[[]json.RawMessage] {
	minRequests := cfg.Breaker.MinRequests
	ratio := cfg.Breaker.FailureRatio
	metrics.SearchBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[]json.RawMessage](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    config.GetDuration(cfg.Breaker.Interval),
		Timeout:     config.GetDuration(cfg.Breaker.Timeout),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SearchBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.Warn("search breaker state change", map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			})
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (s *Service) size() int {
	if s.cfg.MaxResults > 0 {
		return s.cfg.MaxResults
	}
	return 50
}

// SearchProperties filters properties on the extracted location, type and
// features. A property matches when it carries any requested feature.
func (s *Service) SearchProperties(ctx context.Context, q models.ProcessedQuery) ([]models.Property, Source, error) {
	if s.es != nil {
		items, err := searchIndex[models.Property](ctx, s, s.cfg.PropertyIndex, buildPropertyQuery(q, s.size()))
		if err == nil {
			return items, SourceElasticsearch, nil
		}
		if ctx.Err() != nil {
			return nil, "", apperrors.NewQueryTimeoutError("search properties")
		}
		s.noteFallback(s.cfg.PropertyIndex, err)
	} else {
		metrics.SearchFallbacks.WithLabelValues("disabled").Inc()
	}

	items, err := s.properties.Search(ctx, store.PropertyQuery{
		Location:     q.Location,
		PropertyType: q.PropertyType,
		Features:     q.Features,
		AnyFeature:   true,
		Limit:        s.size(),
	})
	if err != nil {
		return nil, "", apperrors.NewUpstreamReadFailureError("search properties", err)
	}
	return items, SourcePostgres, nil
}

// SearchFurniture returns the furniture catalog ordered by relevance to the
// free text.
func (s *Service) SearchFurniture(ctx context.Context, q models.ProcessedQuery) ([]models.Furniture, Source, error) {
	if s.es != nil {
		items, err := searchIndex[models.Furniture](ctx, s, s.cfg.FurnitureIndex, buildFurnitureQuery(q, s.size()))
		if err == nil {
			return items, SourceElasticsearch, nil
		}
		if ctx.Err() != nil {
			return nil, "", apperrors.NewQueryTimeoutError("search furniture")
		}
		s.noteFallback(s.cfg.FurnitureIndex, err)
	} else {
		metrics.SearchFallbacks.WithLabelValues("disabled").Inc()
	}

	items, err := s.furniture.Search(ctx, store.FurnitureQuery{Limit: s.size()})
	if err != nil {
		return nil, "", apperrors.NewUpstreamReadFailureError("search furniture", err)
	}
	return items, SourcePostgres, nil
}

func (s *Service) noteFallback(index string, err error) {
	reason := "search_error"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		reason = "breaker_open"
	}
	metrics.SearchFallbacks.WithLabelValues(reason).Inc()
	s.logger.Warn("falling back to postgres search", map[string]interface{}{
		"index":  index,
		"reason": reason,
		"error":  err.Error(),
	})
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func searchIndex[T any](ctx context.Context, s *Service, index string, body map[string]interface{}) ([]T, error) {
	sources, err := s.breaker.Execute(func() ([]json.RawMessage, error) {
		return s.query(ctx, index, body)
	})
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(sources))
	for _, src := range sources {
		var item T
		if err := json.Unmarshal(src, &item); err != nil {
			return nil, fmt.Errorf("%w: decode hit from %s: %v", ErrSearchFailed, index, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) query(ctx context.Context, index string, body map[string]interface{}) (hits []json.RawMessage, err error) {
	ctx, span := observability.StartSpan(ctx, "elasticsearch.search", attribute.String("db.elasticsearch.index", index))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "search failed")
		}
		span.SetAttributes(attribute.Int("search.hits", len(hits)))
		span.End()
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}
	sources := make([]json.RawMessage, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		sources = append(sources, hit.Source)
	}
	return sources, nil
}
