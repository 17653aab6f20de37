package search

import (
	"realestate-marketplace/internal/models"
)

// Index mappings. location is text so phrase matching mirrors the Postgres
// ILIKE fallback; property_type compares case-insensitively.
const (
	PropertyMapping = `{
  "settings": {
    "analysis": {
      "normalizer": {
        "lowercase": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  },
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "title":         {"type": "text"},
      "price":         {"type": "keyword", "index": false},
      "price_numeric": {"type": "double"},
      "location":      {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "property_type": {"type": "keyword", "normalizer": "lowercase"},
      "beds":          {"type": "integer"},
      "baths":         {"type": "integer"},
      "area":          {"type": "keyword", "index": false},
      "image":         {"type": "keyword", "index": false},
      "features":      {"type": "keyword"},
      "created_at":    {"type": "date"},
      "updated_at":    {"type": "date"}
    }
  }
}`

	FurnitureMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "title":         {"type": "text"},
      "description":   {"type": "text"},
      "category":      {"type": "keyword"},
      "price":         {"type": "keyword", "index": false},
      "price_numeric": {"type": "double"},
      "rating":        {"type": "float"},
      "reviews":       {"type": "integer"},
      "image":         {"type": "keyword", "index": false},
      "created_at":    {"type": "date"},
      "updated_at":    {"type": "date"}
    }
  }
}`
)

var newestFirst = []interface{}{
	"_score",
	map[string]interface{}{"created_at": map[string]interface{}{"order": "desc", "missing": "_last"}},
	map[string]interface{}{"id": "asc"},
}

// buildPropertyQuery filters on the extracted location, type and features.
// Remaining free text only boosts relevance.
func buildPropertyQuery(q models.ProcessedQuery, size int) map[string]interface{} {
	filterClauses := []interface{}{}

	if q.Location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match_phrase": map[string]interface{}{"location": q.Location},
		})
	}
	if q.PropertyType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"property_type": q.PropertyType},
		})
	}
	if len(q.Features) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"features": q.Features},
		})
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if q.Text != "" {
		boolQuery["should"] = []interface{}{textClause(q.Text, "title^3", "location")}
	}

	return map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  newestFirst,
	}
}

// buildFurnitureQuery returns the whole catalog ranked by how well it matches
// the free text.
func buildFurnitureQuery(q models.ProcessedQuery, size int) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}
	if q.Text != "" {
		boolQuery["should"] = []interface{}{textClause(q.Text, "title^3", "description^2", "category")}
	}
	return map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  newestFirst,
	}
}

func textClause(text string, fields ...string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  text,
			"fields": fields,
			"type":   "best_fields",
		},
	}
}
