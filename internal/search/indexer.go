package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"realestate-marketplace/internal/common/config"
	"realestate-marketplace/internal/common/database"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/models"
)

// Indexer mirrors catalog writes into Elasticsearch. A nil *Indexer, or one
// without a client, ignores every call.
type Indexer struct {
	es             *elasticsearch.Client
	propertyIndex  string
	furnitureIndex string
	logger         logger.Logger
}

func NewIndexer(es *elasticsearch.Client, cfg config.SearchConfig, log logger.Logger) *Indexer {
	return &Indexer{
		es:             es,
		propertyIndex:  cfg.PropertyIndex,
		furnitureIndex: cfg.FurnitureIndex,
		logger:         log.WithFields(map[string]interface{}{"component": "search-indexer"}),
	}
}

func (i *Indexer) enabled() bool {
	return i != nil && i.es != nil
}

// EnsureIndexes creates the catalog indexes when missing.
func (i *Indexer) EnsureIndexes(ctx context.Context) error {
	if !i.enabled() {
		return nil
	}
	es := &database.ElasticsearchClient{Client: i.es}
	if err := es.EnsureIndex(ctx, i.propertyIndex, PropertyMapping); err != nil {
		return err
	}
	return es.EnsureIndex(ctx, i.furnitureIndex, FurnitureMapping)
}

func (i *Indexer) IndexProperty(ctx context.Context, p models.Property) error {
	return i.put(ctx, i.propertyIndex, p.ID, p)
}

func (i *Indexer) IndexFurniture(ctx context.Context, f models.Furniture) error {
	return i.put(ctx, i.furnitureIndex, f.ID, f)
}

func (i *Indexer) DeleteProperty(ctx context.Context, id string) error {
	return i.remove(ctx, i.propertyIndex, id)
}

func (i *Indexer) DeleteFurniture(ctx context.Context, id string) error {
	return i.remove(ctx, i.furnitureIndex, id)
}

func (i *Indexer) put(ctx context.Context, index, id string, doc interface{}) error {
	if !i.enabled() {
		return nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", index, id, err)
	}
	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("index %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s/%s: %s", index, id, res.String())
	}
	return nil
}

func (i *Indexer) remove(ctx context.Context, index, id string) error {
	if !i.enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s/%s: %s", index, id, res.String())
	}
	return nil
}

type document interface {
	ItemID() string
}

// BulkStats summarises a bulk reindex.
type BulkStats struct {
	Indexed uint64
	Failed  uint64
}

// BulkIndex streams every document produced by each into index.
func BulkIndex[T document](ctx context.Context, es *elasticsearch.Client, index string, each func(context.Context, func(T) error) error, log logger.Logger) (BulkStats, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		Index:         index,
		NumWorkers:    2,
		FlushBytes:    5e6,
		FlushInterval: 5 * time.Second,
	})
	if err != nil {
		return BulkStats{}, fmt.Errorf("create bulk indexer: %w", err)
	}

	walkErr := each(ctx, func(doc T) error {
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", doc.ItemID(), err)
		}
		return bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ItemID(),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				fields := map[string]interface{}{"index": index, "id": item.DocumentID}
				if err != nil {
					fields["error"] = err.Error()
				} else {
					fields["error"] = res.Error.Reason
				}
				log.Warn("bulk index item failed", fields)
			},
		})
	})

	if err := bi.Close(ctx); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("close bulk indexer: %w", err)
	}

	st := bi.Stats()
	stats := BulkStats{Indexed: st.NumFlushed, Failed: st.NumFailed}
	if walkErr != nil {
		return stats, walkErr
	}
	return stats, nil
}
