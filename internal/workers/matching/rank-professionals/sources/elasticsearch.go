// internal/workers/matching/rank-professionals/sources/elasticsearch.go
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"marketplace-workers/internal/matching"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrIndexNotFound = errors.New("index not found")

// professionalMapping keeps id and serviceCategories as keyword so the
// category term filter matches exactly and id can be sorted on.
const professionalMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"name": {"type": "text"},
			"rating": {"type": "float"},
			"totalReviews": {"type": "integer"},
			"totalJobsCompleted": {"type": "integer"},
			"yearsExperience": {"type": "integer"},
			"isActive": {"type": "boolean"},
			"isAvailable": {"type": "boolean"},
			"isVerified": {"type": "boolean"},
			"isPremium": {"type": "boolean"},
			"latitude": {"type": "double"},
			"longitude": {"type": "double"},
			"serviceCategories": {"type": "keyword"},
			"offerings": {
				"properties": {
					"id": {"type": "keyword"},
					"title": {"type": "text"},
					"price": {"type": "double"}
				}
			}
		}
	}
}`

// ElasticsearchSource reads professional documents whose _source mirrors
// matching.Professional. Results are paged with search_after in pages of
// pageSize until the category is exhausted.
type ElasticsearchSource struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, pageSize int) *ElasticsearchSource {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &ElasticsearchSource{client: client, index: index, pageSize: pageSize}
}

// EnsureIndex creates the professional index with its keyword mapping when
// it does not exist yet. An existing index is left untouched.
func (s *ElasticsearchSource) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", s.index, res.Status())
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(professionalMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var body struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&body)
		// Another replica won the race.
		if body.Error.Type == "resource_already_exists_exception" {
			return nil
		}
		return fmt.Errorf("create index %s: %s %s", s.index, res.Status(), body.Error.Type)
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                `json:"_id"`
			Source matching.Professional `json:"_source"`
			Sort   []interface{}         `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildCategoryQuery(category string, size int, after []interface{}) map[string]interface{} {
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"serviceCategories": category},
					},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
	if len(after) > 0 {
		query["search_after"] = after
	}
	return query
}

func (s *ElasticsearchSource) ListByCategory(ctx context.Context, category string) ([]matching.Professional, error) {
	if category == "" {
		return nil, ErrEmptyCategory
	}

	var (
		pros  []matching.Professional
		after []interface{}
	)
	for {
		page, err := s.searchPage(ctx, category, after)
		if err != nil {
			return nil, err
		}
		for _, hit := range page.Hits.Hits {
			p := hit.Source
			if p.ID == "" {
				p.ID = hit.ID
			}
			pros = append(pros, p)
		}

		hits := page.Hits.Hits
		if len(hits) < s.pageSize || len(hits[len(hits)-1].Sort) == 0 {
			break
		}
		after = hits[len(hits)-1].Sort
	}

	if pros == nil {
		pros = []matching.Professional{}
	}
	return pros, nil
}

func (s *ElasticsearchSource) searchPage(ctx context.Context, category string, after []interface{}) (*searchResponse, error) {
	body, err := json.Marshal(buildCategoryQuery(category, s.pageSize, after))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &parsed, nil
}
