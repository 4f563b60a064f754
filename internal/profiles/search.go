// internal/profiles/search.go
package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "disc-workers/internal/common/errors"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
)

const DefaultIndex = "disc-profiles"

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"profileId":      map[string]interface{}{"type": "keyword"},
			"userId":         map[string]interface{}{"type": "keyword"},
			"primaryStyle":   map[string]interface{}{"type": "keyword"},
			"secondaryStyle": map[string]interface{}{"type": "keyword"},
			"completedAt":    map[string]interface{}{"type": "date"},
			"scores": map[string]interface{}{
				"properties": map[string]interface{}{
					"D": map[string]interface{}{"type": "integer"},
					"I": map[string]interface{}{"type": "integer"},
					"S": map[string]interface{}{"type": "integer"},
					"C": map[string]interface{}{"type": "integer"},
				},
			},
		},
	},
}

// ProfileDocument is the analytics view of a saved profile.
type ProfileDocument struct {
	ProfileID      string      `json:"profileId"`
	UserID         string      `json:"userId"`
	PrimaryStyle   disc.Trait  `json:"primaryStyle"`
	SecondaryStyle disc.Trait  `json:"secondaryStyle"`
	Scores         disc.Scores `json:"scores"`
	CompletedAt    time.Time   `json:"completedAt"`
}

// SearchIndex implements models.ProfileIndex on Elasticsearch.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &SearchIndex{client: client, index: index}
}

func (s *SearchIndex) Index() string {
	return s.index
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewExternalServiceError("elasticsearch", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = esapi.IndicesCreateRequest{Index: s.index, Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewExternalServiceError("elasticsearch", err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return apperrors.NewExternalServiceError("elasticsearch", fmt.Errorf("create index %s: %s", s.index, res.String()))
	}
	return nil
}

func (s *SearchIndex) IndexProfile(ctx context.Context, record *models.ProfileRecord) error {
	doc := ProfileDocument{
		ProfileID:      record.ID,
		UserID:         record.UserID,
		PrimaryStyle:   record.PrimaryStyle,
		SecondaryStyle: record.SecondaryStyle,
		Scores:         record.Scores,
		CompletedAt:    record.CompletedAt.UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewProfileIndexFailedError(err)
	}

	res, err := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewProfileIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewProfileIndexFailedError(fmt.Errorf("index profile %s: %s", record.ID, res.String()))
	}
	return nil
}

// buildDistributionQuery aggregates on primary style and averages every score.
func buildDistributionQuery(filter models.DistributionFilter) map[string]interface{} {
	var filters []interface{}
	if len(filter.UserIDs) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"userId": filter.UserIDs},
		})
	}
	if !filter.Since.IsZero() {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"completedAt": map[string]interface{}{"gte": filter.Since.UTC().Format(time.RFC3339)},
			},
		})
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if len(filters) > 0 {
		query = map[string]interface{}{"bool": map[string]interface{}{"filter": filters}}
	}

	aggs := map[string]interface{}{
		"by_style": map[string]interface{}{
			"terms": map[string]interface{}{"field": "primaryStyle", "size": len(disc.AllTraits)},
		},
	}
	for _, t := range disc.AllTraits {
		aggs["avg_"+string(t)] = map[string]interface{}{
			"avg": map[string]interface{}{"field": "scores." + string(t)},
		}
	}

	return map[string]interface{}{
		"size":             0,
		"track_total_hits": true,
		"query":            query,
		"aggs":             aggs,
	}
}

type distributionResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

type termsAgg struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int    `json:"doc_count"`
	} `json:"buckets"`
}

type avgAgg struct {
	Value *float64 `json:"value"`
}

func (s *SearchIndex) StyleDistribution(ctx context.Context, filter models.DistributionFilter) (*models.StyleDistribution, error) {
	qt := string(models.QueryTypeStyleDistribution)
	body, err := json.Marshal(buildDistributionQuery(filter))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(qt, err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchTimeoutError(qt)
		}
		return nil, apperrors.NewSearchQueryFailedError(qt, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(s.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(qt, fmt.Errorf("search failed: %s", res.String()))
	}

	var parsed distributionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(qt, err)
	}
	return parseDistribution(parsed)
}

func parseDistribution(parsed distributionResponse) (*models.StyleDistribution, error) {
	qt := string(models.QueryTypeStyleDistribution)
	out := &models.StyleDistribution{
		Distribution:  make(map[disc.Trait]int, len(disc.AllTraits)),
		Total:         parsed.Hits.Total.Value,
		AverageScores: make(map[disc.Trait]float64, len(disc.AllTraits)),
	}
	for _, t := range disc.AllTraits {
		out.Distribution[t] = 0
		out.AverageScores[t] = 0
	}

	if raw, ok := parsed.Aggregations["by_style"]; ok {
		var terms termsAgg
		if err := json.Unmarshal(raw, &terms); err != nil {
			return nil, apperrors.NewSearchQueryFailedError(qt, err)
		}
		for _, b := range terms.Buckets {
			t, err := disc.ParseTrait(b.Key)
			if err != nil {
				continue
			}
			out.Distribution[t] = b.DocCount
		}
	}

	for _, t := range disc.AllTraits {
		raw, ok := parsed.Aggregations["avg_"+string(t)]
		if !ok {
			continue
		}
		var avg avgAgg
		if err := json.Unmarshal(raw, &avg); err != nil {
			return nil, apperrors.NewSearchQueryFailedError(qt, err)
		}
		if avg.Value != nil {
			out.AverageScores[t] = *avg.Value
		}
	}
	return out, nil
}
