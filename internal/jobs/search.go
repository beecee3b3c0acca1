// internal/jobs/search.go
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"interview-portal/internal/models"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SearchQuery filters the job index.
type SearchQuery struct {
	Keywords       string
	Location       string
	EmploymentType string
	From           int
	Size           int
}

// Search runs job queries against Elasticsearch.
type Search struct {
	client *elasticsearch.Client
	index  string
}

func NewSearch(client *elasticsearch.Client, index string) *Search {
	if index == "" {
		index = "jobs"
	}
	return &Search{client: client, index: index}
}

func (q SearchQuery) normalized() SearchQuery {
	if q.Size < 1 {
		q.Size = defaultSearchSize
	}
	if q.Size > maxSearchSize {
		q.Size = maxSearchSize
	}
	if q.From < 0 {
		q.From = 0
	}
	return q
}

func buildSearchBody(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  kw,
				"fields": []string{"title^3", "skills^2", "company", "description"},
				"type":   "best_fields",
			},
		})
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"location": loc},
		})
	}
	if et := strings.TrimSpace(q.EmploymentType); et != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"employmentType.keyword": et},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"postedAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string     `json:"_id"`
			Source models.Job `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// indexMapping matches what dynamic mapping infers for a job document.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "title":          {"type": "text"},
      "company":        {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "location":       {"type": "text"},
      "description":    {"type": "text"},
      "employmentType": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "skills":         {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "postedAt":       {"type": "date"}
    }
  }
}`

// EnsureIndex creates the job index with its mapping when it does not exist.
func (s *Search) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	if exists.StatusCode != 404 {
		return fmt.Errorf("check index %s: %s", s.index, exists.Status())
	}

	res, err := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, res.Status())
	}
	return nil
}

// Find returns one page of matching jobs.
func (s *Search) Find(ctx context.Context, q SearchQuery) (*models.JobSearchResult, error) {
	q = q.normalized()

	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &q.From,
		Size:  &q.Size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.Status())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	out := &models.JobSearchResult{Total: sr.Hits.Total.Value, Jobs: make([]models.Job, 0, len(sr.Hits.Hits))}
	for _, h := range sr.Hits.Hits {
		job := h.Source
		if job.ID == "" {
			job.ID = h.ID
		}
		if job.Skills == nil {
			job.Skills = []string{}
		}
		out.Jobs = append(out.Jobs, job)
	}
	return out, nil
}

// Index writes one job document, replacing any existing one.
func (s *Search) Index(ctx context.Context, job models.Job) error {
	if job.PostedAt.IsZero() {
		job.PostedAt = time.Now().UTC()
	}
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: job.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index job %s: %w", job.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job %s: %s", job.ID, res.Status())
	}
	return nil
}
