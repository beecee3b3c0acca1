package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "interview-portal/internal/common/http"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/models"
)

// ==========================
// API client
// ==========================

func TestAPIClient_GetByID(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantTitle string
		wantMsg   string
		wantErr   bool
	}{
		{name: "success", status: 200, body: `{"data":{"id":"job-1","title":"Backend Engineer"}}`, wantTitle: "Backend Engineer"},
		{name: "api reported error", status: 404, body: `{"data":null,"error":"Job is no longer open"}`, wantMsg: "Job is no longer open"},
		{name: "empty data", status: 200, body: `{"data":null}`, wantMsg: MessageJobNotFound},
		{name: "server failure", status: 502, body: `bad gateway`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/jobs/job-1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewAPIClient(commonhttp.NewClient(srv.URL, time.Second), "/api/jobs", nil)
			res, err := c.GetByID(context.Background(), "job-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrJobLookupFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, res.Error)
			if tt.wantTitle != "" {
				require.NotNil(t, res.Data)
				assert.Equal(t, tt.wantTitle, res.Data.Title)
				assert.NotNil(t, res.Data.Skills)
			}
		})
	}
}

func TestAPIClient_RequiresID(t *testing.T) {
	c := NewAPIClient(commonhttp.NewClient("http://unused", time.Second), "", nil)
	_, err := c.GetByID(context.Background(), "")
	assert.ErrorIs(t, err, ErrJobIDRequired)
}

// ==========================
// Repository
// ==========================

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	posted := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "company", "location", "description", "employment_type", "skills", "posted_at"}).
		AddRow("job-1", "Backend Engineer", "Acme", "Remote", "Build things", "full_time", "{go,sql}", posted)
	mock.ExpectQuery("SELECT id, title").WithArgs("job-1").WillReturnRows(rows)

	res, err := NewRepository(db).GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, []string{"go", "sql"}, res.Data.Skills)
	assert.Equal(t, posted, res.Data.PostedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	res, err := NewRepository(db).GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, MessageJobNotFound, res.Error)
	assert.Nil(t, res.Data)
}

func TestRepository_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title").WithArgs("job-1").WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(db).GetByID(context.Background(), "job-1")
	assert.ErrorIs(t, err, ErrJobLookupFailed)
}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO jobs").WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRepository(db).Upsert(context.Background(), models.Job{ID: "job-1", Title: "Engineer", Skills: []string{"go"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Cache
// ==========================

type countingLookup struct {
	calls int
	res   LookupResult
	err   error
}

func (c *countingLookup) GetByID(ctx context.Context, jobID string) (LookupResult, error) {
	c.calls++
	return c.res, c.err
}

func newCache(t *testing.T, next Lookup) (*CachedLookup, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedLookup(next, rdb, time.Minute, logger.NewTestLogger(t)), mr
}

func TestCachedLookup_CachesFoundJobs(t *testing.T) {
	src := &countingLookup{res: LookupResult{Data: &models.Job{ID: "job-1", Title: "Engineer"}}}
	cache, mr := newCache(t, src)

	for i := 0; i < 3; i++ {
		res, err := cache.GetByID(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, "Engineer", res.Data.Title)
	}
	assert.Equal(t, 1, src.calls)
	assert.True(t, mr.Exists("portal:job:job-1"))

	mr.FastForward(2 * time.Minute)
	_, err := cache.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCachedLookup_DoesNotCacheMessages(t *testing.T) {
	src := &countingLookup{res: LookupResult{Error: MessageJobNotFound}}
	cache, mr := newCache(t, src)

	for i := 0; i < 2; i++ {
		res, err := cache.GetByID(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, MessageJobNotFound, res.Error)
	}
	assert.Equal(t, 2, src.calls)
	assert.False(t, mr.Exists("portal:job:job-1"))
}

func TestCachedLookup_IgnoresCorruptEntry(t *testing.T) {
	src := &countingLookup{res: LookupResult{Data: &models.Job{ID: "job-1"}}}
	cache, mr := newCache(t, src)
	require.NoError(t, mr.Set("portal:job:job-1", "{not json"))

	res, err := cache.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.Equal(t, 1, src.calls)
}

func TestCachedLookup_Invalidate(t *testing.T) {
	src := &countingLookup{res: LookupResult{Data: &models.Job{ID: "job-1"}}}
	cache, mr := newCache(t, src)

	_, err := cache.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), "job-1"))
	assert.False(t, mr.Exists("portal:job:job-1"))
}

// ==========================
// Search
// ==========================

func newSearchServer(t *testing.T, handler http.HandlerFunc) *Search {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearch(es, "jobs")
}

func TestSearch_Find(t *testing.T) {
	var gotBody map[string]interface{}
	s := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/_search", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("size"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_id":"job-1","_source":{"title":"Go Engineer","skills":["go"]}},
			{"_id":"job-2","_source":{"id":"job-2","title":"SRE"}}
		]}}`)
	})

	res, err := s.Find(context.Background(), SearchQuery{Keywords: "go", Location: "Remote", Size: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, "job-1", res.Jobs[0].ID)
	assert.Equal(t, []string{}, res.Jobs[1].Skills)

	must := gotBody["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	assert.Len(t, must, 2)
}

func TestSearch_FindError(t *testing.T) {
	s := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"parsing_exception"}}`)
	})

	_, err := s.Find(context.Background(), SearchQuery{})
	assert.ErrorIs(t, err, ErrSearchQueryFailed)
}

func TestBuildSearchBody_MatchAllWhenEmpty(t *testing.T) {
	body := buildSearchBody(SearchQuery{})
	must := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
}

func TestBuildSearchBody_EmploymentTypeFiltersKeyword(t *testing.T) {
	body := buildSearchBody(SearchQuery{EmploymentType: " Full-time "})
	filter := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, filter, 1)
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"employmentType.keyword": "Full-time"},
	}, filter[0])
}

func TestSearch_EnsureIndexCreatesMapping(t *testing.T) {
	var created map[string]interface{}
	s := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &created))
			_, _ = io.WriteString(w, `{"acknowledged":true}`)
		default:
			t.Errorf("unexpected %s", r.Method)
		}
	})

	require.NoError(t, s.EnsureIndex(context.Background()))
	props := created["mappings"].(map[string]interface{})["properties"].(map[string]interface{})
	et := props["employmentType"].(map[string]interface{})
	assert.Equal(t, "keyword", et["fields"].(map[string]interface{})["keyword"].(map[string]interface{})["type"])
	assert.Equal(t, "date", props["postedAt"].(map[string]interface{})["type"])
}

func TestSearch_EnsureIndexKeepsExisting(t *testing.T) {
	calls := 0
	s := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, s.EnsureIndex(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestSearch_Index(t *testing.T) {
	s := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/jobs/_doc/job-1", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	require.NoError(t, s.Index(context.Background(), models.Job{ID: "job-1", Title: "Engineer"}))
}
