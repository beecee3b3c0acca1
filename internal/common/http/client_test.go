// internal/common/http/client_test.go
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/j-1", r.URL.Path)
		assert.Equal(t, "yes", r.URL.Query().Get("expand"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"j-1"},"error":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 2*time.Second)
	env, status, err := c.DoJSON(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/api/jobs/j-1",
		Query:   url.Values{"expand": {"yes"}},
		Headers: http.Header{"X-Request-ID": {"req-1"}},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.HasData())
	assert.Empty(t, env.Error)
}

func TestDoJSON_PostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		var got map[string]string
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "j-1", got["jobId"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"app-1"}}`))
	}))
	defer srv.Close()

	env, status, err := NewClient(srv.URL, time.Second).DoJSON(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/v1/applications",
		Body:   map[string]string{"jobId": "j-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"id":"app-1"}`, string(env.Data))
}

func TestDoJSON_APIReportedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data":null,"error":"Job not found"}`))
	}))
	defer srv.Close()

	env, status, err := NewClient(srv.URL, time.Second).DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/api/jobs/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.HasData())
	assert.Equal(t, "Job not found", env.Error)
}

func TestDoJSON_StatusWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, status, err := NewClient(srv.URL, time.Second).DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/api/jobs/x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, status)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestDoJSON_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, _, err := NewClient(base, time.Second).DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/api/jobs/x"})
	assert.Error(t, err)
}
