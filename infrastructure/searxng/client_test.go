package searxng

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "ai-search-api/core/errors"
	"ai-search-api/core/interfaces"
	"ai-search-api/infrastructure/http/standard"
)

var _ interfaces.SearchAggregator = (*Client)(nil)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *mockLogger) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := &mockLogger{}
	return NewClient(server.URL+"/", standard.NewStandardHTTPClient(5*time.Second), logger), logger
}

func TestClient_Search_RequestParams(t *testing.T) {
	var captured *http.Request
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"results":[]}`)
	})

	results, err := client.Search(context.Background(), "crispr off-target", []string{"pubmed", "ddg"}, []string{"science"})
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NotNil(t, captured)
	assert.Equal(t, "/search", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, "crispr off-target", q.Get("q"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "pubmed,ddg", q.Get("engines"))
	assert.Equal(t, "science", q.Get("categories"))
}

func TestClient_Search_NormalizesRecords(t *testing.T) {
	client, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"title":"  CRISPR review  ","url":"https://pubmed.ncbi.nlm.nih.gov/1/","content":"<b>gene</b> editing","engine":"pubmed","score":2.5,"publishedDate":"2024-03-01T10:00:00"},
			{"title":"","url":"https://example.com/a","engine":"ddg","score":"0.75"},
			{"title":"no url","engine":"ddg","score":1},
			{"title":"bad score","url":"https://example.com/b","engine":"ddg","score":"high"},
			"not an object",
			{"title":"Year only","url":"https://example.com/c","engine":"brave","publishedDate":"2021"},
			{"title":"Bad date","url":"https://example.com/d","engine":"brave","publishedDate":"yesterday"}
		]}`)
	})

	results, err := client.Search(context.Background(), "crispr", []string{"pubmed"}, []string{"science"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	first := results[0]
	assert.Equal(t, "CRISPR review", first.Title)
	assert.Equal(t, "<b>gene</b> editing", first.Content)
	assert.Equal(t, "pubmed", first.Engine)
	assert.Equal(t, 2.5, first.Score)
	assert.Equal(t, 0, first.EngineRank)
	require.NotNil(t, first.PublishedDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *first.PublishedDate)

	second := results[1]
	assert.Equal(t, UntitledResult, second.Title)
	assert.Equal(t, 0.75, second.Score)
	assert.Equal(t, 1, second.EngineRank)
	assert.Nil(t, second.PublishedDate)

	third := results[2]
	assert.Equal(t, "Year only", third.Title)
	assert.Equal(t, 5, third.EngineRank)
	require.NotNil(t, third.PublishedDate)
	assert.Equal(t, 2021, third.PublishedDate.Year())

	assert.Nil(t, results[3].PublishedDate)
	assert.Equal(t, 6, results[3].EngineRank)

	assert.Equal(t, 3, logger.count("warn"))
}

func TestClient_Search_MissingScoreIsZero(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"title":"t","url":"https://example.com","score":null}]}`)
	})

	results, err := client.Search(context.Background(), "q", nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestClient_Search_NonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "q", []string{"ddg"}, []string{"general"})

	require.Error(t, err)
	assert.True(t, coreerrors.IsExternalAPI(err))
}

func TestClient_Search_InvalidEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})

	_, err := client.Search(context.Background(), "q", []string{"ddg"}, []string{"general"})

	assert.Error(t, err)
}

func TestClient_Search_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", standard.NewStandardHTTPClient(time.Second), &mockLogger{})

	_, err := client.Search(context.Background(), "q", []string{"ddg"}, []string{"general"})

	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		fmt.Fprint(w, "ok")
	})
	assert.NoError(t, client.Ping(context.Background()))

	down, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := down.Ping(context.Background())
	assert.True(t, coreerrors.IsExternalAPI(err))
}
