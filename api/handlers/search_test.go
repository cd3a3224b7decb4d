package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-search-api/core/domain"
	coreerrors "ai-search-api/core/errors"
	"ai-search-api/core/search"
)

func TestSearchHandler_RegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	NewSearchHandler(&mockSearchService{}, 0).RegisterRoutes(api)

	path := api.OpenAPI().Paths["/search"]
	require.NotNil(t, path)
	require.NotNil(t, path.Get)
	assert.Equal(t, "search", path.Get.OperationID)
}

func TestSearchHandler_Search(t *testing.T) {
	var captured search.SearchRequest
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			captured = req
			return &domain.SearchResponse{
				Query:         req.Query,
				ExpandedQuery: req.Query + " gene editing",
				Intent:        domain.IntentBiomedical,
				QueryTimeMS:   12.5,
				Results: []domain.SearchResult{{
					Title:        "CRISPR review",
					URL:          "https://pubmed.ncbi.nlm.nih.gov/1/",
					Domain:       "pubmed.ncbi.nlm.nih.gov",
					SourceEngine: "pubmed",
					FinalScore:   0.9,
				}},
			}, nil
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, time.Second).RegisterRoutes(api)

	resp := api.Get("/search?q=%20crispr%20&limit=3&domain_hint=pubmed")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "crispr", captured.Query)
	assert.Equal(t, 3, captured.Limit)
	assert.Equal(t, "pubmed", captured.DomainHint)

	var body domain.SearchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, domain.IntentBiomedical, body.Intent)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "pubmed", body.Results[0].SourceEngine)
}

func TestSearchHandler_DefaultLimit(t *testing.T) {
	var captured search.SearchRequest
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			captured = req
			return &domain.SearchResponse{Results: []domain.SearchResult{}}, nil
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, 0).RegisterRoutes(api)

	resp := api.Get("/search?q=golang")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 8, captured.Limit)
}

func TestSearchHandler_SchemaValidation(t *testing.T) {
	called := false
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			called = true
			return &domain.SearchResponse{}, nil
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, 0).RegisterRoutes(api)

	for _, path := range []string{
		"/search",
		"/search?q=",
		"/search?q=x&limit=0",
		"/search?q=x&limit=21",
	} {
		t.Run(path, func(t *testing.T) {
			resp := api.Get(path)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		})
	}
	assert.False(t, called)
}

func TestSearchHandler_BlankQueryIs400(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			return nil, &coreerrors.ValidationError{Field: "q", Message: "query cannot be blank"}
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, 0).RegisterRoutes(api)

	resp := api.Get("/search?q=%20%20")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "query cannot be blank")
}

func TestSearchHandler_UpstreamFailureIs502(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			return nil, &coreerrors.UpstreamError{Service: "searxng", Retryable: true, Err: errors.New("connection refused")}
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, 0).RegisterRoutes(api)

	resp := api.Get("/search?q=anything")

	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestSearchHandler_TimeoutIs504(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	_, api := humatest.New(t)
	NewSearchHandler(service, 20*time.Millisecond).RegisterRoutes(api)

	resp := api.Get("/search?q=slow")

	assert.Equal(t, http.StatusGatewayTimeout, resp.Code)
}
