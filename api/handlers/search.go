// ABOUTME: Search handler for the Huma API
// ABOUTME: Exposes the ranked search pipeline at GET /search

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"ai-search-api/core/domain"
	"ai-search-api/core/search"
)

// SearchService defines the methods needed from the search service
type SearchService interface {
	Search(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error)
	Stats(ctx context.Context) (*domain.StatsSummary, error)
	Health(ctx context.Context) domain.HealthStatus
}

// SearchHandler handles search requests
type SearchHandler struct {
	service SearchService
	timeout time.Duration
}

// NewSearchHandler creates a new search handler. A positive timeout bounds each request.
func NewSearchHandler(service SearchService, timeout time.Duration) *SearchHandler {
	return &SearchHandler{
		service: service,
		timeout: timeout,
	}
}

// RegisterRoutes registers the search route
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Perform an AI-enhanced search",
		Description: "Classifies the query, fans it out to the routed engines and returns results ranked by metadata and semantic relevance",
		Tags:        []string{"Search"},
	}, h.Search)
}

// SearchInput defines the query parameters of GET /search
type SearchInput struct {
	Query      string `query:"q" required:"true" minLength:"1" maxLength:"512" doc:"Search query"`
	Limit      int    `query:"limit" minimum:"1" maximum:"20" default:"8" doc:"Maximum results to return"`
	DomainHint string `query:"domain_hint" doc:"Optional domain bias hint (reserved)"`
}

// SearchOutput wraps the search response
type SearchOutput struct {
	Body domain.SearchResponse
}

// Search handles GET /search
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.service.Search(ctx, search.SearchRequest{
		Query:      strings.TrimSpace(input.Query),
		Limit:      input.Limit,
		DomainHint: input.DomainHint,
	})
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: *resp}, nil
}
