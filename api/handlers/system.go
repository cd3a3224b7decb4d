// ABOUTME: Health and statistics handlers for the Huma API
// ABOUTME: Reports collaborator reachability and cumulative usage counters

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"ai-search-api/core/domain"
)

// SystemHandler serves operational endpoints
type SystemHandler struct {
	service SearchService
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(service SearchService) *SystemHandler {
	return &SystemHandler{service: service}
}

// RegisterRoutes registers the health and stats routes
func (h *SystemHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health check",
		Description: "Checks the store, the search backend and the relevance model. Always 200; see status.",
		Tags:        []string{"System"},
	}, h.Health)

	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Aggregated query statistics",
		Description: "Returns cumulative counters recorded by the search pipeline",
		Tags:        []string{"System"},
	}, h.Stats)
}

// HealthOutput wraps the health status
type HealthOutput struct {
	Body domain.HealthStatus
}

// Health handles GET /health
func (h *SystemHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: h.service.Health(ctx)}, nil
}

// StatsOutput wraps the usage summary
type StatsOutput struct {
	Body domain.StatsSummary
}

// Stats handles GET /stats
func (h *SystemHandler) Stats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	summary, err := h.service.Stats(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &StatsOutput{Body: *summary}, nil
}
