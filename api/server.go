// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging and rate limiting

package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"ai-search-api/api/handlers"
	"ai-search-api/api/middleware"
	"ai-search-api/core/interfaces"
	"ai-search-api/pkg/featureflags"
)

const (
	apiTitle   = "AI Search API"
	apiVersion = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// RateLimiter enables per-client rate limiting when set. The caller owns
	// it and must Close it after the server stops.
	RateLimiter *middleware.RateLimiter

	// Flags switches rate limiting at request time; nil keeps it on
	Flags featureflags.Manager

	// AllowedOrigins defaults to all origins
	AllowedOrigins []string
}

// NewAPI creates and configures a new Huma API instance without middleware
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured.
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// Configure CORS (should be first middleware)
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "Retry-After"},
		MaxAge:         300,
	}).Handler)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimiter, cfg.Flags))
	}

	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "Search aggregation API: query analysis, multi-engine retrieval and relevance ranking"

	api := humachi.New(router, config)

	// The OpenAPI spec is automatically available at /openapi.json
	// The Swagger UI is automatically available at /docs

	return api, router
}

// RegisterRoutes mounts every handler on api
func RegisterRoutes(api huma.API, service handlers.SearchService, requestTimeout time.Duration) {
	handlers.NewSearchHandler(service, requestTimeout).RegisterRoutes(api)
	handlers.NewSystemHandler(service).RegisterRoutes(api)
}
