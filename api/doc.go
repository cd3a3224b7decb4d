// Package api provides the HTTP API layer for the search service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration, CORS and middleware chain
// - handlers/: HTTP request handlers for /search, /health and /stats
// - middleware/: request logging with request IDs and per-client rate limiting
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// The API automatically generates OpenAPI 3.1 documentation:
// - JSON spec available at /openapi.json
// - Interactive docs at /docs
//
// 2. Request Validation
//
// Query parameters are validated from struct tags before the handler runs:
//
//	type SearchInput struct {
//	    Query string `query:"q" required:"true" minLength:"1" maxLength:"512"`
//	    Limit int    `query:"limit" minimum:"1" maximum:"20" default:"8"`
//	}
//
// Schema violations return 422. A query that is only whitespace passes the
// schema and is rejected by the search service with 400.
//
// # Usage Example
//
//	limiter := middleware.NewRateLimiter(60, time.Minute, middleware.WithTrustedProxies(1))
//	defer limiter.Close()
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:      logger,
//	    RateLimiter: limiter,
//	    Flags:       flags,
//	})
//	api.RegisterRoutes(humaAPI, searchService, 30*time.Second)
//	http.ListenAndServe(":7777", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Domain errors map to:
// validation 400, search backend failure 502, stats store failure 503,
// request timeout 504, anything else 500.
package api
