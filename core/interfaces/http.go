package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the interface for outbound HTTP calls made by the
// aggregator and relevance model adapters. Keeping it behind an interface
// lets tests substitute canned responses without a network.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string) (Response, error)

	// Post performs an HTTP POST request with a JSON body.
	// The caller owns the body reader.
	Post(ctx context.Context, url string, body io.Reader) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header (case-insensitive).
	Header(key string) string
}
