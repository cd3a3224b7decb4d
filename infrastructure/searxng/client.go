// ABOUTME: SearXNG JSON API client implementing the search aggregator
// ABOUTME: Normalizes loosely typed result records into raw candidates in aggregator rank order

package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"ai-search-api/core/domain"
	"ai-search-api/core/errors"
	"ai-search-api/core/interfaces"
	timeutil "ai-search-api/pkg/utils/time"
)

const (
	apiName = "searxng"

	// UntitledResult replaces empty titles
	UntitledResult = "(no title)"

	maxResponseBytes = 10 << 20
)

// Client talks to a SearXNG instance over its JSON API
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
	logger  interfaces.Logger
}

// NewClient creates a SearXNG client rooted at baseURL
func NewClient(baseURL string, httpClient interfaces.HTTPClient, logger interfaces.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// Search runs one aggregator query. Records that cannot be normalized are dropped;
// only transport, status and envelope failures are returned as errors.
func (c *Client) Search(ctx context.Context, query string, engines, categories []string) ([]domain.RawResult, error) {
	params := url.Values{
		"q":          {query},
		"format":     {"json"},
		"engines":    {strings.Join(engines, ",")},
		"categories": {strings.Join(categories, ",")},
	}
	reqURL := c.baseURL + "/search?" + params.Encode()

	c.logger.Debug("SearXNG search", map[string]interface{}{
		"engines":    engines,
		"categories": categories,
	})

	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return nil, errors.WrapError(err, "searxng request")
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, &errors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        apiName,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxResponseBytes))
	if err != nil {
		return nil, errors.WrapError(err, "read searxng response")
	}

	var envelope searchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.WrapError(err, "decode searxng response")
	}

	results := make([]domain.RawResult, 0, len(envelope.Results))
	for rank, raw := range envelope.Results {
		result, err := parseRecord(raw, rank)
		if err != nil {
			c.logger.Warn("Dropping malformed search result", map[string]interface{}{
				"rank":  rank,
				"error": err.Error(),
			})
			continue
		}
		results = append(results, result)
	}

	c.logger.Debug("SearXNG results received", map[string]interface{}{
		"received": len(envelope.Results),
		"kept":     len(results),
	})

	return results, nil
}

// Ping checks that the instance answers its root page
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.baseURL+"/")
	if err != nil {
		return errors.WrapError(err, "searxng ping")
	}
	defer resp.Body().Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body(), maxResponseBytes))

	if resp.StatusCode() != http.StatusOK {
		return &errors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        apiName,
		}
	}
	return nil
}

// parseRecord converts one result record. Rank is the record's position in the
// aggregator list, counted before any record is dropped.
func parseRecord(raw json.RawMessage, rank int) (domain.RawResult, error) {
	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.RawResult{}, fmt.Errorf("record is not an object: %w", err)
	}

	title, err := cast.ToStringE(record["title"])
	if err != nil {
		return domain.RawResult{}, fmt.Errorf("title: %w", err)
	}
	link, err := cast.ToStringE(record["url"])
	if err != nil {
		return domain.RawResult{}, fmt.Errorf("url: %w", err)
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return domain.RawResult{}, fmt.Errorf("missing url")
	}
	content, err := cast.ToStringE(record["content"])
	if err != nil {
		return domain.RawResult{}, fmt.Errorf("content: %w", err)
	}
	engine, err := cast.ToStringE(record["engine"])
	if err != nil {
		return domain.RawResult{}, fmt.Errorf("engine: %w", err)
	}
	score, err := cast.ToFloat64E(record["score"])
	if err != nil {
		return domain.RawResult{}, fmt.Errorf("score: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledResult
	}

	var published string
	if value, ok := record["publishedDate"]; ok && value != nil {
		published, _ = cast.ToStringE(value)
	}

	return domain.RawResult{
		Title:         title,
		URL:           link,
		Content:       content,
		Engine:        engine,
		Score:         score,
		PublishedDate: timeutil.ParseDate(published),
		EngineRank:    rank,
	}, nil
}
