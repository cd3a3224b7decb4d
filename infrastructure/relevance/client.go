// ABOUTME: HTTP cross-encoder client implementing the pairwise relevance model
// ABOUTME: Calls a text-embeddings-inference style /rerank endpoint and returns raw scores in input order

package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ai-search-api/core/errors"
	"ai-search-api/core/interfaces"
)

const (
	apiName          = "reranker"
	maxResponseBytes = 4 << 20
)

// Client scores (query, text) pairs against a remote cross-encoder
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
}

// NewClient creates a relevance client rooted at baseURL
func NewClient(baseURL string, httpClient interfaces.HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
	Truncate  bool     `json:"truncate"`
}

type rerankScore struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Score returns one raw relevance score per text, in input order.
// The endpoint may return scores sorted by relevance; they are mapped back by index.
func (c *Client) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}

	payload, err := json.Marshal(rerankRequest{
		Query:     query,
		Texts:     texts,
		RawScores: true,
		Truncate:  true,
	})
	if err != nil {
		return nil, errors.WrapError(err, "encode rerank request")
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapError(err, "rerank request")
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxResponseBytes))
	if err != nil {
		return nil, errors.WrapError(err, "read rerank response")
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &errors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    strings.TrimSpace(string(body)),
			API:        apiName,
		}
	}

	var scored []rerankScore
	if err := json.Unmarshal(body, &scored); err != nil {
		return nil, errors.WrapError(err, "decode rerank response")
	}

	return orderScores(scored, len(texts))
}

// Ping checks that the model server reports healthy
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.baseURL+"/health")
	if err != nil {
		return errors.WrapError(err, "reranker health")
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return &errors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        apiName,
		}
	}
	return nil
}

func orderScores(scored []rerankScore, n int) ([]float64, error) {
	if len(scored) != n {
		return nil, fmt.Errorf("reranker returned %d scores for %d texts", len(scored), n)
	}

	scores := make([]float64, n)
	seen := make([]bool, n)
	for _, s := range scored {
		if s.Index < 0 || s.Index >= n {
			return nil, fmt.Errorf("reranker returned out-of-range index %d", s.Index)
		}
		if seen[s.Index] {
			return nil, fmt.Errorf("reranker returned duplicate index %d", s.Index)
		}
		seen[s.Index] = true
		scores[s.Index] = s.Score
	}
	return scores, nil
}
