// Package search produces raw search payloads for the aggregator,
// either by proxying an upstream search API or by composing the payload
// from the local indexes.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// Source returns the raw, untrusted search payload for a query.
// Implementations surface transport errors untouched; payload-shape
// problems are left to the aggregator's tolerant decoding.
type Source interface {
	Search(ctx context.Context, query, mode string) (*models.RawSearchResponse, error)
}

// UpstreamSource fetches the payload from an external search API
type UpstreamSource struct {
	baseURL string
	client  *http.Client
}

// NewUpstreamSource creates a source backed by the search API at baseURL
func NewUpstreamSource(baseURL string) *UpstreamSource {
	return &UpstreamSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Search performs GET {base}/search/ai-recommend?content=..&mode=..
func (u *UpstreamSource) Search(ctx context.Context, query, mode string) (*models.RawSearchResponse, error) {
	endpoint := fmt.Sprintf("%s/search/ai-recommend?content=%s&mode=%s",
		u.baseURL, url.QueryEscape(query), url.QueryEscape(mode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var raw models.RawSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid search payload: %w", err)
	}

	return &raw, nil
}
