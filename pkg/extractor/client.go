package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"readstash-go/pkg/models"
)

// Client talks to the remote extraction service: given a URL it returns page
// metadata, markdown and a schema-shaped structured payload. Every failure
// mode (network, timeout, bad status, schema mismatch) surfaces as *Error.
type Client struct {
	baseURL string
	schema  Schema
	client  *http.Client
}

// NewClient creates an extraction client bound to one schema variant.
func NewClient(baseURL string, schema Schema, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3002"
	}
	if !schema.Valid() {
		schema = SchemaArticle
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		schema:  schema,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Schema returns the schema variant this client was configured with.
func (c *Client) Schema() Schema {
	return c.schema
}

type formatSpec struct {
	Type   string `json:"type"`
	Schema Schema `json:"schema,omitempty"`
}

type scrapeRequest struct {
	URL             string       `json:"url"`
	Formats         []formatSpec `json:"formats"`
	OnlyMainContent bool         `json:"only_main_content"`
}

type scrapeResponse struct {
	Success  bool            `json:"success"`
	Metadata Metadata        `json:"metadata"`
	Markdown *string         `json:"markdown,omitempty"`
	JSON     json.RawMessage `json:"json,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Extract scrapes a single URL, requesting markdown plus the structured
// payload for the configured schema variant, restricted to main content.
func (c *Client) Extract(ctx context.Context, url string) (*Result, error) {
	body := scrapeRequest{
		URL: url,
		Formats: []formatSpec{
			{Type: "markdown"},
			{Type: "json", Schema: c.schema},
		},
		OnlyMainContent: true,
	}

	var resp scrapeResponse
	if err := c.post(ctx, "/v1/scrape", body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, newServiceError(http.StatusOK, resp.Error)
	}

	result := &Result{
		Metadata: resp.Metadata,
		Markdown: resp.Markdown,
	}

	// Partial success: a response without the structured payload still counts.
	if len(resp.JSON) == 0 {
		return result, nil
	}

	switch c.schema {
	case SchemaProducts:
		var payload struct {
			Products []models.ProductEntry `json:"products"`
		}
		if err := json.Unmarshal(resp.JSON, &payload); err != nil {
			return nil, newInvalidResponseError("malformed products payload", err)
		}
		result.Products = payload.Products
	default:
		var payload ArticleData
		if err := json.Unmarshal(resp.JSON, &payload); err != nil {
			return nil, newInvalidResponseError("malformed article payload", err)
		}
		result.Article = &payload
	}

	return result, nil
}

// Map asks the service for candidate URLs under a site, optionally filtered
// by a search term. Used by the discovery flow to feed bulk imports.
func (c *Client) Map(ctx context.Context, url, search string, limit int) ([]MapResult, error) {
	if limit <= 0 {
		limit = 25
	}

	body := struct {
		URL    string `json:"url"`
		Search string `json:"search,omitempty"`
		Limit  int    `json:"limit"`
	}{URL: url, Search: search, Limit: limit}

	var resp struct {
		Success bool        `json:"success"`
		Links   []MapResult `json:"links"`
		Error   string      `json:"error,omitempty"`
	}
	if err := c.post(ctx, "/v1/map", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, newServiceError(http.StatusOK, resp.Error)
	}

	return resp.Links, nil
}

// Search runs a web search through the extraction service.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 15
	}

	body := struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}{Query: query, Limit: limit}

	var resp struct {
		Success bool           `json:"success"`
		Web     []SearchResult `json:"web"`
		Error   string         `json:"error,omitempty"`
	}
	if err := c.post(ctx, "/v1/search", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, newServiceError(http.StatusOK, resp.Error)
	}

	return resp.Web, nil
}

// CheckHealth verifies the service is available
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newServiceError(resp.StatusCode, "service unhealthy")
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, result interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Type: ErrorTypeTimeout, Message: "request timed out", Cause: err}
		}
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return newServiceError(resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return newInvalidResponseError("failed to decode response", err)
	}

	return nil
}
