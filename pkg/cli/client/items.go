package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"

	"readstash-go/pkg/extractor"
	"readstash-go/pkg/models"

	"github.com/google/uuid"
)

// ListItems retrieves all saved items for the authenticated user
func (c *Client) ListItems() ([]models.SavedItem, error) {
	var items []models.SavedItem
	if err := c.doGetRequest("/api/v1/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem retrieves a specific saved item by ID
func (c *Client) GetItem(id uuid.UUID) (*models.SavedItem, error) {
	var item models.SavedItem
	path := fmt.Sprintf("/api/v1/items/%s", id.String())
	if err := c.doGetRequest(path, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ScrapeURL saves and scrapes a single URL, returning the final record
func (c *Client) ScrapeURL(url string) (*models.SavedItem, error) {
	payload := map[string]string{"url": url}
	var resp struct {
		Item models.SavedItem `json:"item"`
	}
	if err := c.doJSONRequest(http.MethodPost, "/api/v1/items/scrape", payload, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// BulkScrape submits a batch of URLs and returns a channel of progress
// events decoded from the server's NDJSON stream as they arrive. The channel
// is closed when the batch finishes or the stream breaks; a decode or
// transport failure mid-stream is reported on the error channel.
func (c *Client) BulkScrape(urls []string) (<-chan models.BulkScrapeProgress, <-chan error, error) {
	payload := map[string][]string{"urls": urls}

	body, err := c.doStreamRequest(http.MethodPost, "/api/v1/items/bulk-scrape", payload)
	if err != nil {
		return nil, nil, err
	}

	progress := make(chan models.BulkScrapeProgress)
	errs := make(chan error, 1)

	go func() {
		defer close(progress)
		defer close(errs)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var event models.BulkScrapeProgress
			if err := json.Unmarshal(line, &event); err != nil {
				errs <- fmt.Errorf("failed to decode progress event: %w", err)
				return
			}
			progress <- event
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("stream interrupted: %w", err)
		}
	}()

	return progress, errs, nil
}

// SaveSummary stores a summary on an item; the server generates its tags
func (c *Client) SaveSummary(id uuid.UUID, summary string) (*models.SavedItem, error) {
	payload := map[string]string{"summary": summary}
	var item models.SavedItem
	path := fmt.Sprintf("/api/v1/items/%s/summary", id.String())
	if err := c.doJSONRequest(http.MethodPost, path, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SummarizeItem asks the server to generate and persist a summary for an item
func (c *Client) SummarizeItem(id uuid.UUID) (*models.SavedItem, error) {
	var item models.SavedItem
	path := fmt.Sprintf("/api/v1/items/%s/summarize", id.String())
	if err := c.doJSONRequest(http.MethodPost, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// MapSite discovers candidate URLs under a site for bulk importing
func (c *Client) MapSite(url, search string) ([]extractor.MapResult, error) {
	payload := map[string]string{"url": url, "search": search}
	var resp struct {
		Links []extractor.MapResult `json:"links"`
	}
	if err := c.doJSONRequest(http.MethodPost, "/api/v1/discover/map", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Links, nil
}
