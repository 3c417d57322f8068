package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestExtract_ArticleVariant(t *testing.T) {
	var gotReq scrapeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/v1/scrape")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"metadata": map[string]string{"title": "A Title", "og_image": "https://img.test/og.png"},
			"markdown": "# body",
			"json":     map[string]string{"author": "Jane", "published_at": "2024-03-01"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	result, err := client.Extract(context.Background(), "https://page.test/post")
	assert.Equal(t, err, nil)

	assert.Equal(t, gotReq.URL, "https://page.test/post")
	assert.Equal(t, gotReq.OnlyMainContent, true)
	assert.Equal(t, len(gotReq.Formats), 2)
	assert.Equal(t, gotReq.Formats[0].Type, "markdown")
	assert.Equal(t, gotReq.Formats[1].Type, "json")
	assert.Equal(t, gotReq.Formats[1].Schema, SchemaArticle)

	assert.Equal(t, *result.Metadata.Title, "A Title")
	assert.Equal(t, *result.Markdown, "# body")
	assert.Equal(t, *result.Article.Author, "Jane")
	assert.Equal(t, len(result.Products), 0)
}

func TestExtract_ProductsVariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"json": map[string]interface{}{
				"products": []map[string]string{
					{"title": "Red", "price": "9.99", "url": "https://shop.test/red"},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaProducts, time.Second)
	result, err := client.Extract(context.Background(), "https://shop.test")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(result.Products), 1)
	assert.Equal(t, result.Products[0].Title, "Red")
	assert.Equal(t, result.Article, (*ArticleData)(nil))
}

func TestExtract_ServiceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream blew up", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	_, err := client.Extract(context.Background(), "https://page.test")
	assert.NotEqual(t, err, nil)

	var extractErr *Error
	assert.Equal(t, errors.As(err, &extractErr), true)
	assert.Equal(t, extractErr.Type, ErrorTypeService)
}

func TestExtract_UnsuccessfulResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "could not render page",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	_, err := client.Extract(context.Background(), "https://page.test")
	assert.NotEqual(t, err, nil)
}

func TestExtract_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	_, err := client.Extract(context.Background(), "https://page.test")
	assert.NotEqual(t, err, nil)

	var extractErr *Error
	assert.Equal(t, errors.As(err, &extractErr), true)
	assert.Equal(t, extractErr.Type, ErrorTypeInvalidResponse)
}

func TestExtract_NetworkError(t *testing.T) {
	// Nothing listening here.
	client := NewClient("http://127.0.0.1:1", SchemaArticle, time.Second)
	_, err := client.Extract(context.Background(), "https://page.test")
	assert.NotEqual(t, err, nil)

	var extractErr *Error
	assert.Equal(t, errors.As(err, &extractErr), true)
}

func TestMap_ReturnsLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/v1/map")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"links": []map[string]string{
				{"url": "https://site.test/a"},
				{"url": "https://site.test/b"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	links, err := client.Map(context.Background(), "https://site.test", "wine", 25)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(links), 2)
	assert.Equal(t, links[0].URL, "https://site.test/a")
}

func TestSearch_ReturnsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/v1/search")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"web": []map[string]string{
				{"url": "https://hit.test", "title": "Hit", "description": "A hit"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, SchemaArticle, time.Second)
	results, err := client.Search(context.Background(), "wine", 15)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(results), 1)
	assert.Equal(t, results[0].Title, "Hit")
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", Schema("bogus"), 0)
	assert.Equal(t, client.Schema(), SchemaArticle)
}
