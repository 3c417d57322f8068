package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"readstash-go/pkg/db"
	"readstash-go/pkg/extractor"
	"readstash-go/pkg/models"
	"readstash-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/google/uuid"
)

type fakeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.SavedItem
	order []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uuid.UUID]*models.SavedItem)}
}

func (f *fakeStore) CreateItem(ctx context.Context, userID uuid.UUID, url string, status models.ItemStatus) (*models.SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := &models.SavedItem{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		Status:    status,
		CreatedAt: time.Now(),
	}
	f.items[item.ID] = item
	f.order = append(f.order, item.ID)
	return item, nil
}

func (f *fakeStore) UpdateItem(ctx context.Context, itemID, userID uuid.UUID, update models.SavedItemUpdate) (*models.SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return nil, db.ErrNotFound
	}
	if update.Status != nil {
		item.Status = *update.Status
	}
	if update.Title != nil {
		item.Title = update.Title
	}
	if update.Content != nil {
		item.Content = update.Content
	}
	if update.Summary != nil {
		item.Summary = update.Summary
	}
	if update.Tags != nil {
		item.Tags = update.Tags
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) GetItemsByUserID(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.SavedItem
	for i := len(f.order) - 1; i >= 0; i-- {
		item := f.items[f.order[i]]
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeStore) GetItemByID(ctx context.Context, itemID, userID uuid.UUID) (*models.SavedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return nil, db.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

type fakeExtractor struct {
	errs    map[string]error
	blockOn map[string]chan struct{} // Extract waits on the channel first
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*extractor.Result, error) {
	if ch, ok := f.blockOn[url]; ok {
		<-ch
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	title := "Title for " + url
	markdown := "# content"
	return &extractor.Result{
		Metadata: extractor.Metadata{Title: &title},
		Markdown: &markdown,
		Article:  &extractor.ArticleData{},
	}, nil
}

func (f *fakeExtractor) Map(ctx context.Context, url, search string, limit int) ([]extractor.MapResult, error) {
	return []extractor.MapResult{{URL: url + "/found"}}, nil
}

func (f *fakeExtractor) Search(ctx context.Context, query string, limit int) ([]extractor.SearchResult, error) {
	return []extractor.SearchResult{{URL: "https://hit.test", Title: query}}, nil
}

func newTestRouter(store *fakeStore, ext *fakeExtractor, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := services.NewItemService(store, ext, nil, slog.New(slog.DiscardHandler))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
	})
	r.GET("/items", ListItems(service))
	r.GET("/items/:id", GetItem(service))
	r.POST("/items/scrape", ScrapeItem(service))
	r.POST("/items/bulk-scrape", BulkScrapeItems(service))
	r.POST("/items/:id/summary", SaveSummary(service))
	r.POST("/discover/map", MapSite(service))
	return r
}

func TestBulkScrape_StreamsOneEventPerURL(t *testing.T) {
	store := newFakeStore()
	ext := &fakeExtractor{errs: map[string]error{
		"https://a.test/2": errors.New("boom"),
	}}
	r := newTestRouter(store, ext, uuid.New())

	body := `{"urls":["https://a.test/1","https://a.test/2","https://a.test/3"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/bulk-scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Content-Type"), "application/x-ndjson")

	var events []models.BulkScrapeProgress
	scanner := bufio.NewScanner(bytes.NewReader(w.Body.Bytes()))
	for scanner.Scan() {
		var event models.BulkScrapeProgress
		assert.Equal(t, json.Unmarshal(scanner.Bytes(), &event), nil)
		events = append(events, event)
	}

	assert.Equal(t, len(events), 3)
	assert.Equal(t, events[0].Completed, 1)
	assert.Equal(t, events[0].Status, models.ProgressSuccess)
	assert.Equal(t, events[1].Status, models.ProgressFailed)
	assert.Equal(t, events[2].Completed, 3)
	assert.Equal(t, events[2].Total, 3)
}

func TestBulkScrape_DeliversEventsAsItemsComplete(t *testing.T) {
	store := newFakeStore()
	release := make(chan struct{})
	ext := &fakeExtractor{blockOn: map[string]chan struct{}{
		"https://a.test/2": release,
	}}
	r := newTestRouter(store, ext, uuid.New())

	server := httptest.NewServer(r)
	defer server.Close()

	body := `{"urls":["https://a.test/1","https://a.test/2"]}`
	resp, err := http.Post(server.URL+"/items/bulk-scrape", "application/json", strings.NewReader(body))
	assert.Equal(t, err, nil)
	defer resp.Body.Close()

	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, resp.Header.Get("Content-Type"), "application/x-ndjson")

	// The first event is readable while item 2 is still in flight.
	scanner := bufio.NewScanner(resp.Body)
	assert.Equal(t, scanner.Scan(), true)

	var first models.BulkScrapeProgress
	assert.Equal(t, json.Unmarshal(scanner.Bytes(), &first), nil)
	assert.Equal(t, first.Completed, 1)
	assert.Equal(t, first.Status, models.ProgressSuccess)

	close(release)

	assert.Equal(t, scanner.Scan(), true)
	var second models.BulkScrapeProgress
	assert.Equal(t, json.Unmarshal(scanner.Bytes(), &second), nil)
	assert.Equal(t, second.Completed, 2)
	assert.Equal(t, second.Total, 2)

	// Stream closes after the last event.
	assert.Equal(t, scanner.Scan(), false)
}

func TestBulkScrape_EmptyBatchRejected(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/bulk-scrape", strings.NewReader(`{"urls":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestBulkScrape_MalformedURLRejected(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/bulk-scrape", strings.NewReader(`{"urls":["nope"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestScrapeItem_ReturnsCreatedItem(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/scrape", strings.NewReader(`{"url":"https://a.test/post"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusCreated)

	var resp struct {
		Item models.SavedItem `json:"item"`
	}
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &resp), nil)
	assert.Equal(t, resp.Item.Status, models.StatusCompleted)
	assert.Equal(t, *resp.Item.Title, "Title for https://a.test/post")
}

func TestScrapeItem_FailureStillReturnsRecord(t *testing.T) {
	ext := &fakeExtractor{errs: map[string]error{
		"https://a.test/broken": errors.New("timeout"),
	}}
	r := newTestRouter(newFakeStore(), ext, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/scrape", strings.NewReader(`{"url":"https://a.test/broken"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusCreated)

	var resp struct {
		Item models.SavedItem `json:"item"`
	}
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &resp), nil)
	assert.Equal(t, resp.Item.Status, models.StatusFailed)
}

func TestListItems_ReturnsOwnItemsOnly(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	store.CreateItem(context.Background(), userID, "https://a.test/mine", models.StatusCompleted)
	store.CreateItem(context.Background(), uuid.New(), "https://a.test/theirs", models.StatusCompleted)

	r := newTestRouter(store, &fakeExtractor{}, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/items", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var items []models.SavedItem
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &items), nil)
	assert.Equal(t, len(items), 1)
	assert.Equal(t, items[0].URL, "https://a.test/mine")
}

func TestGetItem_CrossOwnerIsNotFound(t *testing.T) {
	store := newFakeStore()
	other, _ := store.CreateItem(context.Background(), uuid.New(), "https://a.test/theirs", models.StatusCompleted)

	r := newTestRouter(store, &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/items/"+other.ID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestGetItem_InvalidID(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/items/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestSaveSummary_UpdatesItem(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	item, _ := store.CreateItem(context.Background(), userID, "https://a.test/1", models.StatusCompleted)

	r := newTestRouter(store, &fakeExtractor{}, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/items/"+item.ID.String()+"/summary",
		strings.NewReader(`{"summary":"the gist of it"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var updated models.SavedItem
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &updated), nil)
	assert.Equal(t, *updated.Summary, "the gist of it")
}

func TestMapSite_ReturnsLinks(t *testing.T) {
	r := newTestRouter(newFakeStore(), &fakeExtractor{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/discover/map",
		strings.NewReader(`{"url":"https://site.test","search":"wine"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var resp struct {
		Links []extractor.MapResult `json:"links"`
	}
	assert.Equal(t, json.Unmarshal(w.Body.Bytes(), &resp), nil)
	assert.Equal(t, len(resp.Links), 1)
	assert.Equal(t, resp.Links[0].URL, "https://site.test/found")
}
