package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"readstash-go/pkg/extractor"
	"readstash-go/pkg/models"
	"readstash-go/pkg/utils"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// ItemStore is the persistence contract consumed by the scrape flows.
// Every operation is scoped by owner; a cross-owner id must come back as
// not-found.
type ItemStore interface {
	CreateItem(ctx context.Context, userID uuid.UUID, url string, status models.ItemStatus) (*models.SavedItem, error)
	UpdateItem(ctx context.Context, itemID, userID uuid.UUID, update models.SavedItemUpdate) (*models.SavedItem, error)
	GetItemsByUserID(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error)
	GetItemByID(ctx context.Context, itemID, userID uuid.UUID) (*models.SavedItem, error)
}

// Extractor is the remote extraction capability. Any error it returns is
// treated uniformly, whatever the cause.
type Extractor interface {
	Extract(ctx context.Context, url string) (*extractor.Result, error)
	Map(ctx context.Context, url, search string, limit int) ([]extractor.MapResult, error)
	Search(ctx context.Context, query string, limit int) ([]extractor.SearchResult, error)
}

// LanguageModel summarizes stored content and derives short tags from a
// summary.
type LanguageModel interface {
	Summarize(ctx context.Context, content string) (string, error)
	ExtractTags(ctx context.Context, summary string) ([]string, error)
}

// ItemService handles business logic for saved items: the bulk scrape
// orchestrator, the single-URL scrape flow, reads, and the summary/tag flow.
type ItemService struct {
	store     ItemStore
	extractor Extractor
	llm       LanguageModel
	logger    *slog.Logger
}

// NewItemService creates a new item service. llm may be nil when no language
// model is configured; the summary flow then stores the summary without tags
// and summary generation is unavailable.
func NewItemService(store ItemStore, ext Extractor, llm LanguageModel, logger *slog.Logger) *ItemService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemService{
		store:     store,
		extractor: ext,
		llm:       llm,
		logger:    logger,
	}
}

// ListItems retrieves all saved items for a user, newest first.
func (s *ItemService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error) {
	return s.store.GetItemsByUserID(ctx, userID)
}

// GetItem retrieves a single saved item by ID.
func (s *ItemService) GetItem(ctx context.Context, itemID, userID uuid.UUID) (*models.SavedItem, error) {
	return s.store.GetItemByID(ctx, itemID, userID)
}

// BulkScrape validates the batch up front, then processes the URLs strictly
// in order on a single goroutine, one extraction call in flight at a time.
// Each URL gets its own row: created PENDING, then moved to COMPLETED or
// FAILED, with one progress event sent per URL. A failure on one URL never
// stops the rest of the batch.
//
// The returned channel is closed after the last event, or early if ctx is
// torn down; rows already in a terminal state stay persisted either way.
func (s *ItemService) BulkScrape(ctx context.Context, userID uuid.UUID, urls []string) (<-chan models.BulkScrapeProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user")
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one URL is required")
	}

	validated := make([]string, len(urls))
	for i, raw := range urls {
		u, err := utils.ValidateAbsoluteURL(raw)
		if err != nil {
			return nil, err
		}
		validated[i] = u
	}

	progress := make(chan models.BulkScrapeProgress)

	go func() {
		defer close(progress)

		total := len(validated)
		for i, url := range validated {
			if ctx.Err() != nil {
				return
			}

			status := models.ProgressSuccess
			if err := s.scrapePending(ctx, userID, url); err != nil {
				s.logger.Warn("bulk scrape item failed", "url", url, "error", err)
				status = models.ProgressFailed
			}

			// A cancellation observed during the item wins over the send.
			if ctx.Err() != nil {
				return
			}

			event := models.BulkScrapeProgress{
				Completed: i + 1,
				Total:     total,
				URL:       url,
				Status:    status,
			}

			select {
			case progress <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return progress, nil
}

// scrapePending runs one bulk iteration: create the row PENDING, then hand
// off to the shared completion step. The create, the extraction call and the
// terminal update all live inside the same failure boundary.
func (s *ItemService) scrapePending(ctx context.Context, userID uuid.UUID, url string) error {
	item, err := s.store.CreateItem(ctx, userID, url, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return s.completeItem(ctx, item.ID, userID, url)
}

// ScrapeURL is the single-URL sibling of the bulk flow: same lifecycle minus
// PENDING. The row is created directly in PROCESSING and always reaches a
// terminal state; extraction failures are absorbed into the returned record's
// FAILED status, not surfaced as an error.
func (s *ItemService) ScrapeURL(ctx context.Context, userID uuid.UUID, rawURL string) (*models.SavedItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user")
	}
	url, err := utils.ValidateAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}

	item, err := s.store.CreateItem(ctx, userID, url, models.StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.completeItem(ctx, item.ID, userID, url); err != nil {
		s.logger.Warn("scrape failed", "url", url, "error", err)
	}

	return s.store.GetItemByID(ctx, item.ID, userID)
}

// completeItem invokes the extractor and persists the terminal transition.
// On any error (extraction or persistence) the row is marked FAILED on a
// best-effort basis; the error detail is only logged, never stored.
func (s *ItemService) completeItem(ctx context.Context, itemID, userID uuid.UUID, url string) error {
	result, err := s.extractor.Extract(ctx, url)
	if err == nil {
		_, err = s.store.UpdateItem(ctx, itemID, userID, reduceResult(result))
		if err == nil {
			return nil
		}
	}

	failed := models.StatusFailed
	if _, markErr := s.store.UpdateItem(ctx, itemID, userID, models.SavedItemUpdate{Status: &failed}); markErr != nil {
		s.logger.Error("failed to mark item failed", "item_id", itemID, "error", markErr)
	}

	return err
}

// reduceResult maps an extraction result onto the terminal COMPLETED update.
// Fields the response lacks stay nil.
func reduceResult(result *extractor.Result) models.SavedItemUpdate {
	completed := models.StatusCompleted
	update := models.SavedItemUpdate{
		Status:  &completed,
		Title:   result.Metadata.Title,
		Content: result.Markdown,
		OGImage: result.Metadata.OGImage,
	}

	if result.Article != nil {
		update.Author = result.Article.Author
		update.PublishedAt = parseDate(result.Article.PublishedAt)
	}
	if result.Products != nil {
		update.Products = result.Products
	}

	return update
}

// parseDate accepts only a successfully-parsed date; anything else becomes
// nil, never an error.
func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(*raw)
	if err != nil {
		return nil
	}
	return &t
}

// SaveSummaryAndTags stores a summary on an owner-scoped item and derives
// up to five tags from it via the language model.
func (s *ItemService) SaveSummaryAndTags(ctx context.Context, itemID, userID uuid.UUID, summary string) (*models.SavedItem, error) {
	if _, err := s.store.GetItemByID(ctx, itemID, userID); err != nil {
		return nil, err
	}

	var tags []string
	if s.llm != nil {
		var err error
		tags, err = s.llm.ExtractTags(ctx, summary)
		if err != nil {
			return nil, fmt.Errorf("failed to extract tags: %w", err)
		}
	}

	return s.store.UpdateItem(ctx, itemID, userID, models.SavedItemUpdate{
		Summary: &summary,
		Tags:    tags,
	})
}

// SummarizeItem generates a summary from the item's stored content and
// persists it along with derived tags.
func (s *ItemService) SummarizeItem(ctx context.Context, itemID, userID uuid.UUID) (*models.SavedItem, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("no language model configured")
	}

	item, err := s.store.GetItemByID(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if item.Content == nil || *item.Content == "" {
		return nil, fmt.Errorf("item has no content to summarize")
	}

	summary, err := s.llm.Summarize(ctx, *item.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}

	return s.SaveSummaryAndTags(ctx, itemID, userID, summary)
}

// MapURL discovers candidate URLs under a site for bulk importing.
func (s *ItemService) MapURL(ctx context.Context, rawURL, search string) ([]extractor.MapResult, error) {
	url, err := utils.ValidateAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	return s.extractor.Map(ctx, url, search, 25)
}

// SearchWeb runs a topic search through the extraction service.
func (s *ItemService) SearchWeb(ctx context.Context, query string) ([]extractor.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	return s.extractor.Search(ctx, query, 15)
}
