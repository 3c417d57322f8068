package models

// Progress statuses reported for each URL in a bulk scrape.
const (
	ProgressSuccess = "success"
	ProgressFailed  = "failed"
)

// BulkScrapeProgress is one unit of the incremental bulk-scrape result
// sequence: the outcome of a single URL. Completed is 1-based and strictly
// increasing; exactly one event is emitted per input URL.
type BulkScrapeProgress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	URL       string `json:"url"`
	Status    string `json:"status"`
}
