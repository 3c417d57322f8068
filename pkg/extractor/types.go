package extractor

import "readstash-go/pkg/models"

// Schema selects the structured-extraction payload shape for a deployment.
// The variant is fixed at construction time; a single deployment never mixes
// article and product payloads.
type Schema string

const (
	SchemaArticle  Schema = "article"
	SchemaProducts Schema = "products"
)

// Valid reports whether s names a known schema variant.
func (s Schema) Valid() bool {
	return s == SchemaArticle || s == SchemaProducts
}

// Metadata is the page-level metadata returned alongside every extraction.
type Metadata struct {
	Title   *string `json:"title,omitempty"`
	OGImage *string `json:"og_image,omitempty"`
}

// ArticleData is the structured payload for the article schema variant.
// PublishedAt is whatever string the page carried; callers decide how to
// parse it.
type ArticleData struct {
	Author      *string `json:"author,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
}

// Result is a successful extraction. Exactly one of Article or Products is
// set, matching the client's schema variant.
type Result struct {
	Metadata Metadata
	Markdown *string
	Article  *ArticleData
	Products []models.ProductEntry
}

// MapResult is one candidate URL discovered by mapping a site.
type MapResult struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}
