package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus tracks a saved item through its scrape lifecycle.
// Transitions only move forward: PENDING -> PROCESSING -> COMPLETED | FAILED.
type ItemStatus string

const (
	StatusPending    ItemStatus = "PENDING"
	StatusProcessing ItemStatus = "PROCESSING"
	StatusCompleted  ItemStatus = "COMPLETED"
	StatusFailed     ItemStatus = "FAILED"
)

// Terminal reports whether no further status transition will occur.
func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SavedItem is one saved web page, owned by a single user.
// Exactly one of the extraction payload shapes is populated, depending on
// the deployment's extraction schema: Author/PublishedAt (article) or
// Products (product list). Summary and Tags are filled by a separate flow
// after the item completes.
type SavedItem struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	UserID      uuid.UUID      `db:"user_id" json:"user_id"`
	URL         string         `db:"url" json:"url"`
	Status      ItemStatus     `db:"status" json:"status"`
	Title       *string        `db:"title" json:"title,omitempty"`
	Content     *string        `db:"content" json:"content,omitempty"`
	OGImage     *string        `db:"og_image" json:"og_image,omitempty"`
	Author      *string        `db:"author" json:"author,omitempty"`
	PublishedAt *time.Time     `db:"published_at" json:"published_at,omitempty"`
	Products    []ProductEntry `db:"products" json:"products,omitempty"`
	Summary     *string        `db:"summary" json:"summary,omitempty"`
	Tags        []string       `db:"tags" json:"tags,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ProductEntry is one product found on a scraped page (product schema variant).
type ProductEntry struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SavedItemUpdate carries the fields of a terminal update. Nil fields are
// left untouched.
type SavedItemUpdate struct {
	Status      *ItemStatus    `json:"status,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Content     *string        `json:"content,omitempty"`
	OGImage     *string        `json:"og_image,omitempty"`
	Author      *string        `json:"author,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Products    []ProductEntry `json:"products,omitempty"`
	Summary     *string        `json:"summary,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}
