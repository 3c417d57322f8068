package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one row created by the JSON import flow (pasted retailer
// search payloads). Separate from SavedItem: these never go through the
// scrape lifecycle.
type Product struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Link      string    `db:"link" json:"link"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProductCreate represents data for creating an imported product
type ProductCreate struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Link      string  `json:"link"`
}
