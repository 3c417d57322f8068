package services

import (
	"context"
	"encoding/json"
	"fmt"

	"readstash-go/pkg/models"
	"readstash-go/pkg/utils"

	"github.com/google/uuid"
)

// ProductStore is the persistence contract for the JSON import flow.
type ProductStore interface {
	CreateProducts(ctx context.Context, userID uuid.UUID, products []models.ProductCreate) error
	GetProductsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	DeleteProductsByUserID(ctx context.Context, userID uuid.UUID) error
}

// ProductService handles pasted retailer JSON payloads: parse, persist,
// list and bulk-wipe per owner.
type ProductService struct {
	store ProductStore
}

// NewProductService creates a new product service
func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// importedPayload mirrors the retailer search response shape the import
// form accepts.
type importedPayload struct {
	PrimaryProducts struct {
		Response struct {
			Docs []struct {
				ID       string  `json:"id"`
				Name     string  `json:"name"`
				Price    float64 `json:"price"`
				ImageURL string  `json:"imageUrl"`
			} `json:"docs"`
		} `json:"response"`
	} `json:"primaryProducts"`
}

// ImportJSON parses a pasted JSON payload and persists one product per doc.
// Links are synthesized from the product-details base URL plus the doc id.
func (s *ProductService) ImportJSON(ctx context.Context, userID uuid.UUID, baseURL, rawJSON string) (int, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("missing user")
	}
	base, err := utils.ValidateAbsoluteURL(baseURL)
	if err != nil {
		return 0, err
	}

	var payload importedPayload
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return 0, fmt.Errorf("invalid JSON payload: %w", err)
	}

	docs := payload.PrimaryProducts.Response.Docs
	if len(docs) == 0 {
		return 0, fmt.Errorf("no products found in payload")
	}

	products := make([]models.ProductCreate, 0, len(docs))
	for _, doc := range docs {
		products = append(products, models.ProductCreate{
			ProductID: doc.ID,
			Name:      doc.Name,
			Price:     doc.Price,
			ImageURL:  doc.ImageURL,
			Link:      fmt.Sprintf("%s.%s.html", base, doc.ID),
		})
	}

	if err := s.store.CreateProducts(ctx, userID, products); err != nil {
		return 0, err
	}

	return len(products), nil
}

// ProductView is a Product with its price formatted for display.
type ProductView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    string    `json:"price"`
	ImageURL string    `json:"image_url"`
	Link     string    `json:"link"`
}

// ListProducts retrieves the user's imported products with prices formatted
// to two decimals.
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID) ([]ProductView, error) {
	products, err := s.store.GetProductsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ID:       p.ID,
			Name:     p.Name,
			Price:    fmt.Sprintf("%.2f", p.Price),
			ImageURL: p.ImageURL,
			Link:     p.Link,
		})
	}

	return views, nil
}

// DeleteProducts wipes all imported products for a user.
func (s *ProductService) DeleteProducts(ctx context.Context, userID uuid.UUID) error {
	return s.store.DeleteProductsByUserID(ctx, userID)
}
