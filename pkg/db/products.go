package db

import (
	"context"
	"fmt"

	"readstash-go/pkg/models"

	"github.com/google/uuid"
)

// CreateProducts inserts the imported products for a user
func (db *DB) CreateProducts(ctx context.Context, userID uuid.UUID, products []models.ProductCreate) error {
	for _, p := range products {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO products (user_id, product_id, name, price, image_url, link)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, p.ProductID, p.Name, p.Price, p.ImageURL, p.Link,
		)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
	}
	return nil
}

// GetProductsByUserID retrieves all imported products for a user
func (db *DB) GetProductsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, product_id, name, price, image_url, link, created_at
		 FROM products
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ProductID,
			&p.Name,
			&p.Price,
			&p.ImageURL,
			&p.Link,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// DeleteProductsByUserID wipes all imported products for a user
func (db *DB) DeleteProductsByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM products WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	return nil
}
