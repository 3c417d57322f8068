package db

import (
	"context"
	"errors"
	"fmt"

	"readstash-go/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, user_id, url, status, title, content, og_image,
	author, published_at, products, summary, tags, created_at, updated_at`

func scanItem(row pgx.Row) (*models.SavedItem, error) {
	var item models.SavedItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.URL,
		&item.Status,
		&item.Title,
		&item.Content,
		&item.OGImage,
		&item.Author,
		&item.PublishedAt,
		&item.Products,
		&item.Summary,
		&item.Tags,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new saved item in the given initial status
func (db *DB) CreateItem(ctx context.Context, userID uuid.UUID, url string, status models.ItemStatus) (*models.SavedItem, error) {
	item, err := scanItem(db.Pool.QueryRow(ctx,
		`INSERT INTO saved_items (user_id, url, status)
		 VALUES ($1, $2, $3)
		 RETURNING `+itemColumns,
		userID, url, status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// GetItemsByUserID retrieves all saved items for a user, newest first
func (db *DB) GetItemsByUserID(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM saved_items
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.SavedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetItemByID retrieves a saved item scoped to its owner
func (db *DB) GetItemByID(ctx context.Context, itemID, userID uuid.UUID) (*models.SavedItem, error) {
	item, err := scanItem(db.Pool.QueryRow(ctx,
		`SELECT `+itemColumns+`
		 FROM saved_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateItem applies the non-nil fields of the update to an owner-scoped item
func (db *DB) UpdateItem(ctx context.Context, itemID, userID uuid.UUID, update models.SavedItemUpdate) (*models.SavedItem, error) {
	// Build dynamic update query based on provided fields
	query := `UPDATE saved_items SET updated_at = NOW()`
	args := []interface{}{itemID, userID}
	argPos := 3 // Start at $3 (after $1=itemID, $2=userID)

	addField := func(column string, value interface{}) {
		query += fmt.Sprintf(", %s = $%d", column, argPos)
		args = append(args, value)
		argPos++
	}

	if update.Status != nil {
		addField("status", *update.Status)
	}
	if update.Title != nil {
		addField("title", *update.Title)
	}
	if update.Content != nil {
		addField("content", *update.Content)
	}
	if update.OGImage != nil {
		addField("og_image", *update.OGImage)
	}
	if update.Author != nil {
		addField("author", *update.Author)
	}
	if update.PublishedAt != nil {
		addField("published_at", *update.PublishedAt)
	}
	if update.Products != nil {
		addField("products", update.Products)
	}
	if update.Summary != nil {
		addField("summary", *update.Summary)
	}
	if update.Tags != nil {
		addField("tags", update.Tags)
	}

	query += ` WHERE id = $1 AND user_id = $2
		RETURNING ` + itemColumns

	item, err := scanItem(db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}
