package db

import (
	"context"
	"errors"
	"fmt"

	"readstash-go/pkg/models"

	"github.com/jackc/pgx/v5"
)

// GetUserByAPIKey retrieves a user by their API key
func (db *DB) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	var user models.User
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, api_key, created_at, updated_at
		 FROM users WHERE api_key = $1`,
		apiKey,
	).Scan(
		&user.ID,
		&user.Email,
		&user.APIKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// CreateUser creates a new user
func (db *DB) CreateUser(ctx context.Context, email, apiKey string) (*models.User, error) {
	var user models.User
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, api_key)
		 VALUES ($1, $2)
		 RETURNING id, email, api_key, created_at, updated_at`,
		email, apiKey,
	).Scan(
		&user.ID,
		&user.Email,
		&user.APIKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
