package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budgetwize-api/internal/domain"
)

type PlaidItemRepository struct {
	db *sql.DB
}

func NewPlaidItemRepository(db *sql.DB) *PlaidItemRepository {
	return &PlaidItemRepository{db: db}
}

// Upsert stores the user's encrypted access token, replacing any earlier
// link. One item per user.
func (r *PlaidItemRepository) Upsert(ctx context.Context, item domain.PlaidItem) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_plaid_items (user_id, item_id, encrypted_access_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET item_id = $2, encrypted_access_token = $3, updated_at = $4`,
		item.UserID, item.ItemID, item.EncryptedAccessToken, now,
	)
	return err
}

func (r *PlaidItemRepository) Get(ctx context.Context, userID string) (domain.PlaidItem, error) {
	var item domain.PlaidItem
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, item_id, encrypted_access_token, created_at, updated_at
		FROM user_plaid_items WHERE user_id = $1`,
		userID,
	).Scan(&item.UserID, &item.ItemID, &item.EncryptedAccessToken, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlaidItem{}, ErrNoLinkedItem
	}
	return item, err
}
