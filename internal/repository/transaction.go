package repository

import (
	"context"
	"database/sql"

	"budgetwize-api/internal/domain"

	"github.com/google/uuid"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Upsert is keyed on the aggregator's transaction ID, so re-running a
// sync over an overlapping window never duplicates rows.
func (r *TransactionRepository) Upsert(ctx context.Context, tx domain.BankTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plaid_transactions (id, user_id, transaction_id, account_id, name, merchant, amount, date, category, iso_currency_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id) DO NOTHING`,
		tx.ID, tx.UserID, tx.TransactionID, tx.AccountID, tx.Name, tx.Merchant, tx.Amount, tx.Date, tx.Category, tx.Currency,
	)
	return err
}

func (r *TransactionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.BankTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, transaction_id, account_id, name, merchant, amount, date, category, iso_currency_code
		FROM plaid_transactions
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BankTransaction
	for rows.Next() {
		var t domain.BankTransaction
		var merchant, category, currency sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.TransactionID, &t.AccountID, &t.Name, &merchant, &t.Amount, &t.Date, &category, &currency); err != nil {
			return nil, err
		}
		if merchant.Valid {
			s := merchant.String
			t.Merchant = &s
		}
		if category.Valid {
			s := category.String
			t.Category = &s
		}
		if currency.Valid {
			s := currency.String
			t.Currency = &s
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
