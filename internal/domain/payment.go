package domain

import "time"

// Payment is immutable once created: there is no update path, and the
// owning debt's current balance is decremented in the same transaction
// that inserts the row.
type Payment struct {
	ID     string `json:"id"`
	DebtID string `json:"debt_id"`
	UserID string `json:"user_id"`

	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Notes  *string   `json:"notes,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}
