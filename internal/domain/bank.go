package domain

import "time"

// PlaidItem holds a user's link to the aggregator. AccessToken is stored
// encrypted (vault envelope), never plaintext.
type PlaidItem struct {
	UserID               string
	ItemID               string
	EncryptedAccessToken string

	CreatedAt *time.Time
	UpdatedAt *time.Time
}

type BankAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Mask      string `json:"mask,omitempty"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype,omitempty"`

	AvailableBalance *float64 `json:"available_balance"`
	CurrentBalance   *float64 `json:"current_balance"`
	CurrencyCode     *string  `json:"iso_currency_code"`
}

type BankTransaction struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`

	Name     string    `json:"name"`
	Merchant *string   `json:"merchant_name,omitempty"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Category *string   `json:"category,omitempty"`
	Currency *string   `json:"iso_currency_code,omitempty"`
}
