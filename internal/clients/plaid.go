package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"budgetwize-api/internal/domain"

	"github.com/rs/zerolog"
)

var plaidLog = zerolog.New(os.Stdout).With().Timestamp().Str("client", "plaid").Logger()

var plaidEnvironments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
	ClientName  string
}

// PlaidError is the error body the aggregator returns alongside non-200
// responses.
type PlaidError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (e *PlaidError) Error() string {
	return fmt.Sprintf("plaid: %s (%s)", e.ErrorMessage, e.ErrorCode)
}

type PlaidClient struct {
	cfg        PlaidConfig
	baseURL    string
	httpClient *http.Client
}

func NewPlaidClient(cfg PlaidConfig) (*PlaidClient, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("plaid credentials are not configured")
	}

	baseURL, ok := plaidEnvironments[cfg.Environment]
	if !ok {
		return nil, fmt.Errorf("unknown plaid environment %q", cfg.Environment)
	}
	if cfg.ClientName == "" {
		cfg.ClientName = "BudgetWize"
	}

	return &PlaidClient{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *PlaidClient) post(ctx context.Context, path string, payload map[string]any, out any) error {
	payload["client_id"] = c.cfg.ClientID
	payload["secret"] = c.cfg.Secret

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		plaidLog.Error().Err(err).Str("path", path).Msg("request failed")
		return fmt.Errorf("plaid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var perr PlaidError
		if err := json.Unmarshal(raw, &perr); err == nil && perr.ErrorCode != "" {
			plaidLog.Error().Str("path", path).Str("error_code", perr.ErrorCode).Msg(perr.ErrorMessage)
			return &perr
		}
		return fmt.Errorf("plaid %s returned %d: %s", path, resp.StatusCode, string(raw))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateLinkToken starts a link flow for the given user.
func (c *PlaidClient) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	var out struct {
		LinkToken string `json:"link_token"`
	}
	err := c.post(ctx, "/link/token/create", map[string]any{
		"client_name":   c.cfg.ClientName,
		"user":          map[string]string{"client_user_id": userID},
		"products":      []string{"auth", "transactions", "liabilities"},
		"country_codes": []string{"US"},
		"language":      "en",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.LinkToken, nil
}

// ExchangePublicToken swaps a link public token for the long-lived access
// token and item ID.
func (c *PlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	var out struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &out); err != nil {
		return "", "", err
	}
	return out.AccessToken, out.ItemID, nil
}

type plaidAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Mask      string `json:"mask"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Balances  struct {
		Available       *float64 `json:"available"`
		Current         *float64 `json:"current"`
		ISOCurrencyCode *string  `json:"iso_currency_code"`
	} `json:"balances"`
}

func (c *PlaidClient) GetAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	var out struct {
		Accounts []plaidAccount `json:"accounts"`
	}
	if err := c.post(ctx, "/accounts/get", map[string]any{
		"access_token": accessToken,
	}, &out); err != nil {
		return nil, err
	}

	accounts := make([]domain.BankAccount, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		accounts = append(accounts, domain.BankAccount{
			AccountID:        a.AccountID,
			Name:             a.Name,
			Mask:             a.Mask,
			Type:             a.Type,
			Subtype:          a.Subtype,
			AvailableBalance: a.Balances.Available,
			CurrentBalance:   a.Balances.Current,
			CurrencyCode:     a.Balances.ISOCurrencyCode,
		})
	}
	return accounts, nil
}

type plaidTransaction struct {
	TransactionID   string   `json:"transaction_id"`
	AccountID       string   `json:"account_id"`
	Name            string   `json:"name"`
	MerchantName    *string  `json:"merchant_name"`
	Amount          float64  `json:"amount"`
	Date            string   `json:"date"`
	Category        []string `json:"category"`
	ISOCurrencyCode *string  `json:"iso_currency_code"`
}

func (c *PlaidClient) GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]domain.BankTransaction, error) {
	var out struct {
		Transactions []plaidTransaction `json:"transactions"`
	}
	if err := c.post(ctx, "/transactions/get", map[string]any{
		"access_token": accessToken,
		"start_date":   start.Format("2006-01-02"),
		"end_date":     end.Format("2006-01-02"),
		"options":      map[string]any{"count": 100, "offset": 0},
	}, &out); err != nil {
		return nil, err
	}

	txs := make([]domain.BankTransaction, 0, len(out.Transactions))
	for _, t := range out.Transactions {
		date, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			plaidLog.Warn().Str("transaction_id", t.TransactionID).Str("date", t.Date).Msg("skipping transaction with bad date")
			continue
		}

		var category *string
		if len(t.Category) > 0 {
			category = &t.Category[0]
		}

		txs = append(txs, domain.BankTransaction{
			TransactionID: t.TransactionID,
			AccountID:     t.AccountID,
			Name:          t.Name,
			Merchant:      t.MerchantName,
			Amount:        t.Amount,
			Date:          date,
			Category:      category,
			Currency:      t.ISOCurrencyCode,
		})
	}
	return txs, nil
}
