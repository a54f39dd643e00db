package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetwize-api/internal/clients"
	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/vault"
)

type PlaidItemStore interface {
	Upsert(ctx context.Context, item domain.PlaidItem) error
	Get(ctx context.Context, userID string) (domain.PlaidItem, error)
}

type TransactionStore interface {
	Upsert(ctx context.Context, tx domain.BankTransaction) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.BankTransaction, error)
}

// PlaidGateway is the slice of the aggregator client the bank service
// uses; tests substitute a fake.
type PlaidGateway interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	GetAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error)
	GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]domain.BankTransaction, error)
}

const syncWindow = 30 * 24 * time.Hour

// ErrBankUnavailable is returned when the server runs without
// aggregator credentials.
var ErrBankUnavailable = errors.New("bank aggregator is not configured")

type BankService struct {
	plaid PlaidGateway
	vault *vault.Vault
	items PlaidItemStore
	txs   TransactionStore
	ws    *clients.WebSocketClient
}

func NewBankService(plaid PlaidGateway, v *vault.Vault, items PlaidItemStore, txs TransactionStore, ws *clients.WebSocketClient) *BankService {
	return &BankService{
		plaid: plaid,
		vault: v,
		items: items,
		txs:   txs,
		ws:    ws,
	}
}

func (s *BankService) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	if s.plaid == nil {
		return "", ErrBankUnavailable
	}
	return s.plaid.CreateLinkToken(ctx, userID)
}

// LinkAccount exchanges the public token from a completed link flow and
// stores the resulting access token encrypted, keyed by user. The
// plaintext token never leaves this method.
func (s *BankService) LinkAccount(ctx context.Context, userID, publicToken string) error {
	if s.plaid == nil {
		return ErrBankUnavailable
	}
	accessToken, itemID, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return err
	}

	encrypted, err := s.vault.Encrypt(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	return s.items.Upsert(ctx, domain.PlaidItem{
		UserID:               userID,
		ItemID:               itemID,
		EncryptedAccessToken: encrypted,
	})
}

func (s *BankService) accessToken(ctx context.Context, userID string) (string, error) {
	item, err := s.items.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	// a decryption failure here must surface as such, never as
	// "user never connected an account"
	return s.vault.Decrypt(item.EncryptedAccessToken)
}

func (s *BankService) Accounts(ctx context.Context, userID string) ([]domain.BankAccount, error) {
	if s.plaid == nil {
		return nil, ErrBankUnavailable
	}
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.plaid.GetAccounts(ctx, token)
}

// SyncTransactions pulls the last 30 days of transactions and upserts
// them keyed on the aggregator's transaction ID. Returns the number
// fetched and notifies the user's open sessions.
func (s *BankService) SyncTransactions(ctx context.Context, userID string) (int, error) {
	if s.plaid == nil {
		return 0, ErrBankUnavailable
	}
	token, err := s.accessToken(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	txs, err := s.plaid.GetTransactions(ctx, token, now.Add(-syncWindow), now)
	if err != nil {
		return 0, err
	}

	for _, tx := range txs {
		tx.UserID = userID
		if err := s.txs.Upsert(ctx, tx); err != nil {
			return 0, fmt.Errorf("failed to store transaction %s: %w", tx.TransactionID, err)
		}
	}

	if s.ws != nil {
		_ = s.ws.NotifyBankSyncComplete(ctx, userID, len(txs))
	}
	return len(txs), nil
}

func (s *BankService) StoredTransactions(ctx context.Context, userID string, limit int) ([]domain.BankTransaction, error) {
	return s.txs.ListRecent(ctx, userID, limit)
}
