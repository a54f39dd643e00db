package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/repository"
	"budgetwize-api/internal/vault"
)

type fakePlaid struct {
	accessToken string
	accounts    []domain.BankAccount
	txs         []domain.BankTransaction

	lastStart time.Time
	lastEnd   time.Time
	gotToken  string
}

func (f *fakePlaid) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	return "link-sandbox-" + userID, nil
}

func (f *fakePlaid) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return f.accessToken, "item-1", nil
}

func (f *fakePlaid) GetAccounts(ctx context.Context, accessToken string) ([]domain.BankAccount, error) {
	f.gotToken = accessToken
	return f.accounts, nil
}

func (f *fakePlaid) GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]domain.BankTransaction, error) {
	f.gotToken = accessToken
	f.lastStart, f.lastEnd = start, end
	return f.txs, nil
}

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	v, err := vault.New(key)
	if err != nil {
		t.Fatalf("vault: %v", err)
	}
	return v
}

func newBankFixture(t *testing.T, plaid *fakePlaid) (*BankService, *repository.MemoryPlaidItemStore) {
	t.Helper()
	items := repository.NewMemoryPlaidItemStore()
	var gw PlaidGateway
	if plaid != nil {
		gw = plaid
	}
	return NewBankService(gw, testVault(t), items, repository.NewMemoryTransactionStore(), nil), items
}

func TestLinkAccount_StoresEncryptedToken(t *testing.T) {
	plaid := &fakePlaid{accessToken: "access-sandbox-secret"}
	svc, items := newBankFixture(t, plaid)
	ctx := context.Background()

	if err := svc.LinkAccount(ctx, "u1", "public-sandbox-token"); err != nil {
		t.Fatalf("link: %v", err)
	}

	item, err := items.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.ItemID != "item-1" {
		t.Errorf("expected item-1, got %s", item.ItemID)
	}
	if strings.Contains(item.EncryptedAccessToken, "access-sandbox-secret") {
		t.Error("access token stored in plaintext")
	}
	if parts := strings.Split(item.EncryptedAccessToken, ":"); len(parts) != 3 {
		t.Errorf("expected iv:tag:ciphertext envelope, got %q", item.EncryptedAccessToken)
	}
}

func TestAccounts_DecryptsStoredToken(t *testing.T) {
	available := 2500.0
	plaid := &fakePlaid{
		accessToken: "access-sandbox-secret",
		accounts:    []domain.BankAccount{{AccountID: "a1", Name: "Checking", AvailableBalance: &available}},
	}
	svc, _ := newBankFixture(t, plaid)
	ctx := context.Background()

	if err := svc.LinkAccount(ctx, "u1", "public"); err != nil {
		t.Fatalf("link: %v", err)
	}

	accounts, err := svc.Accounts(ctx, "u1")
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Checking" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if plaid.gotToken != "access-sandbox-secret" {
		t.Errorf("gateway called with %q, want decrypted token", plaid.gotToken)
	}
}

func TestAccounts_NoLinkedItem(t *testing.T) {
	svc, _ := newBankFixture(t, &fakePlaid{})

	_, err := svc.Accounts(context.Background(), "u1")
	if !errors.Is(err, repository.ErrNoLinkedItem) {
		t.Fatalf("expected ErrNoLinkedItem, got %v", err)
	}
}

func TestAccounts_TamperedTokenSurfacesDecryptError(t *testing.T) {
	plaid := &fakePlaid{accessToken: "access-sandbox-secret"}
	svc, items := newBankFixture(t, plaid)
	ctx := context.Background()

	if err := svc.LinkAccount(ctx, "u1", "public"); err != nil {
		t.Fatalf("link: %v", err)
	}
	item, _ := items.Get(ctx, "u1")
	item.EncryptedAccessToken = "00:11:22"
	_ = items.Upsert(ctx, item)

	_, err := svc.Accounts(ctx, "u1")
	if err == nil {
		t.Fatal("expected decryption error")
	}
	if errors.Is(err, repository.ErrNoLinkedItem) {
		t.Fatal("decryption failure must not masquerade as a missing link")
	}
}

func TestSyncTransactions_WindowAndDedup(t *testing.T) {
	date := time.Now().AddDate(0, 0, -3)
	plaid := &fakePlaid{
		accessToken: "access-sandbox-secret",
		txs: []domain.BankTransaction{
			{TransactionID: "t1", AccountID: "a1", Name: "Coffee", Amount: 4.5, Date: date},
			{TransactionID: "t2", AccountID: "a1", Name: "Groceries", Amount: 82.1, Date: date},
		},
	}
	svc, _ := newBankFixture(t, plaid)
	ctx := context.Background()

	if err := svc.LinkAccount(ctx, "u1", "public"); err != nil {
		t.Fatalf("link: %v", err)
	}

	count, err := svc.SyncTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 synced, got %d", count)
	}

	window := plaid.lastEnd.Sub(plaid.lastStart)
	if window < 29*24*time.Hour || window > 31*24*time.Hour {
		t.Errorf("expected roughly a 30 day window, got %v", window)
	}

	// a second sync of the same rows does not duplicate them
	if _, err := svc.SyncTransactions(ctx, "u1"); err != nil {
		t.Fatalf("resync: %v", err)
	}
	stored, err := svc.StoredTransactions(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("stored: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored transactions after resync, got %d", len(stored))
	}
}

func TestBankService_Unconfigured(t *testing.T) {
	svc, _ := newBankFixture(t, nil)
	ctx := context.Background()

	if _, err := svc.CreateLinkToken(ctx, "u1"); !errors.Is(err, ErrBankUnavailable) {
		t.Errorf("CreateLinkToken: expected ErrBankUnavailable, got %v", err)
	}
	if err := svc.LinkAccount(ctx, "u1", "public"); !errors.Is(err, ErrBankUnavailable) {
		t.Errorf("LinkAccount: expected ErrBankUnavailable, got %v", err)
	}
	if _, err := svc.Accounts(ctx, "u1"); !errors.Is(err, ErrBankUnavailable) {
		t.Errorf("Accounts: expected ErrBankUnavailable, got %v", err)
	}
}
