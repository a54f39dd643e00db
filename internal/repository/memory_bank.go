package repository

import (
	"context"
	"sort"
	"sync"

	"budgetwize-api/internal/domain"

	"github.com/google/uuid"
)

// MemoryPlaidItemStore keeps linked items in memory. Used in demo mode.
type MemoryPlaidItemStore struct {
	mu    sync.Mutex
	items map[string]domain.PlaidItem
}

func NewMemoryPlaidItemStore() *MemoryPlaidItemStore {
	return &MemoryPlaidItemStore{items: make(map[string]domain.PlaidItem)}
}

func (s *MemoryPlaidItemStore) Upsert(ctx context.Context, item domain.PlaidItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.UserID] = item
	return nil
}

func (s *MemoryPlaidItemStore) Get(ctx context.Context, userID string) (domain.PlaidItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[userID]
	if !ok {
		return domain.PlaidItem{}, ErrNoLinkedItem
	}
	return item, nil
}

// MemoryTransactionStore keeps synced bank transactions in memory,
// deduplicated by aggregator transaction ID. Used in demo mode.
type MemoryTransactionStore struct {
	mu  sync.Mutex
	txs map[string]domain.BankTransaction
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{txs: make(map[string]domain.BankTransaction)}
}

func (s *MemoryTransactionStore) Upsert(ctx context.Context, tx domain.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[tx.TransactionID]; ok {
		return nil
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.txs[tx.TransactionID] = tx
	return nil
}

func (s *MemoryTransactionStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.BankTransaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
