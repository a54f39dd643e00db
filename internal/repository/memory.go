package repository

import (
	"context"
	"sync"
	"time"

	"budgetwize-api/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory debt and payment store for demo mode and
// tests. It is selected explicitly through configuration; it is never a
// fallback for a failed database connection.
type MemoryStore struct {
	mu       sync.Mutex
	debts    map[string]domain.Debt
	payments map[string][]domain.Payment // keyed by debt ID
	order    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		debts:    make(map[string]domain.Debt),
		payments: make(map[string][]domain.Payment),
	}
}

// NewSeededMemoryStore returns a store pre-populated with the sample
// debts the dashboard demo uses.
func NewSeededMemoryStore(userID string) *MemoryStore {
	s := NewMemoryStore()
	due := time.Now().AddDate(0, 1, 0)
	for _, d := range []domain.Debt{
		{Name: "Credit Card", Balance: 1200, InterestRate: 15.5, MinimumPayment: 50, DueDate: due, UserID: userID},
		{Name: "Student Loan", Balance: 8000, InterestRate: 4.5, MinimumPayment: 100, DueDate: due, UserID: userID},
	} {
		_, _ = s.Create(context.Background(), d)
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Debt
	for _, id := range s.order {
		if d, ok := s.debts[id]; ok && d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, userID, debtID string) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[debtID]
	if !ok || d.UserID != userID {
		return domain.Debt{}, ErrDebtNotFound
	}
	return d, nil
}

func (s *MemoryStore) Create(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CurrentBalance = d.Balance
	now := time.Now()
	d.CreatedAt = &now
	d.UpdatedAt = &now

	s.debts[d.ID] = d
	s.order = append(s.order, d.ID)
	return d, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, debtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[debtID]
	if !ok || d.UserID != userID {
		return ErrDebtNotFound
	}
	delete(s.debts, debtID)
	delete(s.payments, debtID)
	for i, id := range s.order {
		if id == debtID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CreatePayment mirrors the transactional semantics of the Postgres
// store: duplicate check first, then insert plus balance decrement.
func (s *MemoryStore) createPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[p.DebtID]
	if !ok || d.UserID != p.UserID {
		return domain.Payment{}, ErrDebtNotFound
	}

	// same UTC calendar-date rule as the Postgres store
	year, month, dayOfMonth := p.Date.UTC().Date()
	for _, existing := range s.payments[p.DebtID] {
		y, m, d := existing.Date.UTC().Date()
		if existing.Amount == p.Amount && y == year && m == month && d == dayOfMonth {
			return domain.Payment{}, ErrDuplicatePayment
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = &now

	s.payments[p.DebtID] = append(s.payments[p.DebtID], p)

	d.CurrentBalance -= p.Amount
	d.UpdatedAt = &now
	s.debts[p.DebtID] = d

	return p, nil
}

func (s *MemoryStore) listPaymentsByDebt(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[debtID]
	if !ok || d.UserID != userID {
		return nil, nil
	}

	out := make([]domain.Payment, len(s.payments[debtID]))
	copy(out, s.payments[debtID])
	// newest first, matching the Postgres store
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// MemoryPaymentRepository exposes the payment half of a MemoryStore under
// the same method set as the Postgres PaymentRepository.
type MemoryPaymentRepository struct {
	store *MemoryStore
}

func (s *MemoryStore) PaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{store: s}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	return r.store.createPayment(ctx, p)
}

func (r *MemoryPaymentRepository) ListByDebt(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	return r.store.listPaymentsByDebt(ctx, userID, debtID)
}
