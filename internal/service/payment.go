package service

import (
	"context"
	"errors"
	"math"
	"time"

	"budgetwize-api/internal/domain"
)

type PaymentStore interface {
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ListByDebt(ctx context.Context, userID, debtID string) ([]domain.Payment, error)
}

var ErrInvalidPayment = errors.New("payment amount must be a positive number")

type PaymentService struct {
	repo  PaymentStore
	debts *DebtService
}

func NewPaymentService(repo PaymentStore, debts *DebtService) *PaymentService {
	return &PaymentService{repo: repo, debts: debts}
}

// LogPayment records a payment against a debt. The duplicate check and
// the balance decrement happen atomically in the store.
func (s *PaymentService) LogPayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return domain.Payment{}, ErrInvalidPayment
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Payment{}, err
	}

	if s.debts != nil {
		s.debts.invalidatePlans(ctx, p.UserID)
	}
	return created, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	return s.repo.ListByDebt(ctx, userID, debtID)
}
