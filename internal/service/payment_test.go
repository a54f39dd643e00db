package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/repository"
)

func newPaymentFixture(t *testing.T) (*PaymentService, domain.Debt, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	debts := NewDebtService(store, nil)

	debt, err := debts.CreateDebt(context.Background(), domain.Debt{
		UserID:         "u1",
		Name:           "Credit Card",
		Balance:        1200,
		InterestRate:   15.5,
		MinimumPayment: 50,
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	return NewPaymentService(store.PaymentRepository(), debts), debt, store
}

func TestLogPayment_InvalidAmount(t *testing.T) {
	svc, debt, _ := newPaymentFixture(t)

	for _, amount := range []float64{0, -25} {
		_, err := svc.LogPayment(context.Background(), domain.Payment{
			DebtID: debt.ID,
			UserID: "u1",
			Amount: amount,
		})
		if !errors.Is(err, ErrInvalidPayment) {
			t.Errorf("amount %v: expected ErrInvalidPayment, got %v", amount, err)
		}
	}
}

func TestLogPayment_DecrementsBalance(t *testing.T) {
	svc, debt, store := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := svc.LogPayment(ctx, domain.Payment{
		DebtID: debt.ID,
		UserID: "u1",
		Amount: 200,
	})
	if err != nil {
		t.Fatalf("log payment: %v", err)
	}
	if payment.ID == "" {
		t.Error("expected generated payment ID")
	}
	if payment.Date.IsZero() {
		t.Error("expected payment date to be defaulted")
	}

	updated, err := store.GetByID(ctx, "u1", debt.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if updated.CurrentBalance != 1000 {
		t.Errorf("expected current balance 1000 after payment, got %v", updated.CurrentBalance)
	}
}

func TestLogPayment_DuplicateSameDay(t *testing.T) {
	svc, debt, _ := newPaymentFixture(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	if _, err := svc.LogPayment(ctx, domain.Payment{DebtID: debt.ID, UserID: "u1", Amount: 100, Date: date}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	// same amount later the same day is rejected
	_, err := svc.LogPayment(ctx, domain.Payment{DebtID: debt.ID, UserID: "u1", Amount: 100, Date: date.Add(5 * time.Hour)})
	if !errors.Is(err, repository.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	// different amount the same day is fine
	if _, err := svc.LogPayment(ctx, domain.Payment{DebtID: debt.ID, UserID: "u1", Amount: 101, Date: date}); err != nil {
		t.Fatalf("different amount: %v", err)
	}

	// same amount the next day is fine
	if _, err := svc.LogPayment(ctx, domain.Payment{DebtID: debt.ID, UserID: "u1", Amount: 100, Date: date.AddDate(0, 0, 1)}); err != nil {
		t.Fatalf("next day: %v", err)
	}
}

func TestLogPayment_DuplicateUsesUTCDate(t *testing.T) {
	svc, debt, _ := newPaymentFixture(t)
	ctx := context.Background()

	// 2025-06-15 23:30 UTC-5 is 2025-06-16 04:30 UTC
	late := time.Date(2025, 6, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

	if _, err := svc.LogPayment(ctx, domain.Payment{DebtID: debt.ID, UserID: "u1", Amount: 100, Date: late}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	// same UTC day even though the local dates differ
	_, err := svc.LogPayment(ctx, domain.Payment{
		DebtID: debt.ID, UserID: "u1", Amount: 100,
		Date: time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, repository.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment for same UTC day, got %v", err)
	}

	// same local day as the first payment, but the previous UTC day
	if _, err := svc.LogPayment(ctx, domain.Payment{
		DebtID: debt.ID, UserID: "u1", Amount: 100,
		Date: time.Date(2025, 6, 15, 10, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
	}); err != nil {
		t.Fatalf("different UTC day: %v", err)
	}
}

func TestLogPayment_UnknownDebt(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.LogPayment(context.Background(), domain.Payment{
		DebtID: "missing",
		UserID: "u1",
		Amount: 50,
	})
	if !errors.Is(err, repository.ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
}

func TestListPayments_NewestFirst(t *testing.T) {
	svc, debt, _ := newPaymentFixture(t)
	ctx := context.Background()

	first := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 7)
	for _, p := range []domain.Payment{
		{DebtID: debt.ID, UserID: "u1", Amount: 50, Date: first},
		{DebtID: debt.ID, UserID: "u1", Amount: 75, Date: second},
	} {
		if _, err := svc.LogPayment(ctx, p); err != nil {
			t.Fatalf("log payment: %v", err)
		}
	}

	payments, err := svc.ListPayments(ctx, "u1", debt.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if !payments[0].Date.Equal(second) {
		t.Errorf("expected newest payment first, got %v", payments[0].Date)
	}
}
