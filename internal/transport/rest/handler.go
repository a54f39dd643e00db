package rest

import (
	"context"
	"net/http"
	"time"

	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/payoff"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type DebtService interface {
	CreateDebt(ctx context.Context, d domain.Debt) (domain.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID string) error
	Plan(ctx context.Context, userID, strategyName string) (payoff.Plan, error)
}

type PaymentService interface {
	LogPayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error)
}

type CalculatorService interface {
	Payoff(balance, monthlyPayment, annualRate, recurringExpenses float64) (payoff.Schedule, error)
}

type BankService interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	LinkAccount(ctx context.Context, userID, publicToken string) error
	Accounts(ctx context.Context, userID string) ([]domain.BankAccount, error)
	SyncTransactions(ctx context.Context, userID string) (int, error)
	StoredTransactions(ctx context.Context, userID string, limit int) ([]domain.BankTransaction, error)
}

type ChatService interface {
	Ask(ctx context.Context, userID, message string) (string, error)
}

type ExportService interface {
	StartPlanExport(ctx context.Context, userID, strategyName string) (string, error)
	GetExports(ctx context.Context, userID string) ([]interface{}, error)
	GetExport(ctx context.Context, exportID, userID string) (interface{}, error)
}

type Handler struct {
	debts      DebtService
	payments   PaymentService
	calculator CalculatorService
	bank       BankService
	chat       ChatService
	exports    ExportService
}

func NewHandler(
	debts DebtService,
	payments PaymentService,
	calculator CalculatorService,
	bank BankService,
	chat ChatService,
	exports ExportService,
) *Handler {
	return &Handler{
		debts:      debts,
		payments:   payments,
		calculator: calculator,
		bank:       bank,
		chat:       chat,
		exports:    exports,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWithAuth(nil)
}

func (h *Handler) InitRouterWithAuth(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	r.Route("/debts", func(r chi.Router) {
		r.Get("/", h.listDebts)
		r.Post("/", h.createDebt)
		r.Delete("/{debt_id}", h.deleteDebt)
		r.Get("/{debt_id}/payments", h.listPayments)
	})

	r.Post("/payments", h.logPayment)

	r.Get("/plan", h.getPlan)
	r.Post("/calculator/payoff", h.calculatePayoff)

	r.Route("/bank", func(r chi.Router) {
		r.Post("/link-token", h.createLinkToken)
		r.Post("/exchange", h.exchangePublicToken)
		r.Get("/accounts", h.listBankAccounts)
		r.Get("/transactions", h.listBankTransactions)
		r.Post("/transactions/sync", h.syncBankTransactions)
	})

	r.Post("/chat", h.askChat)

	r.Route("/export", func(r chi.Router) {
		r.Get("/", h.listExports)
		r.Get("/{export_id}", h.getExport)
		r.Post("/plan", h.exportPlan)
	})

	return r
}
