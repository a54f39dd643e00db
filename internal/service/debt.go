package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"budgetwize-api/internal/clients"
	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/payoff"
)

type DebtStore interface {
	List(ctx context.Context, userID string) ([]domain.Debt, error)
	GetByID(ctx context.Context, userID, debtID string) (domain.Debt, error)
	Create(ctx context.Context, d domain.Debt) (domain.Debt, error)
	Delete(ctx context.Context, userID, debtID string) error
}

const planCacheTTL = 5 * time.Minute

var ErrInvalidDebt = errors.New("invalid debt")

type DebtService struct {
	repo  DebtStore
	redis *clients.RedisClient
}

func NewDebtService(repo DebtStore, redis *clients.RedisClient) *DebtService {
	return &DebtService{repo: repo, redis: redis}
}

func validMoney(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (s *DebtService) CreateDebt(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	if d.Name == "" {
		return domain.Debt{}, fmt.Errorf("%w: name is required", ErrInvalidDebt)
	}
	if !validMoney(d.Balance) {
		return domain.Debt{}, fmt.Errorf("%w: balance must be a non-negative number", ErrInvalidDebt)
	}
	if !validMoney(d.InterestRate) {
		return domain.Debt{}, fmt.Errorf("%w: interest rate must be a non-negative number", ErrInvalidDebt)
	}
	if !validMoney(d.MinimumPayment) {
		return domain.Debt{}, fmt.Errorf("%w: minimum payment must be a non-negative number", ErrInvalidDebt)
	}
	if d.ExtraPayment != nil && !validMoney(*d.ExtraPayment) {
		return domain.Debt{}, fmt.Errorf("%w: extra payment must be a non-negative number", ErrInvalidDebt)
	}
	if d.DueDate.IsZero() {
		d.DueDate = time.Now()
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return domain.Debt{}, err
	}

	s.invalidatePlans(ctx, d.UserID)
	return created, nil
}

func (s *DebtService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	return s.repo.List(ctx, userID)
}

func (s *DebtService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	if err := s.repo.Delete(ctx, userID, debtID); err != nil {
		return err
	}
	s.invalidatePlans(ctx, userID)
	return nil
}

func planCacheKey(userID string, strategy payoff.Strategy) string {
	return fmt.Sprintf("plan:%s:%s", userID, strategy)
}

// Plan orders the user's debts under the strategy and schedules each one.
// Plans are cached briefly; every debt or payment mutation drops the
// cache.
func (s *DebtService) Plan(ctx context.Context, userID, strategyName string) (payoff.Plan, error) {
	strategy, err := payoff.ParseStrategy(strategyName)
	if err != nil {
		return payoff.Plan{}, err
	}

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, planCacheKey(userID, strategy)); err == nil {
			var cached payoff.Plan
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	debts, err := s.repo.List(ctx, userID)
	if err != nil {
		return payoff.Plan{}, err
	}

	plan := payoff.BuildPlan(debts, strategy)

	if s.redis != nil {
		if data, err := json.Marshal(plan); err == nil {
			_ = s.redis.Set(ctx, planCacheKey(userID, strategy), string(data), planCacheTTL)
		}
	}

	return plan, nil
}

func (s *DebtService) invalidatePlans(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	keys := make([]string, 0, 4)
	for _, strategy := range []payoff.Strategy{
		payoff.StrategyAvalanche,
		payoff.StrategySnowball,
		payoff.StrategyHighestPayment,
		payoff.StrategyCustom,
	} {
		keys = append(keys, planCacheKey(userID, strategy))
	}
	_ = s.redis.Del(ctx, keys...)
}
