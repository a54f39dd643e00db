package payoff

import (
	"testing"

	"budgetwize-api/internal/domain"
)

func debtNames(debts []domain.Debt) []string {
	names := make([]string, len(debts))
	for i, d := range debts {
		names[i] = d.Name
	}
	return names
}

func TestOrder_Avalanche(t *testing.T) {
	debts := []domain.Debt{
		{Name: "a", InterestRate: 5},
		{Name: "b", InterestRate: 20},
		{Name: "c", InterestRate: 10},
	}

	got := debtNames(Order(debts, StrategyAvalanche))
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("avalanche order = %v, want %v", got, want)
		}
	}
}

func TestOrder_Snowball(t *testing.T) {
	debts := []domain.Debt{
		{Name: "a", CurrentBalance: 500},
		{Name: "b", CurrentBalance: 100},
		{Name: "c", CurrentBalance: 900},
	}

	got := debtNames(Order(debts, StrategySnowball))
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snowball order = %v, want %v", got, want)
		}
	}
}

func TestOrder_StableOnTies(t *testing.T) {
	debts := []domain.Debt{
		{Name: "first", InterestRate: 10},
		{Name: "second", InterestRate: 10},
		{Name: "third", InterestRate: 10},
	}

	got := debtNames(Order(debts, StrategyAvalanche))
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tied order = %v, want original %v", got, want)
		}
	}
}

func TestOrder_HighestPaymentAndCustom(t *testing.T) {
	debts := []domain.Debt{
		{Name: "a", MinimumPayment: 50},
		{Name: "b", MinimumPayment: 200},
		{Name: "c", MinimumPayment: 100},
	}

	if got := debtNames(Order(debts, StrategyHighestPayment)); got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Errorf("highest-payment order = %v", got)
	}
	if got := debtNames(Order(debts, StrategyCustom)); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("custom order = %v, want input order", got)
	}

	// Order must not mutate its input.
	if debts[0].Name != "a" {
		t.Errorf("input slice was reordered")
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("snowball"); err != nil || s != StrategySnowball {
		t.Errorf("ParseStrategy(snowball) = %v, %v", s, err)
	}
	if s, err := ParseStrategy(""); err != nil || s != StrategyAvalanche {
		t.Errorf("ParseStrategy(empty) = %v, %v; want avalanche default", s, err)
	}
	if _, err := ParseStrategy("yolo"); err == nil {
		t.Errorf("expected error for unknown strategy")
	}
}

func TestBuildPlan(t *testing.T) {
	extra := 25.0
	debts := []domain.Debt{
		{ID: "1", Name: "card", CurrentBalance: 1200, InterestRate: 15.5, MinimumPayment: 50, ExtraPayment: &extra},
		{ID: "2", Name: "loan", CurrentBalance: 8000, InterestRate: 4.5, MinimumPayment: 100},
	}

	plan := BuildPlan(debts, StrategyAvalanche)

	if plan.TotalBalance != 9200 {
		t.Errorf("total balance = %v, want 9200", plan.TotalBalance)
	}
	if plan.TotalMinimumPayment != 150 {
		t.Errorf("total minimum = %v, want 150", plan.TotalMinimumPayment)
	}
	if plan.TotalExtraPayment != 25 {
		t.Errorf("total extra = %v, want 25", plan.TotalExtraPayment)
	}

	if plan.Debts[0].DebtName != "card" {
		t.Fatalf("avalanche should schedule the 15.5%% card first, got %q", plan.Debts[0].DebtName)
	}
	if plan.Debts[0].MonthlyPayment != 75 {
		t.Errorf("card monthly payment = %v, want minimum+extra = 75", plan.Debts[0].MonthlyPayment)
	}

	for _, dp := range plan.Debts {
		if !dp.Amortizes {
			t.Errorf("debt %q unexpectedly marked non-amortizing", dp.DebtName)
		}
		if !dp.PaidOff {
			t.Errorf("debt %q did not pay off within the planner cap", dp.DebtName)
		}
	}
}

func TestBuildPlan_NonAmortizingDebt(t *testing.T) {
	debts := []domain.Debt{
		// 24% APR accrues 200/month on 10000; a 100 minimum cannot amortize.
		{ID: "1", Name: "trap", CurrentBalance: 10000, InterestRate: 24, MinimumPayment: 100},
	}

	plan := BuildPlan(debts, StrategySnowball)
	if len(plan.Debts) != 1 {
		t.Fatalf("expected 1 debt plan, got %d", len(plan.Debts))
	}
	if plan.Debts[0].Amortizes {
		t.Errorf("expected non-amortizing debt to be flagged")
	}
	if len(plan.Debts[0].Schedule) != 0 {
		t.Errorf("non-amortizing debt should carry no schedule")
	}
}
