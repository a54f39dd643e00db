package rest

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateDebtRequest_NumericStrings(t *testing.T) {
	body := `{"name":"Credit Card","balance":"1200","interest_rate":15.5,"minimum_payment":"50","extra_payment":"25","due_date":"2025-07-01"}`
	r := httptest.NewRequest("POST", "/debts", strings.NewReader(body))

	req, err := ValidateDebtRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.Balance != 1200 || req.InterestRate != 15.5 || req.MinimumPayment != 50 {
		t.Errorf("unexpected values: %+v", req)
	}
	if req.ExtraPayment == nil || *req.ExtraPayment != 25 {
		t.Errorf("expected extra payment 25, got %v", req.ExtraPayment)
	}
	if req.DueDate.Year() != 2025 || req.DueDate.Month() != 7 {
		t.Errorf("unexpected due date %v", req.DueDate)
	}
}

func TestValidateDebtRequest_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no name", `{"balance":100,"interest_rate":5,"minimum_payment":10}`},
		{"no balance", `{"name":"Card","interest_rate":5,"minimum_payment":10}`},
		{"garbage balance", `{"name":"Card","balance":"abc","interest_rate":5,"minimum_payment":10}`},
		{"bad date", `{"name":"Card","balance":100,"interest_rate":5,"minimum_payment":10,"due_date":"tomorrow"}`},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("POST", "/debts", strings.NewReader(tc.body))
		if _, err := ValidateDebtRequest(r); err == nil {
			t.Errorf("%s: expected error", tc.name)
		} else if _, ok := err.(*ValidationError); !ok {
			t.Errorf("%s: expected *ValidationError, got %T", tc.name, err)
		}
	}
}

func TestValidatePaymentRequest(t *testing.T) {
	body := `{"debt_id":"d1","amount":"200.50","date":"2025-06-15"}`
	r := httptest.NewRequest("POST", "/payments", strings.NewReader(body))

	req, err := ValidatePaymentRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.DebtID != "d1" || req.Amount != 200.50 {
		t.Errorf("unexpected values: %+v", req)
	}

	r = httptest.NewRequest("POST", "/payments", strings.NewReader(`{"amount":10}`))
	if _, err := ValidatePaymentRequest(r); err == nil {
		t.Error("expected error without debt_id")
	}
}

func TestValidateCalculatorRequest(t *testing.T) {
	body := `{"balance":1200,"monthly_payment":100,"apr":"15.5"}`
	r := httptest.NewRequest("POST", "/calculator/payoff", strings.NewReader(body))

	req, err := ValidateCalculatorRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.Balance != 1200 || req.MonthlyPayment != 100 || req.AnnualRate != 15.5 {
		t.Errorf("unexpected values: %+v", req)
	}
	if req.RecurringExpenses != 0 {
		t.Errorf("expected zero recurring expenses by default, got %v", req.RecurringExpenses)
	}

	r = httptest.NewRequest("POST", "/calculator/payoff", strings.NewReader(`{"balance":1200,"apr":5}`))
	if _, err := ValidateCalculatorRequest(r); err == nil {
		t.Error("expected error without monthly_payment")
	}
}
