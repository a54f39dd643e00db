package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// toFloat accepts JSON numbers and numeric strings; the dashboard sends
// form values as either.
func toFloat(v interface{}) (float64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return t, true, nil
	case string:
		if t == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false, err
		}
		return f, true, nil
	default:
		return 0, false, &ValidationError{Message: "invalid type for numeric field"}
	}
}

func toDate(v interface{}) (time.Time, bool, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case string:
		if t == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true, nil
			}
		}
		return time.Time{}, false, &ValidationError{Message: "invalid date"}
	default:
		return time.Time{}, false, &ValidationError{Message: "invalid type for date field"}
	}
}

type DebtRequest struct {
	Name           string
	Balance        float64
	InterestRate   float64
	MinimumPayment float64
	ExtraPayment   *float64
	DueDate        time.Time
}

type rawDebtRequest struct {
	Name           string      `json:"name"`
	Balance        interface{} `json:"balance"`
	InterestRate   interface{} `json:"interest_rate"`
	MinimumPayment interface{} `json:"minimum_payment"`
	ExtraPayment   interface{} `json:"extra_payment"`
	DueDate        interface{} `json:"due_date"`
}

func ValidateDebtRequest(r *http.Request) (*DebtRequest, error) {
	var raw rawDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	if raw.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	balance, ok, err := toFloat(raw.Balance)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "balance", Message: "balance is required and must be a number"}
	}
	rate, ok, err := toFloat(raw.InterestRate)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "interest_rate", Message: "interest_rate is required and must be a number"}
	}
	minPayment, ok, err := toFloat(raw.MinimumPayment)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "minimum_payment", Message: "minimum_payment is required and must be a number"}
	}

	req := &DebtRequest{
		Name:           raw.Name,
		Balance:        balance,
		InterestRate:   rate,
		MinimumPayment: minPayment,
	}

	if extra, ok, err := toFloat(raw.ExtraPayment); err != nil {
		return nil, &ValidationError{Field: "extra_payment", Message: "extra_payment must be a number or empty"}
	} else if ok {
		req.ExtraPayment = &extra
	}

	if due, ok, err := toDate(raw.DueDate); err != nil {
		return nil, &ValidationError{Field: "due_date", Message: "due_date must be YYYY-MM-DD or RFC3339"}
	} else if ok {
		req.DueDate = due
	}

	return req, nil
}

type PaymentRequest struct {
	DebtID string
	Amount float64
	Date   time.Time
	Notes  *string
}

type rawPaymentRequest struct {
	DebtID string      `json:"debt_id"`
	Amount interface{} `json:"amount"`
	Date   interface{} `json:"date"`
	Notes  *string     `json:"notes"`
}

func ValidatePaymentRequest(r *http.Request) (*PaymentRequest, error) {
	var raw rawPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	if raw.DebtID == "" {
		return nil, &ValidationError{Field: "debt_id", Message: "debt_id is required"}
	}
	amount, ok, err := toFloat(raw.Amount)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "amount", Message: "amount is required and must be a number"}
	}

	req := &PaymentRequest{
		DebtID: raw.DebtID,
		Amount: amount,
		Notes:  raw.Notes,
	}

	if date, ok, err := toDate(raw.Date); err != nil {
		return nil, &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD or RFC3339"}
	} else if ok {
		req.Date = date
	}

	return req, nil
}

type CalculatorRequest struct {
	Balance           float64
	MonthlyPayment    float64
	AnnualRate        float64
	RecurringExpenses float64
}

type rawCalculatorRequest struct {
	Balance           interface{} `json:"balance"`
	MonthlyPayment    interface{} `json:"monthly_payment"`
	AnnualRate        interface{} `json:"apr"`
	RecurringExpenses interface{} `json:"recurring_expenses"`
}

func ValidateCalculatorRequest(r *http.Request) (*CalculatorRequest, error) {
	var raw rawCalculatorRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	balance, ok, err := toFloat(raw.Balance)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "balance", Message: "balance is required and must be a number"}
	}
	payment, ok, err := toFloat(raw.MonthlyPayment)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "monthly_payment", Message: "monthly_payment is required and must be a number"}
	}
	rate, ok, err := toFloat(raw.AnnualRate)
	if err != nil || !ok {
		return nil, &ValidationError{Field: "apr", Message: "apr is required and must be a number"}
	}

	req := &CalculatorRequest{
		Balance:        balance,
		MonthlyPayment: payment,
		AnnualRate:     rate,
	}

	if recurring, ok, err := toFloat(raw.RecurringExpenses); err != nil {
		return nil, &ValidationError{Field: "recurring_expenses", Message: "recurring_expenses must be a number or empty"}
	} else if ok {
		req.RecurringExpenses = recurring
	}

	return req, nil
}
