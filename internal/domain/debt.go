package domain

import "time"

type Debt struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name string `json:"name"`

	// Balance is the amount the debt was created with; CurrentBalance
	// only moves down as payments are logged against it.
	Balance        float64 `json:"balance"`
	CurrentBalance float64 `json:"current_balance"`

	InterestRate   float64  `json:"interest_rate"`
	MinimumPayment float64  `json:"minimum_payment"`
	ExtraPayment   *float64 `json:"extra_payment,omitempty"`

	DueDate time.Time `json:"due_date"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MonthlyPayment is what the planner dedicates to this debt each month:
// the minimum payment plus any extra payment.
func (d Debt) MonthlyPayment() float64 {
	extra := 0.0
	if d.ExtraPayment != nil {
		extra = *d.ExtraPayment
	}
	return d.MinimumPayment + extra
}
