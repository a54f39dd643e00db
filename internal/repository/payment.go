package repository

import (
	"context"
	"database/sql"
	"time"

	"budgetwize-api/internal/domain"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts the payment and decrements the owning debt's current
// balance in one transaction. The duplicate check (same debt, amount and
// calendar date) lives here, at the storage boundary, so a retried
// request cannot double-log a payment.
func (r *PaymentRepository) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Payment{}, err
	}
	defer tx.Rollback()

	var debtExists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM debts WHERE id = $1 AND user_id = $2)`,
		p.DebtID, p.UserID,
	).Scan(&debtExists); err != nil {
		return domain.Payment{}, err
	}
	if !debtExists {
		return domain.Payment{}, ErrDebtNotFound
	}

	// both sides of the calendar-date comparison are pinned to UTC, so
	// the session timezone cannot shift payments across midnight
	day := p.Date.UTC().Format("2006-01-02")
	var duplicate bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM debt_payments
			WHERE debt_id = $1 AND user_id = $2 AND amount = $3
			  AND (date AT TIME ZONE 'UTC')::date = $4::date
		)`,
		p.DebtID, p.UserID, p.Amount, day,
	).Scan(&duplicate); err != nil {
		return domain.Payment{}, err
	}
	if duplicate {
		return domain.Payment{}, ErrDuplicatePayment
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = &now

	var notes sql.NullString
	if p.Notes != nil {
		notes = sql.NullString{String: *p.Notes, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO debt_payments (id, debt_id, user_id, amount, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.DebtID, p.UserID, p.Amount, p.Date, notes, p.CreatedAt,
	); err != nil {
		return domain.Payment{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE debts SET current_balance = current_balance - $1, updated_at = $2
		WHERE id = $3 AND user_id = $4`,
		p.Amount, now, p.DebtID, p.UserID,
	); err != nil {
		return domain.Payment{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) ListByDebt(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, debt_id, user_id, amount, date, notes, created_at
		FROM debt_payments
		WHERE user_id = $1 AND debt_id = $2
		ORDER BY date DESC`,
		userID, debtID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.DebtID, &p.UserID, &p.Amount, &p.Date, &notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			s := notes.String
			p.Notes = &s
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
