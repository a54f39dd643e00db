package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budgetwize-api/internal/domain"

	"github.com/google/uuid"
)

type DebtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

const debtColumns = `id, user_id, name, balance, current_balance, interest_rate, minimum_payment, extra_payment, due_date, created_at, updated_at`

func scanDebt(row interface{ Scan(...any) error }) (domain.Debt, error) {
	var d domain.Debt
	var extra sql.NullFloat64
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Balance,
		&d.CurrentBalance,
		&d.InterestRate,
		&d.MinimumPayment,
		&extra,
		&d.DueDate,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return domain.Debt{}, err
	}
	if extra.Valid {
		v := extra.Float64
		d.ExtraPayment = &v
	}
	return d, nil
}

func (r *DebtRepository) List(ctx context.Context, userID string) ([]domain.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DebtRepository) GetByID(ctx context.Context, userID, debtID string) (domain.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1 AND user_id = $2`,
		debtID, userID,
	)

	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Debt{}, ErrDebtNotFound
	}
	return d, err
}

func (r *DebtRepository) Create(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	// current balance starts at the original balance
	d.CurrentBalance = d.Balance
	now := time.Now()
	d.CreatedAt = &now
	d.UpdatedAt = &now

	var extra sql.NullFloat64
	if d.ExtraPayment != nil {
		extra = sql.NullFloat64{Float64: *d.ExtraPayment, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, user_id, name, balance, current_balance, interest_rate, minimum_payment, extra_payment, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.UserID, d.Name, d.Balance, d.CurrentBalance, d.InterestRate, d.MinimumPayment, extra, d.DueDate, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return domain.Debt{}, err
	}
	return d, nil
}

func (r *DebtRepository) Delete(ctx context.Context, userID, debtID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM debts WHERE id = $1 AND user_id = $2`,
		debtID, userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDebtNotFound
	}
	return nil
}
