package repository

import "errors"

var (
	ErrDebtNotFound = errors.New("debt not found")

	// ErrDuplicatePayment is the storage-boundary idempotency check: a
	// payment for the same debt, amount and calendar date already exists.
	ErrDuplicatePayment = errors.New("a payment with the same amount and date already exists")

	// ErrNoLinkedItem means the user never connected a bank account. It
	// is deliberately distinct from a credential decryption failure.
	ErrNoLinkedItem = errors.New("no linked bank account")

	ErrTokenNotFound = errors.New("token not found")
)
