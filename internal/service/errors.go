package service

import "errors"

var (
	// ErrInvalidAmount rejects transaction or budget amounts that are zero
	// or negative. Direction is carried by the transaction type, never by
	// the sign of the stored value.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidType rejects transaction types other than Income or Expense.
	ErrInvalidType = errors.New("type must be Income or Expense")

	// ErrNegativeBudget rejects a negative overall monthly budget.
	ErrNegativeBudget = errors.New("budget cannot be negative")

	// ErrForbidden is returned when a caller tries to mutate a transaction
	// owned by a different user.
	ErrForbidden = errors.New("transaction belongs to a different user")
)
