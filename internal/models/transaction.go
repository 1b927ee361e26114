package models

import "time"

// TransactionType is the direction of a money movement.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// Valid reports whether t is one of the two recognized types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// DateLayout is the canonical calendar-day encoding used everywhere a
// transaction date is stored or compared.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense record. Amount is always
// positive; Type alone determines direction.
type Transaction struct {
	ID          int64
	UserID      string
	AccountID   int64
	Date        time.Time // calendar day, no time component
	Type        TransactionType
	Amount      float64
	Category    string
	Description string
	Tags        string
}

// DateString returns the canonical "YYYY-MM-DD" form of the transaction date.
func (t *Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// MonthlyBudget is the overall spending limit for one (user, month, year).
type MonthlyBudget struct {
	UserID string
	Month  int
	Year   int
	Amount float64
}

// CategoryBudget is the spending limit for one category in one period.
// Amount is always strictly positive; a zero category budget is rejected
// rather than stored.
type CategoryBudget struct {
	UserID   string
	Category string
	Month    int
	Year     int
	Amount   float64
}
