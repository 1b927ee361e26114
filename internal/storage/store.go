// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/financify/financify/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// Session is an explicit transactional scope. The import engine owns a
// Session for the duration of a CSV batch and passes it into ledger calls
// so that every insert and duplicate check shares one atomic unit.
// Rollback after Commit is a no-op, so `defer sess.Rollback()` is safe on
// every path.
type Session interface {
	Commit() error
	Rollback() error
}

// Store defines the persistence operations for the ledger engine.
// This abstraction allows swapping storage backends without changing the
// service layer. Methods taking a Session run inside that scope when it is
// non-nil and in their own implicit transaction otherwise.
type Store interface {
	// Begin opens a new transactional session.
	Begin(ctx context.Context) (Session, error)

	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Accounts. ListAccounts returns accounts ordered by id ascending
	// (creation order).
	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)

	// Transactions. CreateTransaction populates the row's ID.
	// GetTransaction is unscoped so the service layer can tell "row does not
	// exist" apart from "row belongs to someone else"; UpdateTransaction and
	// DeleteTransaction return ErrNotFound when no row matches both the
	// transaction id and the owning user.
	CreateTransaction(ctx context.Context, sess Session, t *models.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id int64, userID string) error

	// ListTransactions applies a case-insensitive substring search across
	// description, category, amount text, and date text; an empty term
	// matches everything. Rows come back date descending, ties broken by id
	// descending.
	ListTransactions(ctx context.Context, userID, search string) ([]models.Transaction, error)

	// TransactionExists reports whether the user already has a transaction
	// with the same date, absolute amount, and description. When sess is
	// non-nil the check sees rows inserted earlier in the same session.
	TransactionExists(ctx context.Context, sess Session, userID string, date string, amount float64, description string) (bool, error)

	// WipeUserData deletes the user's transactions and budgets atomically,
	// leaving the user and accounts intact.
	WipeUserData(ctx context.Context, userID string) error

	// Budgets.
	SetMonthlyBudget(ctx context.Context, b *models.MonthlyBudget) error
	GetMonthlyBudget(ctx context.Context, userID string, month, year int) (float64, error)
	SetCategoryBudget(ctx context.Context, b *models.CategoryBudget) error
	DeleteCategoryBudget(ctx context.Context, userID, category string, month, year int) error

	// CategoryBudgetsWithSpending left-joins budgets against expense sums:
	// every budgeted category appears, with Spent = 0 when no matching
	// expenses exist.
	CategoryBudgetsWithSpending(ctx context.Context, userID string, month, year int) ([]models.CategoryBudgetRow, error)

	// Aggregates.
	SumByType(ctx context.Context, userID string, typ models.TransactionType, month, year int) (float64, error)
	ExpenseBreakdown(ctx context.Context, userID string, month, year int) ([]models.CategoryTotal, error)
	MonthlyComparison(ctx context.Context, userID string, months int) ([]models.ComparisonRow, error)

	// Close releases any resources held by the store.
	Close() error
}
