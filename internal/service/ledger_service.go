package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financify/financify/internal/metrics"
	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/notify"
	"github.com/financify/financify/internal/storage"
)

// LedgerService is the single write path for transaction records.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
	changes *notify.Broadcaster
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store storage.Store, m *metrics.Metrics, changes *notify.Broadcaster) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: m,
		changes: changes,
	}
}

// AddParams are the caller-supplied fields of a new transaction.
type AddParams struct {
	AccountID   int64
	Date        time.Time
	Type        models.TransactionType
	Amount      float64
	Category    string
	Description string
	Tags        string
}

// BudgetAlert reports that adding an expense pushed a category over its
// budget for the transaction's period. It is advisory: the transaction is
// stored regardless.
type BudgetAlert struct {
	Category string
	Budget   float64
	Spent    float64 // includes the newly added amount
}

// Overrun is the amount by which the category budget is exceeded.
func (a *BudgetAlert) Overrun() float64 {
	return a.Spent - a.Budget
}

// Add validates and stores one transaction. When sess is non-nil the insert
// joins that transactional session (the CSV import path); otherwise it runs
// in its own implicit transaction. The returned alert is non-nil when an
// expense exceeds its category budget for the period.
func (s *LedgerService) Add(ctx context.Context, sess storage.Session, userID string, p AddParams) (*models.Transaction, *BudgetAlert, error) {
	if p.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if !p.Type.Valid() {
		return nil, nil, ErrInvalidType
	}

	t := &models.Transaction{
		UserID:      userID,
		AccountID:   p.AccountID,
		Date:        p.Date,
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Tags:        p.Tags,
	}

	alert, err := s.checkCategoryBudget(ctx, userID, t)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.CreateTransaction(ctx, sess, t); err != nil {
		return nil, nil, fmt.Errorf("add transaction: %w", err)
	}

	s.metrics.TransactionsCreated.Inc()
	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.TransactionsChanged})
	slog.Info("transaction added",
		"user_id", userID,
		"transaction_id", t.ID,
		"type", t.Type,
		"amount", t.Amount,
		"category", t.Category,
	)

	return t, alert, nil
}

// checkCategoryBudget computes the over-budget alert for an expense before
// it is stored. Only categories with a budget for the transaction's period
// can fire one.
func (s *LedgerService) checkCategoryBudget(ctx context.Context, userID string, t *models.Transaction) (*BudgetAlert, error) {
	if t.Type != models.Expense {
		return nil, nil
	}

	month, year := int(t.Date.Month()), t.Date.Year()
	budgets, err := s.store.CategoryBudgetsWithSpending(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("check category budget: %w", err)
	}

	for _, row := range budgets {
		if row.Category != t.Category || row.Budget <= 0 {
			continue
		}
		if row.Spent+t.Amount > row.Budget {
			return &BudgetAlert{
				Category: row.Category,
				Budget:   row.Budget,
				Spent:    row.Spent + t.Amount,
			}, nil
		}
	}

	return nil, nil
}

// UpdateParams are the mutable fields of an existing transaction.
type UpdateParams struct {
	AccountID   int64
	Date        time.Time
	Type        models.TransactionType
	Amount      float64
	Category    string
	Description string
	Tags        string
}

// Update rewrites an existing transaction after checking ownership: a
// missing row yields storage.ErrNotFound, another user's row ErrForbidden.
func (s *LedgerService) Update(ctx context.Context, userID string, id int64, p UpdateParams) error {
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}

	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}

	existing.AccountID = p.AccountID
	existing.Date = p.Date
	existing.Type = p.Type
	existing.Amount = p.Amount
	existing.Category = p.Category
	existing.Description = p.Description
	existing.Tags = p.Tags

	if err := s.store.UpdateTransaction(ctx, existing); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.TransactionsChanged})
	slog.Info("transaction updated", "user_id", userID, "transaction_id", id)

	return nil
}

// Delete removes one transaction, with the same ownership semantics as
// Update.
func (s *LedgerService) Delete(ctx context.Context, userID string, id int64) error {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.DeleteTransaction(ctx, id, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.metrics.TransactionsDeleted.Inc()
	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.TransactionsChanged})
	slog.Info("transaction deleted", "user_id", userID, "transaction_id", id)

	return nil
}

// Clone re-adds an existing transaction dated today, with " (Clone)"
// appended to its description.
func (s *LedgerService) Clone(ctx context.Context, userID string, id int64) (*models.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}

	clone, _, err := s.Add(ctx, nil, userID, AddParams{
		AccountID:   existing.AccountID,
		Date:        time.Now(),
		Type:        existing.Type,
		Amount:      existing.Amount,
		Category:    existing.Category,
		Description: existing.Description + " (Clone)",
		Tags:        existing.Tags,
	})
	if err != nil {
		return nil, err
	}

	return clone, nil
}

// ListByFilter returns the user's transactions matching a case-insensitive
// substring search, newest first. An empty term returns everything.
func (s *LedgerService) ListByFilter(ctx context.Context, userID, search string) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, search)
}

// WipeAll deletes the user's transactions and all budgets. The user and
// their accounts remain, so they can log back in to an empty ledger.
func (s *LedgerService) WipeAll(ctx context.Context, userID string) error {
	if err := s.store.WipeUserData(ctx, userID); err != nil {
		return fmt.Errorf("wipe user data: %w", err)
	}

	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.TransactionsChanged})
	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.BudgetsChanged})
	slog.Info("user data wiped", "user_id", userID)

	return nil
}

// IsNotFound reports whether err means the transaction does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
