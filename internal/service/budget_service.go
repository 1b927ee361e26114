package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/notify"
	"github.com/financify/financify/internal/storage"
)

// BudgetService manages overall and per-category budgets.
type BudgetService struct {
	store   storage.Store
	changes *notify.Broadcaster
}

// NewBudgetService creates a new budget service.
func NewBudgetService(store storage.Store, changes *notify.Broadcaster) *BudgetService {
	return &BudgetService{store: store, changes: changes}
}

// SetMonthly upserts the overall budget for the period. Zero is a valid
// overall budget (it means "no spending planned"); negative is not.
func (s *BudgetService) SetMonthly(ctx context.Context, userID string, month, year int, amount float64) error {
	if amount < 0 {
		return ErrNegativeBudget
	}

	b := &models.MonthlyBudget{UserID: userID, Month: month, Year: year, Amount: amount}
	if err := s.store.SetMonthlyBudget(ctx, b); err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}

	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.BudgetsChanged})
	slog.Info("monthly budget set", "user_id", userID, "month", month, "year", year, "amount", amount)

	return nil
}

// SetCategory upserts one category's budget for the period. A category
// budget of zero or less is meaningless and is rejected rather than stored.
func (s *BudgetService) SetCategory(ctx context.Context, userID, category string, amount float64, month, year int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b := &models.CategoryBudget{UserID: userID, Category: category, Month: month, Year: year, Amount: amount}
	if err := s.store.SetCategoryBudget(ctx, b); err != nil {
		return fmt.Errorf("set category budget: %w", err)
	}

	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.BudgetsChanged})
	slog.Info("category budget set", "user_id", userID, "category", category, "month", month, "year", year, "amount", amount)

	return nil
}

// DeleteCategory removes one category's budget for the period.
func (s *BudgetService) DeleteCategory(ctx context.Context, userID, category string, month, year int) error {
	if err := s.store.DeleteCategoryBudget(ctx, userID, category, month, year); err != nil {
		return fmt.Errorf("delete category budget: %w", err)
	}

	s.changes.Publish(notify.Change{UserID: userID, Kind: notify.BudgetsChanged})
	slog.Info("category budget deleted", "user_id", userID, "category", category, "month", month, "year", year)

	return nil
}

// CategoryBudgetsWithSpending returns every budgeted category for the period
// with its expense total, including budgeted categories nothing was spent on.
func (s *BudgetService) CategoryBudgetsWithSpending(ctx context.Context, userID string, month, year int) ([]models.CategoryBudgetRow, error) {
	return s.store.CategoryBudgetsWithSpending(ctx, userID, month, year)
}
