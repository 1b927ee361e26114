package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/storage"
)

// comparisonWindow is the number of trailing calendar months (those with at
// least one transaction) covered by the income-vs-expense comparison.
const comparisonWindow = 6

// AggregateService derives every read-side view from the ledger and budget
// stores. The UI never computes sums, joins, or dedup logic itself.
type AggregateService struct {
	store storage.Store
}

// NewAggregateService creates a new aggregation service.
func NewAggregateService(store storage.Store) *AggregateService {
	return &AggregateService{store: store}
}

// DashboardNumbers computes the headline figures for one period. The three
// underlying sums are independent queries, so they run concurrently.
func (s *AggregateService) DashboardNumbers(ctx context.Context, userID string, month, year int) (models.DashboardNumbers, error) {
	var numbers models.DashboardNumbers

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		budget, err := s.store.GetMonthlyBudget(gctx, userID, month, year)
		numbers.Budget = budget
		return err
	})
	g.Go(func() error {
		income, err := s.store.SumByType(gctx, userID, models.Income, month, year)
		numbers.Income = income
		return err
	})
	g.Go(func() error {
		spent, err := s.store.SumByType(gctx, userID, models.Expense, month, year)
		numbers.Spent = spent
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardNumbers{}, err
	}

	numbers.Remaining = numbers.Budget - numbers.Spent
	numbers.Net = numbers.Income - numbers.Spent

	return numbers, nil
}

// ExpenseBreakdown returns expense totals per category for the period, for
// share-of-total presentation. Categories without expenses are omitted.
func (s *AggregateService) ExpenseBreakdown(ctx context.Context, userID string, month, year int) ([]models.CategoryTotal, error) {
	return s.store.ExpenseBreakdown(ctx, userID, month, year)
}

// MonthlyComparison returns income and expense totals for the most recent
// months containing data, in chronological order.
func (s *AggregateService) MonthlyComparison(ctx context.Context, userID string) ([]models.ComparisonRow, error) {
	return s.store.MonthlyComparison(ctx, userID, comparisonWindow)
}
