package service

import (
	"context"
	"errors"
	"testing"

	"github.com/financify/financify/internal/models"
)

func TestBudgetServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, _ := env.loginUser(t, "alice")

	t.Run("negative overall budget rejected, zero allowed", func(t *testing.T) {
		if err := env.budgets.SetMonthly(ctx, userID, 3, 2024, -1); !errors.Is(err, ErrNegativeBudget) {
			t.Errorf("Expected ErrNegativeBudget, got %v", err)
		}
		if err := env.budgets.SetMonthly(ctx, userID, 3, 2024, 0); err != nil {
			t.Errorf("Zero overall budget must be allowed, got %v", err)
		}
	})

	t.Run("category budget must be positive", func(t *testing.T) {
		for _, amount := range []float64{0, -100} {
			if err := env.budgets.SetCategory(ctx, userID, "Food", amount, 3, 2024); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Amount %v: expected ErrInvalidAmount, got %v", amount, err)
			}
		}
	})

	t.Run("upsert replaces the amount", func(t *testing.T) {
		if err := env.budgets.SetCategory(ctx, userID, "Food", 500, 3, 2024); err != nil {
			t.Fatalf("SetCategory failed: %v", err)
		}
		if err := env.budgets.SetCategory(ctx, userID, "Food", 800, 3, 2024); err != nil {
			t.Fatalf("SetCategory upsert failed: %v", err)
		}

		rows, err := env.budgets.CategoryBudgetsWithSpending(ctx, userID, 3, 2024)
		if err != nil {
			t.Fatalf("CategoryBudgetsWithSpending failed: %v", err)
		}
		if len(rows) != 1 || rows[0].Budget != 800 {
			t.Errorf("Expected single Food budget of 800, got %+v", rows)
		}
	})
}

func TestAggregateServiceDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, accountID := env.loginUser(t, "alice")

	// Budget 5000, spend 1200, earn 3000.
	if err := env.budgets.SetMonthly(ctx, userID, 3, 2024, 5000); err != nil {
		t.Fatalf("SetMonthly failed: %v", err)
	}
	seed := []AddParams{
		{AccountID: accountID, Date: mustDate(t, "2024-03-01"), Type: models.Income, Amount: 3000, Category: "Salary"},
		{AccountID: accountID, Date: mustDate(t, "2024-03-10"), Type: models.Expense, Amount: 700, Category: "Food"},
		{AccountID: accountID, Date: mustDate(t, "2024-03-20"), Type: models.Expense, Amount: 500, Category: "Travel"},
		// Out of period, must not count.
		{AccountID: accountID, Date: mustDate(t, "2024-04-02"), Type: models.Expense, Amount: 9999, Category: "Food"},
	}
	for _, p := range seed {
		if _, _, err := env.ledger.Add(ctx, nil, userID, p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	numbers, err := env.aggregate.DashboardNumbers(ctx, userID, 3, 2024)
	if err != nil {
		t.Fatalf("DashboardNumbers failed: %v", err)
	}

	if numbers.Budget != 5000 {
		t.Errorf("Budget: got %v, want 5000", numbers.Budget)
	}
	if numbers.Income != 3000 {
		t.Errorf("Income: got %v, want 3000", numbers.Income)
	}
	if numbers.Spent != 1200 {
		t.Errorf("Spent: got %v, want 1200", numbers.Spent)
	}
	if numbers.Remaining != 3800 {
		t.Errorf("Remaining: got %v, want 3800 (budget - spent)", numbers.Remaining)
	}
	if numbers.Net != 1800 {
		t.Errorf("Net: got %v, want 1800 (income - spent)", numbers.Net)
	}

	t.Run("empty period is all zeros", func(t *testing.T) {
		numbers, err := env.aggregate.DashboardNumbers(ctx, userID, 7, 2031)
		if err != nil {
			t.Fatalf("DashboardNumbers failed: %v", err)
		}
		if numbers != (models.DashboardNumbers{}) {
			t.Errorf("Expected all-zero dashboard, got %+v", numbers)
		}
	})

	t.Run("breakdown covers only the period's expenses", func(t *testing.T) {
		totals, err := env.aggregate.ExpenseBreakdown(ctx, userID, 3, 2024)
		if err != nil {
			t.Fatalf("ExpenseBreakdown failed: %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("Expected 2 categories, got %d", len(totals))
		}
		if totals[0].Category != "Food" || totals[0].Total != 700 {
			t.Errorf("First category: got %+v, want Food 700", totals[0])
		}
	})

	t.Run("comparison lists months chronologically", func(t *testing.T) {
		rows, err := env.aggregate.MonthlyComparison(ctx, userID)
		if err != nil {
			t.Fatalf("MonthlyComparison failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 months with data, got %d", len(rows))
		}
		if rows[0].MonthLabel != "Mar 2024" || rows[1].MonthLabel != "Apr 2024" {
			t.Errorf("Expected [Mar 2024, Apr 2024], got [%s, %s]",
				rows[0].MonthLabel, rows[1].MonthLabel)
		}
		if rows[0].Income != 3000 || rows[0].Expense != 1200 {
			t.Errorf("Mar row: got %+v", rows[0])
		}
	})
}
