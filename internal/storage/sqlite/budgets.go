package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/financify/financify/internal/models"
)

// SetMonthlyBudget upserts the overall budget for one (user, month, year).
func (s *SQLiteStore) SetMonthlyBudget(ctx context.Context, b *models.MonthlyBudget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_budgets (user_id, month, year, amount)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, month, year) DO UPDATE SET amount = excluded.amount`,
		b.UserID, b.Month, b.Year, b.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to set monthly budget: %w", err)
	}

	return nil
}

// GetMonthlyBudget returns the overall budget for the period, 0 when unset.
func (s *SQLiteStore) GetMonthlyBudget(ctx context.Context, userID string, month, year int) (float64, error) {
	var amount float64
	err := s.db.QueryRowContext(ctx,
		"SELECT amount FROM monthly_budgets WHERE user_id = ? AND month = ? AND year = ?",
		userID, month, year,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly budget: %w", err)
	}

	return amount, nil
}

// SetCategoryBudget upserts one category's budget for the period.
func (s *SQLiteStore) SetCategoryBudget(ctx context.Context, b *models.CategoryBudget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category_budgets (user_id, category, month, year, amount)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category, month, year) DO UPDATE SET amount = excluded.amount`,
		b.UserID, b.Category, b.Month, b.Year, b.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to set category budget: %w", err)
	}

	return nil
}

// DeleteCategoryBudget removes one category's budget for the period.
// Deleting a budget that does not exist is not an error.
func (s *SQLiteStore) DeleteCategoryBudget(ctx context.Context, userID, category string, month, year int) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM category_budgets WHERE user_id = ? AND category = ? AND month = ? AND year = ?",
		userID, category, month, year,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category budget: %w", err)
	}

	return nil
}

// CategoryBudgetsWithSpending joins the period's category budgets against
// expense sums. Left join semantics: a budgeted category with no matching
// expenses still appears with Spent = 0, while spending in an unbudgeted
// category is excluded from this view.
func (s *SQLiteStore) CategoryBudgetsWithSpending(ctx context.Context, userID string, month, year int) ([]models.CategoryBudgetRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cb.category, cb.amount, COALESCE(SUM(t.amount), 0) AS spent
		 FROM category_budgets cb
		 LEFT JOIN transactions t
		   ON t.user_id = cb.user_id
		   AND t.category = cb.category
		   AND t.type = 'Expense'
		   AND CAST(strftime('%m', t.date) AS INTEGER) = cb.month
		   AND CAST(strftime('%Y', t.date) AS INTEGER) = cb.year
		 WHERE cb.user_id = ? AND cb.month = ? AND cb.year = ?
		 GROUP BY cb.category, cb.amount
		 ORDER BY cb.category ASC`,
		userID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category budgets: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryBudgetRow
	for rows.Next() {
		var r models.CategoryBudgetRow
		if err := rows.Scan(&r.Category, &r.Budget, &r.Spent); err != nil {
			return nil, fmt.Errorf("failed to scan category budget row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category budgets: %w", err)
	}

	return out, nil
}
