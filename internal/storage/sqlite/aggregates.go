package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/financify/financify/internal/models"
)

// SumByType returns the sum of transaction amounts of one type within the
// period, 0 when no rows match.
func (s *SQLiteStore) SumByType(ctx context.Context, userID string, typ models.TransactionType, month, year int) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE user_id = ? AND type = ?
		   AND CAST(strftime('%m', date) AS INTEGER) = ?
		   AND CAST(strftime('%Y', date) AS INTEGER) = ?`,
		userID, string(typ), month, year,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s transactions: %w", typ, err)
	}

	return total, nil
}

// ExpenseBreakdown groups the period's expenses by category, largest first.
// Categories with no expenses that month do not appear.
func (s *SQLiteStore) ExpenseBreakdown(ctx context.Context, userID string, month, year int) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) AS total
		 FROM transactions
		 WHERE user_id = ? AND type = 'Expense'
		   AND CAST(strftime('%m', date) AS INTEGER) = ?
		   AND CAST(strftime('%Y', date) AS INTEGER) = ?
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		userID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense breakdown: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryTotal
	for rows.Next() {
		var c models.CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, fmt.Errorf("failed to scan expense breakdown row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense breakdown: %w", err)
	}

	return out, nil
}

// MonthlyComparison returns per-month income and expense totals for the most
// recent `months` calendar months that contain at least one transaction,
// oldest first.
func (s *SQLiteStore) MonthlyComparison(ctx context.Context, userID string, months int) ([]models.ComparisonRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m', date) AS ym,
		        COALESCE(SUM(CASE WHEN type = 'Income' THEN amount END), 0) AS income,
		        COALESCE(SUM(CASE WHEN type = 'Expense' THEN amount END), 0) AS expense
		 FROM transactions
		 WHERE user_id = ?
		 GROUP BY ym
		 ORDER BY ym DESC
		 LIMIT ?`,
		userID, months,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly comparison: %w", err)
	}
	defer rows.Close()

	var recent []models.ComparisonRow
	for rows.Next() {
		var (
			ym  string
			row models.ComparisonRow
		)
		if err := rows.Scan(&ym, &row.Income, &row.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}
		month, err := time.Parse("2006-01", ym)
		if err != nil {
			return nil, fmt.Errorf("failed to parse month %q: %w", ym, err)
		}
		row.MonthLabel = month.Format("Jan 2006")
		recent = append(recent, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly comparison: %w", err)
	}

	// Query returned newest first; the chart wants chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	return recent, nil
}
