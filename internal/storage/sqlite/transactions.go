package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/storage"
)

// CreateTransaction inserts a transaction and populates its ID. When sess is
// non-nil the insert joins that session's transaction instead of committing
// on its own.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, sess storage.Session, t *models.Transaction) error {
	res, err := s.conn(sess).ExecContext(ctx,
		`INSERT INTO transactions (user_id, account_id, date, type, amount, category, description, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.AccountID, t.DateString(), string(t.Type), t.Amount, t.Category, t.Description, t.Tags,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTransaction retrieves one transaction by id, regardless of owner.
// Returns storage.ErrNotFound when no such row exists. Ownership checks
// belong to the service layer, which needs to distinguish a missing row
// from another user's row.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, account_id, date, type, amount, category, description, tags
		 FROM transactions WHERE id = ?`,
		id,
	)

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// UpdateTransaction rewrites all mutable fields of a transaction. The WHERE
// clause carries both id and user_id so a user can never touch another
// user's rows; zero rows affected maps to ErrNotFound.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET account_id = ?, date = ?, type = ?, amount = ?, category = ?, description = ?, tags = ?
		 WHERE id = ? AND user_id = ?`,
		t.AccountID, t.DateString(), string(t.Type), t.Amount, t.Category, t.Description, t.Tags,
		t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteTransaction removes one transaction owned by the given user.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListTransactions returns the user's transactions matching the search term,
// newest first (date descending, ties broken by id descending). The search
// is a case-insensitive substring match across description, category, the
// textual amount, and the date; an empty term returns everything.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID, search string) ([]models.Transaction, error) {
	query := `SELECT id, user_id, account_id, date, type, amount, category, description, tags
		 FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if search != "" {
		query += ` AND (
			lower(description) LIKE '%' || lower(?) || '%'
			OR lower(category) LIKE '%' || lower(?) || '%'
			OR CAST(amount AS TEXT) LIKE '%' || ? || '%'
			OR date LIKE '%' || ? || '%'
		)`
		args = append(args, search, search, search, search)
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return out, nil
}

// TransactionExists reports whether the user already has a transaction with
// the same date, amount, and description. Running the check through a
// session makes rows staged earlier in the same import visible, so a file
// cannot smuggle in internal duplicates.
func (s *SQLiteStore) TransactionExists(ctx context.Context, sess storage.Session, userID string, date string, amount float64, description string) (bool, error) {
	var n int
	err := s.conn(sess).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE user_id = ? AND date = ? AND amount = ? AND description = ?",
		userID, date, amount, description,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate transaction: %w", err)
	}

	return n > 0, nil
}

// WipeUserData deletes the user's transactions and both budget tables in one
// transaction. The user row and their accounts survive.
func (s *SQLiteStore) WipeUserData(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "monthly_budgets", "category_budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wipe: %w", err)
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t       models.Transaction
		dateStr string
		typStr  string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &dateStr, &typStr, &t.Amount, &t.Category, &t.Description, &t.Tags); err != nil {
		return nil, err
	}

	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date %q: %w", dateStr, err)
	}
	t.Date = date
	t.Type = models.TransactionType(typStr)

	return &t, nil
}
