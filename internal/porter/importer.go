// Package porter is the import/export engine: bulk CSV ingestion with
// duplicate suppression and flexible date parsing, plus CSV export and
// report generation.
package porter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/financify/financify/internal/metrics"
	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/service"
	"github.com/financify/financify/internal/storage"
)

// ErrMissingColumn is returned when the CSV lacks a required column.
var ErrMissingColumn = errors.New("csv is missing a required column")

// Porter runs CSV imports and exports against the ledger.
type Porter struct {
	store  storage.Store
	ledger *service.LedgerService
	m      *metrics.Metrics

	// Now supplies "today" for rows whose date cannot be parsed. Tests
	// override it for deterministic fallbacks.
	Now func() time.Time

	// StrictDates, when true, skips rows with unparseable dates instead of
	// defaulting them to today.
	StrictDates bool
}

// New creates a Porter.
func New(store storage.Store, ledger *service.LedgerService, m *metrics.Metrics) *Porter {
	return &Porter{
		store:  store,
		ledger: ledger,
		m:      m,
		Now:    time.Now,
	}
}

// Result summarizes one import batch.
type Result struct {
	Imported int
	Skipped  int
	Warnings []RowWarning
}

// RowWarning records a per-row anomaly that did not abort the import.
type RowWarning struct {
	Line    int
	Message string
}

// Import ingests one CSV file as a single atomic batch: either every
// non-duplicate row commits or none do. A row is a duplicate when the user
// already has a transaction with the same normalized date, absolute amount,
// and description — including rows staged earlier in this same batch.
func (p *Porter) Import(ctx context.Context, userID string, defaultAccountID int64, r io.Reader) (Result, error) {
	var result Result

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("read csv header: %w", err)
	}
	cols := normalizeHeader(header)

	dateCol, ok := cols["date"]
	if !ok {
		return result, fmt.Errorf("%w: date", ErrMissingColumn)
	}
	amountCol, ok := cols["amount"]
	if !ok {
		return result, fmt.Errorf("%w: amount", ErrMissingColumn)
	}

	sess, err := p.store.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin import session: %w", err)
	}
	defer sess.Rollback()

	line := 1 // header was line 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read csv row: %w", err)
		}
		line++

		amount, err := strconv.ParseFloat(strings.TrimSpace(field(record, amountCol)), 64)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: invalid amount %q: %w", line, field(record, amountCol), err)
		}
		// Sign in the file is ignored; type alone determines direction.
		amount = math.Abs(amount)

		date, parsed := ParseFlexibleDate(field(record, dateCol))
		if !parsed {
			result.Warnings = append(result.Warnings, RowWarning{
				Line:    line,
				Message: fmt.Sprintf("unparseable date %q", field(record, dateCol)),
			})
			if p.StrictDates {
				result.Skipped++
				continue
			}
			date = p.Now()
		}

		row := models.Transaction{
			Date:        date,
			Type:        normalizeType(field(record, col(cols, "type"))),
			Amount:      amount,
			Category:    defaulted(field(record, col(cols, "category")), "Other"),
			Description: field(record, col(cols, "description")),
		}

		exists, err := p.store.TransactionExists(ctx, sess, userID, row.DateString(), row.Amount, row.Description)
		if err != nil {
			return Result{}, err
		}
		if exists {
			result.Skipped++
			continue
		}

		if _, _, err := p.ledger.Add(ctx, sess, userID, service.AddParams{
			AccountID:   defaultAccountID,
			Date:        row.Date,
			Type:        row.Type,
			Amount:      row.Amount,
			Category:    row.Category,
			Description: row.Description,
		}); err != nil {
			return Result{}, fmt.Errorf("row %d: %w", line, err)
		}
		result.Imported++
	}

	if err := sess.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit import: %w", err)
	}

	p.m.ImportsRun.Inc()
	p.m.RowsImported.Add(float64(result.Imported))
	p.m.RowsSkipped.Add(float64(result.Skipped))
	slog.Info("csv import finished",
		"user_id", userID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"warnings", len(result.Warnings),
	)

	return result, nil
}

// normalizeHeader maps lower-cased, trimmed column names to their index.
// Unrecognized columns simply never get looked up. A UTF-8 BOM on the first
// column is stripped so exports from spreadsheet tools match.
func normalizeHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// col returns the index for an optional column, or -1 when absent.
func col(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// field reads one record field, treating missing columns and short records
// as empty.
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// normalizeType title-cases the raw type value and coerces anything other
// than Income or Expense to Expense.
func normalizeType(raw string) models.TransactionType {
	if raw == "" {
		return models.Expense
	}
	titled := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
	if t := models.TransactionType(titled); t.Valid() {
		return t
	}
	return models.Expense
}

func defaulted(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
