package porter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var exportHeader = []string{"id", "account_id", "date", "type", "amount", "category", "description", "tags"}

// Export writes every transaction for the user as CSV, newest first. The
// output round-trips through Import: re-importing an export adds nothing.
func (p *Porter) Export(ctx context.Context, userID string, w io.Writer) error {
	transactions, err := p.ledger.ListByFilter(ctx, userID, "")
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range transactions {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.AccountID, 10),
			t.DateString(),
			string(t.Type),
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
			t.Description,
			t.Tags,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
