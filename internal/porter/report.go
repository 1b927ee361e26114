package porter

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/financify/financify/internal/models"
)

// reportTemplate is a self-contained page: no external assets, so the file
// can be opened from disk or mailed around.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transaction Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f4f4f4; }
tr.income td.amount { color: #1a7f37; }
tr.expense td.amount { color: #b42318; }
.meta { color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Transaction Report</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; {{len .Transactions}} transactions</p>
<table>
<thead>
<tr><th>Date</th><th>Type</th><th>Amount</th><th>Category</th><th>Description</th></tr>
</thead>
<tbody>
{{range .Transactions}}<tr class="{{.RowClass}}">
<td>{{.Date}}</td><td>{{.Type}}</td><td class="amount">{{.Amount}}</td><td>{{.Category}}</td><td>{{.Description}}</td>
</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportRow struct {
	Date        string
	Type        string
	Amount      string
	Category    string
	Description string
	RowClass    string
}

type reportData struct {
	GeneratedAt  string
	Transactions []reportRow
}

// Report renders the user's transactions as a standalone HTML page.
func (p *Porter) Report(ctx context.Context, userID string, w io.Writer) error {
	transactions, err := p.ledger.ListByFilter(ctx, userID, "")
	if err != nil {
		return err
	}

	data := reportData{
		GeneratedAt:  p.Now().Format(time.RFC1123),
		Transactions: make([]reportRow, 0, len(transactions)),
	}
	for _, t := range transactions {
		class := "expense"
		sign := "-"
		if t.Type == models.Income {
			class = "income"
			sign = "+"
		}
		data.Transactions = append(data.Transactions, reportRow{
			Date:        t.DateString(),
			Type:        string(t.Type),
			Amount:      fmt.Sprintf("%s%.2f", sign, t.Amount),
			Category:    t.Category,
			Description: t.Description,
			RowClass:    class,
		})
	}
	return reportTemplate.Execute(w, data)
}
