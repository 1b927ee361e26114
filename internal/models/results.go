package models

// DashboardNumbers are the headline figures for one (user, month, year).
// Every field defaults to zero when no rows match; the identities
// Remaining = Budget - Spent and Net = Income - Spent always hold.
type DashboardNumbers struct {
	Budget    float64
	Income    float64
	Spent     float64
	Remaining float64
	Net       float64
}

// CategoryBudgetRow is one row of the budget-vs-spend view. Every category
// with a budget for the period appears, with Spent = 0 when no expenses
// match; categories with spending but no budget are excluded here.
type CategoryBudgetRow struct {
	Category string
	Budget   float64
	Spent    float64
}

// Remaining is the budget left for the period; negative when overspent.
func (r CategoryBudgetRow) Remaining() float64 {
	return r.Budget - r.Spent
}

// CategoryTotal is one slice of the expense breakdown: the summed expense
// amount for a category within a period.
type CategoryTotal struct {
	Category string
	Total    float64
}

// ComparisonRow is one month of the income-vs-expense comparison series.
type ComparisonRow struct {
	// MonthLabel is the human form of the month, e.g. "Mar 2024".
	MonthLabel string
	Income     float64
	Expense    float64
}
