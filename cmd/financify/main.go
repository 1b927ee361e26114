package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/financify/financify/internal/auth"
	"github.com/financify/financify/internal/config"
	"github.com/financify/financify/internal/metrics"
	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/notify"
	"github.com/financify/financify/internal/porter"
	"github.com/financify/financify/internal/service"
	"github.com/financify/financify/internal/storage/sqlite"
	"github.com/financify/financify/pkg/logging"
)

const usage = `financify — personal ledger and budget engine

Usage:
  financify <command> [flags]

Commands:
  register         create a user (-username, -password)
  login            start a session (-username, -password)
  logout           end the current session
  add              add a transaction (-date, -type, -amount, -category, -description)
  list             list transactions (-search)
  update           rewrite a transaction (-id plus the add flags)
  delete           delete a transaction (-id)
  clone            duplicate a transaction at today's date (-id)
  dashboard        headline numbers for a period (-month, -year)
  breakdown        expense totals per category (-month, -year)
  compare          income vs expense for recent months
  budget           set the overall budget (-amount, -month, -year)
  category-budget  set or delete a category budget (-category, -amount, -delete)
  budgets          list category budgets with spending (-month, -year)
  import           import transactions from CSV (-file)
  export           export transactions to CSV (-file)
  report           write an HTML report (-file)
  wipe             delete all of your data (-confirm)
`

type app struct {
	cfg       *config.Config
	identity  *service.IdentityService
	ledger    *service.LedgerService
	budgets   *service.BudgetService
	aggregate *service.AggregateService
	porter    *porter.Porter
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New(prometheus.NewRegistry())
	changes := notify.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	ledger := service.NewLedgerService(store, m, changes)
	p := porter.New(store, ledger, m)
	p.StrictDates = cfg.ImportStrictDates

	a := &app{
		cfg:       cfg,
		identity:  service.NewIdentityService(auth.NewPasswordAuthenticator(store), jwtManager, store),
		ledger:    ledger,
		budgets:   service.NewBudgetService(store, changes),
		aggregate: service.NewAggregateService(store),
		porter:    p,
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "add":
		return a.add(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "clone":
		return a.clone(ctx, args)
	case "dashboard":
		return a.dashboard(ctx, args)
	case "breakdown":
		return a.breakdown(ctx, args)
	case "compare":
		return a.compare(ctx)
	case "budget":
		return a.budget(ctx, args)
	case "category-budget":
		return a.categoryBudget(ctx, args)
	case "budgets":
		return a.listBudgets(ctx, args)
	case "import":
		return a.importCSV(ctx, args)
	case "export":
		return a.exportCSV(ctx, args)
	case "report":
		return a.report(ctx, args)
	case "wipe":
		return a.wipe(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, err := a.identity.Register(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s\n", user.Username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	user, token, err := a.identity.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if err := a.saveToken(token); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", user.Username)
	return nil
}

func (a *app) logout() error {
	if err := os.Remove(a.cfg.SessionFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "transaction date (flexible format, default today)")
	kind := fs.String("type", string(models.Expense), "Income or Expense")
	amount := fs.Float64("amount", 0, "amount, must be positive")
	category := fs.String("category", "Other", "category")
	description := fs.String("description", "", "description")
	tags := fs.String("tags", "", "comma-separated tags")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	accountID, err := a.identity.EnsureDefaultAccount(ctx, user.ID)
	if err != nil {
		return err
	}

	when := time.Now()
	if *date != "" {
		parsed, ok := porter.ParseFlexibleDate(*date)
		if !ok {
			return fmt.Errorf("unrecognized date %q", *date)
		}
		when = parsed
	}

	t, alert, err := a.ledger.Add(ctx, nil, user.ID, service.AddParams{
		AccountID:   accountID,
		Date:        when,
		Type:        models.TransactionType(*kind),
		Amount:      *amount,
		Category:    *category,
		Description: *description,
		Tags:        *tags,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added transaction %d (%s %.2f, %s)\n", t.ID, t.Type, t.Amount, t.DateString())
	if alert != nil {
		fmt.Printf("warning: %q is over budget by %.2f (budget %.2f, spent %.2f)\n",
			alert.Category, alert.Overrun(), alert.Budget, alert.Spent)
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter by description, category, amount or date")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	transactions, err := a.ledger.ListByFilter(ctx, user.ID, *search)
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		fmt.Println("no transactions")
		return nil
	}
	for _, t := range transactions {
		fmt.Printf("%6d  %s  %-7s  %10.2f  %-15s  %s\n",
			t.ID, t.DateString(), t.Type, t.Amount, t.Category, t.Description)
	}
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	date := fs.String("date", "", "transaction date")
	kind := fs.String("type", string(models.Expense), "Income or Expense")
	amount := fs.Float64("amount", 0, "amount, must be positive")
	category := fs.String("category", "Other", "category")
	description := fs.String("description", "", "description")
	tags := fs.String("tags", "", "comma-separated tags")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	accountID, err := a.identity.EnsureDefaultAccount(ctx, user.ID)
	if err != nil {
		return err
	}

	when, ok := porter.ParseFlexibleDate(*date)
	if !ok {
		return fmt.Errorf("unrecognized date %q", *date)
	}

	if err := a.ledger.Update(ctx, user.ID, *id, service.UpdateParams{
		AccountID:   accountID,
		Date:        when,
		Type:        models.TransactionType(*kind),
		Amount:      *amount,
		Category:    *category,
		Description: *description,
		Tags:        *tags,
	}); err != nil {
		return err
	}
	fmt.Printf("updated transaction %d\n", *id)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := a.ledger.Delete(ctx, user.ID, *id); err != nil {
		return err
	}
	fmt.Printf("deleted transaction %d\n", *id)
	return nil
}

func (a *app) clone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clone", flag.ExitOnError)
	id := fs.Int64("id", 0, "transaction id to clone")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	t, err := a.ledger.Clone(ctx, user.ID, *id)
	if err != nil {
		return err
	}
	fmt.Printf("cloned as transaction %d (%s)\n", t.ID, t.DateString())
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	month, year := periodFlags(fs)
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	numbers, err := a.aggregate.DashboardNumbers(ctx, user.ID, *month, *year)
	if err != nil {
		return err
	}

	fmt.Printf("period %02d/%d\n", *month, *year)
	fmt.Printf("  budget:    %10.2f\n", numbers.Budget)
	fmt.Printf("  income:    %10.2f\n", numbers.Income)
	fmt.Printf("  spent:     %10.2f\n", numbers.Spent)
	fmt.Printf("  remaining: %10.2f\n", numbers.Remaining)
	fmt.Printf("  net:       %10.2f\n", numbers.Net)
	return nil
}

func (a *app) breakdown(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("breakdown", flag.ExitOnError)
	month, year := periodFlags(fs)
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	totals, err := a.aggregate.ExpenseBreakdown(ctx, user.ID, *month, *year)
	if err != nil {
		return err
	}

	if len(totals) == 0 {
		fmt.Println("no expenses this period")
		return nil
	}
	var sum float64
	for _, ct := range totals {
		sum += ct.Total
	}
	for _, ct := range totals {
		fmt.Printf("  %-15s  %10.2f  (%.1f%%)\n", ct.Category, ct.Total, 100*ct.Total/sum)
	}
	return nil
}

func (a *app) compare(ctx context.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	rows, err := a.aggregate.MonthlyComparison(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("no transactions yet")
		return nil
	}
	for _, row := range rows {
		fmt.Printf("  %-9s  income %10.2f  expense %10.2f\n", row.MonthLabel, row.Income, row.Expense)
	}
	return nil
}

func (a *app) budget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "overall budget for the period")
	month, year := periodFlags(fs)
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := a.budgets.SetMonthly(ctx, user.ID, *month, *year, *amount); err != nil {
		return err
	}
	fmt.Printf("budget for %02d/%d set to %.2f\n", *month, *year, *amount)
	return nil
}

func (a *app) categoryBudget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("category-budget", flag.ExitOnError)
	category := fs.String("category", "", "category name")
	amount := fs.Float64("amount", 0, "budget amount, must be positive")
	remove := fs.Bool("delete", false, "delete this category's budget instead")
	month, year := periodFlags(fs)
	fs.Parse(args)

	if *category == "" {
		return fmt.Errorf("category is required")
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if *remove {
		if err := a.budgets.DeleteCategory(ctx, user.ID, *category, *month, *year); err != nil {
			return err
		}
		fmt.Printf("deleted budget for %q (%02d/%d)\n", *category, *month, *year)
		return nil
	}
	if err := a.budgets.SetCategory(ctx, user.ID, *category, *amount, *month, *year); err != nil {
		return err
	}
	fmt.Printf("budget for %q (%02d/%d) set to %.2f\n", *category, *month, *year, *amount)
	return nil
}

func (a *app) listBudgets(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budgets", flag.ExitOnError)
	month, year := periodFlags(fs)
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	rows, err := a.budgets.CategoryBudgetsWithSpending(ctx, user.ID, *month, *year)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Printf("no category budgets for %02d/%d\n", *month, *year)
		return nil
	}
	for _, row := range rows {
		marker := ""
		if row.Spent > row.Budget {
			marker = "  OVER"
		}
		fmt.Printf("  %-15s  budget %10.2f  spent %10.2f  remaining %10.2f%s\n",
			row.Category, row.Budget, row.Spent, row.Remaining(), marker)
	}
	return nil
}

func (a *app) importCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV file to import")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("file is required")
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	accountID, err := a.identity.EnsureDefaultAccount(ctx, user.ID)
	if err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	result, err := a.porter.Import(ctx, user.ID, accountID, f)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: line %d: %s\n", w.Line, w.Message)
	}
	fmt.Printf("imported %d, skipped %d duplicates\n", result.Imported, result.Skipped)
	return nil
}

func (a *app) exportCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "destination CSV file")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("file is required")
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(*file)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := a.porter.Export(ctx, user.ID, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	fmt.Printf("exported to %s\n", *file)
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	file := fs.String("file", "report.html", "destination HTML file")
	fs.Parse(args)

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(*file)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := a.porter.Report(ctx, user.ID, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	fmt.Printf("report written to %s\n", *file)
	return nil
}

func (a *app) wipe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("wipe", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "confirm deleting all transactions and budgets")
	fs.Parse(args)

	if !*confirm {
		return fmt.Errorf("refusing to wipe without -confirm")
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if err := a.ledger.WipeAll(ctx, user.ID); err != nil {
		return err
	}
	fmt.Println("all transactions and budgets deleted")
	return nil
}

// currentUser resolves the saved session token to a user.
func (a *app) currentUser(ctx context.Context) (*models.User, error) {
	data, err := os.ReadFile(a.cfg.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("not logged in: run `financify login` first")
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	user, err := a.identity.Authenticate(ctx, strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("session invalid or expired, log in again: %w", err)
	}
	return user, nil
}

func (a *app) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.SessionFile), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(a.cfg.SessionFile, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// periodFlags adds the -month and -year flags, defaulting to the current
// period.
func periodFlags(fs *flag.FlagSet) (*int, *int) {
	now := time.Now()
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	year := fs.Int("year", now.Year(), "year")
	return month, year
}
