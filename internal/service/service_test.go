package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/financify/financify/internal/auth"
	"github.com/financify/financify/internal/metrics"
	"github.com/financify/financify/internal/notify"
	"github.com/financify/financify/internal/storage/sqlite"
)

// testEnv wires the full service stack against a temp database, the same
// way cmd/financify does.
type testEnv struct {
	store     *sqlite.SQLiteStore
	identity  *IdentityService
	ledger    *LedgerService
	budgets   *BudgetService
	aggregate *AggregateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "financify-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	changes := notify.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	return &testEnv{
		store:     store,
		identity:  NewIdentityService(auth.NewPasswordAuthenticator(store), jwtManager, store),
		ledger:    NewLedgerService(store, m, changes),
		budgets:   NewBudgetService(store, changes),
		aggregate: NewAggregateService(store),
	}
}

// loginUser registers and logs in a fresh user, returning the user id and
// their default account id.
func (e *testEnv) loginUser(t *testing.T, username string) (string, int64) {
	t.Helper()

	ctx := context.Background()
	if _, err := e.identity.Register(ctx, username, "secret123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user, _, err := e.identity.Login(ctx, username, "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	accountID, err := e.identity.EnsureDefaultAccount(ctx, user.ID)
	if err != nil {
		t.Fatalf("EnsureDefaultAccount failed: %v", err)
	}
	return user.ID, accountID
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}
