package service

import (
	"context"
	"errors"
	"testing"

	"github.com/financify/financify/internal/auth"
	"github.com/financify/financify/internal/models"
)

func TestIdentityService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("register and login round-trip", func(t *testing.T) {
		user, err := env.identity.Register(ctx, "alice", "secret123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be set")
		}
		if user.PasswordHash == "secret123" {
			t.Error("Password must not be stored in the clear")
		}

		loggedIn, token, err := env.identity.Login(ctx, "alice", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if loggedIn.ID != user.ID {
			t.Errorf("Login returned user %s, want %s", loggedIn.ID, user.ID)
		}
		if token == "" {
			t.Error("Expected a session token")
		}

		resolved, err := env.identity.Authenticate(ctx, token)
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if resolved.ID != user.ID {
			t.Errorf("Token resolved to %s, want %s", resolved.ID, user.ID)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		if _, err := env.identity.Register(ctx, "alice", "another"); !errors.Is(err, auth.ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("usernames are case-sensitive", func(t *testing.T) {
		user, err := env.identity.Register(ctx, "Alice", "secret123")
		if err != nil {
			t.Fatalf("Register failed for distinct-case username: %v", err)
		}
		if user.Username != "Alice" {
			t.Errorf("Username stored as %q, want %q", user.Username, "Alice")
		}
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		if _, err := env.identity.Register(ctx, "", "secret123"); !errors.Is(err, auth.ErrEmptyField) {
			t.Errorf("Expected ErrEmptyField for empty username, got %v", err)
		}
		if _, err := env.identity.Register(ctx, "bob", ""); !errors.Is(err, auth.ErrEmptyField) {
			t.Errorf("Expected ErrEmptyField for empty password, got %v", err)
		}
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, _, errWrongPass := env.identity.Login(ctx, "alice", "wrong")
		_, _, errNoUser := env.identity.Login(ctx, "ghost", "whatever")

		if !errors.Is(errWrongPass, auth.ErrInvalidCredentials) {
			t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
		}
		if !errors.Is(errNoUser, auth.ErrInvalidCredentials) {
			t.Errorf("Unknown user: expected ErrInvalidCredentials, got %v", errNoUser)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := env.identity.Authenticate(ctx, "not-a-token"); err == nil {
			t.Error("Expected an error for a malformed token")
		}
		if _, err := env.identity.Authenticate(ctx, ""); !errors.Is(err, auth.ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("default account created once", func(t *testing.T) {
		user, _, err := env.identity.Login(ctx, "alice", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		firstID, err := env.identity.EnsureDefaultAccount(ctx, user.ID)
		if err != nil {
			t.Fatalf("EnsureDefaultAccount failed: %v", err)
		}
		secondID, err := env.identity.EnsureDefaultAccount(ctx, user.ID)
		if err != nil {
			t.Fatalf("EnsureDefaultAccount failed: %v", err)
		}
		if firstID != secondID {
			t.Errorf("EnsureDefaultAccount not idempotent: %d vs %d", firstID, secondID)
		}

		accounts, err := env.identity.ListAccounts(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
		if len(accounts) != 1 {
			t.Fatalf("Expected exactly 1 account, got %d", len(accounts))
		}
		if accounts[0].Name != models.DefaultAccountName {
			t.Errorf("Account name: got %q, want %q", accounts[0].Name, models.DefaultAccountName)
		}
	})
}
