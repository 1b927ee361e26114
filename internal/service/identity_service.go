package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financify/financify/internal/auth"
	"github.com/financify/financify/internal/models"
	"github.com/financify/financify/internal/storage"
)

// IdentityService handles registration, login, and session resolution.
type IdentityService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewIdentityService creates a new identity service.
func NewIdentityService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager, store storage.Store) *IdentityService {
	return &IdentityService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account. Accounts are not created here: the
// user's "Default" account appears lazily on first login.
func (s *IdentityService) Register(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		slog.Warn("registration failed", "username", username, "error", err)
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials, guarantees the user has at least one account,
// and returns the user together with a session token.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("login failed", "username", username)
		return nil, "", err
	}

	if _, err := s.EnsureDefaultAccount(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Authenticate resolves a session token back to its user.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up session user: %w", err)
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}

	return user, nil
}

// EnsureDefaultAccount is idempotent: it creates a "Default" account if the
// user has none and otherwise returns the id of the first existing account
// (creation order).
func (s *IdentityService) EnsureDefaultAccount(ctx context.Context, userID string) (int64, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) > 0 {
		return accounts[0].ID, nil
	}

	account := &models.Account{UserID: userID, Name: models.DefaultAccountName}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return 0, fmt.Errorf("create default account: %w", err)
	}

	slog.Info("default account created", "user_id", userID, "account_id", account.ID)
	return account.ID, nil
}

// ListAccounts returns the user's accounts in creation order.
func (s *IdentityService) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}
