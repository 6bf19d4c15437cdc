package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinelog/cinelog-server/internal/events"
	"github.com/cinelog/cinelog-server/internal/metrics"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/repository"
	"github.com/cinelog/cinelog-server/pkg/tokens"
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrMissingToken       = errors.New("refresh token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountNotFound    = errors.New("account not found")
)

type AuthService struct {
	repo       repository.Repository
	tokens     *tokens.Generator
	events     events.Publisher
	bcryptCost int
}

func NewAuthService(repo repository.Repository, gen *tokens.Generator, publisher events.Publisher, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &AuthService{
		repo:       repo,
		tokens:     gen,
		events:     publisher,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account and signs it in. Username and email are
// checked against existing accounts case-insensitively, and the error
// names whichever field collided.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, *models.TokenPair, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.FindAccountByUsernameOrEmail(ctx, username, email)
	if err == nil {
		if strings.EqualFold(existing.Email, email) {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}

	// Hash before the record exists anywhere.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountID, err := uuid.NewV7()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate account ID: %w", err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           accountID.String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         string(models.RoleUser),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		// A registration racing between the existence check and the
		// insert trips the unique index instead.
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, nil, ErrDuplicateUsername
		}
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	pair, record, err := s.mintPair(account)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.CreateRefreshToken(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	metrics.TokensIssued.WithLabelValues("register").Inc()
	s.events.Publish(ctx, events.SubjectAccountsRegistered, events.AccountEvent{
		AccountID: account.ID,
		Username:  account.Username,
		At:        now,
	})

	return account, pair, nil
}

// Login verifies the password for the account behind the email. A missing
// account and a wrong password both come back as ErrInvalidCredentials;
// deactivation is only reported once the password has matched, so the
// error cannot be used to probe which emails exist.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, *models.TokenPair, error) {
	account, err := s.repo.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	if !account.Active {
		metrics.AuthFailures.WithLabelValues("deactivated").Inc()
		return nil, nil, ErrAccountDeactivated
	}

	pair, record, err := s.mintPair(account)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.CreateRefreshToken(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	metrics.TokensIssued.WithLabelValues("login").Inc()
	s.events.Publish(ctx, events.SubjectSessionsLogin, events.SessionEvent{
		AccountID: account.ID,
		At:        time.Now().UTC(),
	})

	return account, pair, nil
}

// Refresh trades a refresh token for a new pair and retires the old token
// in the same step. Every rejection is ErrInvalidToken: a forged token, an
// expired one, a rotated-away one and one for a deactivated account are
// indistinguishable to the caller.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		metrics.AuthFailures.WithLabelValues("missing_refresh_token").Inc()
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("invalid_refresh_token").Inc()
		return nil, ErrInvalidToken
	}

	account, err := s.repo.GetAccountByID(ctx, claims.AccountID)
	if err != nil || !account.Active {
		metrics.AuthFailures.WithLabelValues("invalid_refresh_token").Inc()
		return nil, ErrInvalidToken
	}

	pair, record, err := s.mintPair(account)
	if err != nil {
		return nil, err
	}

	// The store swaps old for new atomically. When the old token is gone,
	// because it was already rotated, revoked or never issued, nothing is
	// inserted and the whole refresh fails.
	if err := s.repo.RotateRefreshToken(ctx, account.ID, refreshToken, record); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			metrics.AuthFailures.WithLabelValues("invalid_refresh_token").Inc()
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	metrics.TokensIssued.WithLabelValues("refresh").Inc()
	s.events.Publish(ctx, events.SubjectSessionsRefreshed, events.SessionEvent{
		AccountID: account.ID,
		At:        time.Now().UTC(),
	})

	return pair, nil
}

// Logout revokes one refresh token, or every outstanding token for the
// account when none is given. Revoking a token that is already gone
// succeeds; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, accountID, refreshToken string) error {
	if _, err := s.repo.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	if refreshToken != "" {
		if err := s.repo.DeleteRefreshToken(ctx, accountID, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	} else {
		if err := s.repo.DeleteAccountRefreshTokens(ctx, accountID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
	}

	s.events.Publish(ctx, events.SubjectSessionsRevoked, events.SessionEvent{
		AccountID: accountID,
		At:        time.Now().UTC(),
	})

	return nil
}

// mintPair generates an access/refresh pair without persisting anything.
// Register and Login append the returned record; Refresh hands it to the
// store as the rotation replacement.
func (s *AuthService) mintPair(account *models.Account) (*models.TokenPair, *models.RefreshToken, error) {
	accessToken, err := s.tokens.GenerateAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	pair := &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		TokenType:    "Bearer",
	}
	record := &models.RefreshToken{
		Token:     refreshToken,
		AccountID: account.ID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	return pair, record, nil
}
