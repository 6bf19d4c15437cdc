package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/repository"
)

type AccountService struct {
	repo       repository.Repository
	bcryptCost int
}

func NewAccountService(repo repository.Repository, bcryptCost int) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{repo: repo, bcryptCost: bcryptCost}
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// UpdateProfile applies the non-nil fields of req. A changed email goes
// through the same case-insensitive duplicate check as registration, and a
// new password is hashed at the configured cost.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, req *models.UpdateProfileRequest) (*models.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != account.Email {
			existing, err := s.repo.GetAccountByEmail(ctx, email)
			if err == nil && existing.ID != account.ID {
				return nil, ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, repository.ErrAccountNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			account.Email = email
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = string(hash)
	}

	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrAccountNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, limit int) ([]*models.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// SetAccountActive flips the active flag. Deactivating also revokes every
// outstanding refresh token so the account cannot mint new access tokens;
// already-issued access tokens simply age out.
func (s *AccountService) SetAccountActive(ctx context.Context, accountID string, active bool) (*models.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	account.Active = active
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if !active {
		if err := s.repo.DeleteAccountRefreshTokens(ctx, accountID); err != nil {
			return nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
	}

	return account, nil
}
