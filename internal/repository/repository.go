package repository

import (
	"context"
	"errors"

	"github.com/cinelog/cinelog-server/internal/models"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrTokenNotFound     = errors.New("refresh token not found")
	ErrReviewNotFound    = errors.New("review not found")
)

type Repository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindAccountByUsernameOrEmail returns any account whose username or
	// email collides (case-insensitively) with the given values. Used for
	// the single pre-registration existence check.
	FindAccountByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, limit int) ([]*models.Account, error)

	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RotateRefreshToken atomically replaces oldToken with newToken inside
	// the account's outstanding set. Returns ErrTokenNotFound without
	// inserting when oldToken is not present, so exactly one concurrent
	// rotation of the same token can succeed.
	RotateRefreshToken(ctx context.Context, accountID, oldToken string, newToken *models.RefreshToken) error
	// DeleteRefreshToken removes one token row. Deleting an absent token
	// is not an error.
	DeleteRefreshToken(ctx context.Context, accountID, token string) error
	DeleteAccountRefreshTokens(ctx context.Context, accountID string) error
	DeleteExpiredTokens(ctx context.Context) (int64, error)

	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewByID(ctx context.Context, id string) (*models.Review, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id string) error
	ListReviewsByTitle(ctx context.Context, titleID string, limit int) ([]*models.Review, error)
	ListReviewsByAccount(ctx context.Context, accountID string, limit int) ([]*models.Review, error)

	UpsertListItem(ctx context.Context, item *models.ListItem) error
	// DeleteListItem removes one list entry. Removing an absent entry is
	// not an error.
	DeleteListItem(ctx context.Context, accountID string, kind models.ListKind, titleID string) error
	GetListItems(ctx context.Context, accountID string, kind models.ListKind) ([]*models.ListItem, error)
}
