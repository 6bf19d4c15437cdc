package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cinelog/cinelog-server/internal/models"
)

// InMemoryRepository backs development mode and the service tests. It
// upholds the same uniqueness and rotation guarantees as the Postgres
// implementation, guarded by a single mutex.
type InMemoryRepository struct {
	accounts map[string]*models.Account      // by id
	tokens   map[string]*models.RefreshToken // by token string
	reviews  map[string]*models.Review       // by id
	lists    map[string]*models.ListItem     // by account|kind|title
	mu       sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		accounts: make(map[string]*models.Account),
		tokens:   make(map[string]*models.RefreshToken),
		reviews:  make(map[string]*models.Review),
		lists:    make(map[string]*models.ListItem),
	}
}

func listKey(accountID string, kind models.ListKind, titleID string) string {
	return accountID + "|" + string(kind) + "|" + titleID
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (r *InMemoryRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return ErrDuplicateEmail
		}
		if strings.EqualFold(existing.Username, account.Username) {
			return ErrDuplicateUsername
		}
	}

	r.accounts[account.ID] = account
	return nil
}

func (r *InMemoryRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (r *InMemoryRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *InMemoryRepository) FindAccountByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if strings.EqualFold(account.Username, username) || strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *InMemoryRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; !exists {
		return ErrAccountNotFound
	}

	for id, existing := range r.accounts {
		if id == account.ID {
			continue
		}
		if strings.EqualFold(existing.Email, account.Email) {
			return ErrDuplicateEmail
		}
	}

	r.accounts[account.ID] = account
	return nil
}

func (r *InMemoryRepository) ListAccounts(ctx context.Context, limit int) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}

	// UUIDv7 sorts by creation time, so id DESC is newest first.
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID > accounts[j].ID
	})

	if limit > 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// =============================================================================
// REFRESH TOKENS
// =============================================================================

func (r *InMemoryRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.Token] = token
	return nil
}

func (r *InMemoryRepository) RotateRefreshToken(ctx context.Context, accountID, oldToken string, newToken *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Holding the lock across remove+insert makes the rotation atomic:
	// a concurrent rotation of the same token finds it gone and fails.
	existing, exists := r.tokens[oldToken]
	if !exists || existing.AccountID != accountID {
		return ErrTokenNotFound
	}

	delete(r.tokens, oldToken)
	r.tokens[newToken.Token] = newToken
	return nil
}

func (r *InMemoryRepository) DeleteRefreshToken(ctx context.Context, accountID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.tokens[token]
	if exists && existing.AccountID == accountID {
		delete(r.tokens, token)
	}
	return nil
}

func (r *InMemoryRepository) DeleteAccountRefreshTokens(ctx context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, token := range r.tokens {
		if token.AccountID == accountID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *InMemoryRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for key, token := range r.tokens {
		if token.ExpiresAt.Before(now) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed, nil
}

// =============================================================================
// REVIEWS
// =============================================================================

func (r *InMemoryRepository) CreateReview(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reviews[review.ID] = review
	return nil
}

func (r *InMemoryRepository) GetReviewByID(ctx context.Context, id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, exists := r.reviews[id]
	if !exists {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (r *InMemoryRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reviews[review.ID]; !exists {
		return ErrReviewNotFound
	}

	r.reviews[review.ID] = review
	return nil
}

func (r *InMemoryRepository) DeleteReview(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reviews[id]; !exists {
		return ErrReviewNotFound
	}

	delete(r.reviews, id)
	return nil
}

func (r *InMemoryRepository) ListReviewsByTitle(ctx context.Context, titleID string, limit int) ([]*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviews []*models.Review
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			reviews = append(reviews, review)
		}
	}
	return sortReviews(reviews, limit), nil
}

func (r *InMemoryRepository) ListReviewsByAccount(ctx context.Context, accountID string, limit int) ([]*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviews []*models.Review
	for _, review := range r.reviews {
		if review.AccountID == accountID {
			reviews = append(reviews, review)
		}
	}
	return sortReviews(reviews, limit), nil
}

func sortReviews(reviews []*models.Review, limit int) []*models.Review {
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].ID > reviews[j].ID
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

// =============================================================================
// LIST ITEMS
// =============================================================================

func (r *InMemoryRepository) UpsertListItem(ctx context.Context, item *models.ListItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists[listKey(item.AccountID, item.Kind, item.TitleID)] = item
	return nil
}

func (r *InMemoryRepository) DeleteListItem(ctx context.Context, accountID string, kind models.ListKind, titleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lists, listKey(accountID, kind, titleID))
	return nil
}

func (r *InMemoryRepository) GetListItems(ctx context.Context, accountID string, kind models.ListKind) ([]*models.ListItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*models.ListItem
	for _, item := range r.lists {
		if item.AccountID == accountID && item.Kind == kind {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}
