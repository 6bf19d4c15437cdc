package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinelog/cinelog-server/internal/models"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// duplicateError maps a unique violation to the sentinel naming the
// colliding column.
func duplicateError(pgErr *pgconn.PgError) error {
	if strings.Contains(pgErr.ConstraintName, "email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO accounts (id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.FirstName, account.LastName, account.Role, account.Active,
		account.CreatedAt, account.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return duplicateError(pgErr)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account models.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.Role, &account.Active,
		&account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`

	var account models.Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.Role, &account.Active,
		&account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &account, nil
}

func (r *PostgresRepository) FindAccountByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at
		FROM accounts
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)
		LIMIT 1
	`

	var account models.Account
	err := r.pool.QueryRow(ctx, query, username, email).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.Role, &account.Active,
		&account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE accounts
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.FirstName, account.LastName, account.Active, account.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return duplicateError(pgErr)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, limit int) ([]*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Order by id DESC (UUIDv7 = created_at)
	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at
		FROM accounts
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID, &account.Username, &account.Email, &account.PasswordHash,
			&account.FirstName, &account.LastName, &account.Role, &account.Active,
			&account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// =============================================================================
// REFRESH TOKENS
// =============================================================================

func (r *PostgresRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO refresh_tokens (token, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		token.Token, token.AccountID, token.CreatedAt, token.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, accountID, oldToken string, newToken *models.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	// The DELETE doubles as the presence check: zero rows means the token
	// was already rotated, revoked, or never existed, and the transaction
	// aborts without inserting the replacement.
	result, err := tx.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE token = $1 AND account_id = $2`,
		oldToken, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to consume rotated token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (token, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, newToken.Token, newToken.AccountID, newToken.CreatedAt, newToken.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert rotated token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteRefreshToken(ctx context.Context, accountID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM refresh_tokens WHERE token = $1 AND account_id = $2`

	_, err := r.pool.Exec(ctx, query, token, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteAccountRefreshTokens(ctx context.Context, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM refresh_tokens WHERE account_id = $1`

	_, err := r.pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account refresh tokens: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return result.RowsAffected(), nil
}

// =============================================================================
// REVIEWS
// =============================================================================

func (r *PostgresRepository) CreateReview(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO reviews (id, account_id, title_id, title_name, rating, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.AccountID, review.TitleID, review.TitleName,
		review.Rating, review.Content, review.CreatedAt, review.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetReviewByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, account_id, title_id, title_name, rating, content, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var review models.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID, &review.AccountID, &review.TitleID, &review.TitleName,
		&review.Rating, &review.Content, &review.CreatedAt, &review.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE reviews
		SET rating = $2, content = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		review.ID, review.Rating, review.Content, review.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func (r *PostgresRepository) ListReviewsByTitle(ctx context.Context, titleID string, limit int) ([]*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Order by id DESC (UUIDv7 = created_at)
	query := `
		SELECT id, account_id, title_id, title_name, rating, content, created_at, updated_at
		FROM reviews
		WHERE title_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, titleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by title: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

func (r *PostgresRepository) ListReviewsByAccount(ctx context.Context, accountID string, limit int) ([]*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, account_id, title_id, title_name, rating, content, created_at, updated_at
		FROM reviews
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by account: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

func scanReviews(rows pgx.Rows) ([]*models.Review, error) {
	var reviews []*models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.AccountID, &review.TitleID, &review.TitleName,
			&review.Rating, &review.Content, &review.CreatedAt, &review.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// =============================================================================
// LIST ITEMS
// =============================================================================

func (r *PostgresRepository) UpsertListItem(ctx context.Context, item *models.ListItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Re-adding a title refreshes its metadata and added_at instead of
	// failing on the primary key.
	query := `
		INSERT INTO list_items (account_id, kind, title_id, title_name, poster_path, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, kind, title_id)
		DO UPDATE SET title_name = EXCLUDED.title_name, poster_path = EXCLUDED.poster_path, added_at = EXCLUDED.added_at
	`

	_, err := r.pool.Exec(ctx, query,
		item.AccountID, item.Kind, item.TitleID, item.TitleName, item.PosterPath, item.AddedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert list item: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteListItem(ctx context.Context, accountID string, kind models.ListKind, titleID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM list_items WHERE account_id = $1 AND kind = $2 AND title_id = $3`

	_, err := r.pool.Exec(ctx, query, accountID, kind, titleID)
	if err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetListItems(ctx context.Context, accountID string, kind models.ListKind) ([]*models.ListItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT account_id, kind, title_id, title_name, poster_path, added_at
		FROM list_items
		WHERE account_id = $1 AND kind = $2
		ORDER BY added_at DESC
	`

	rows, err := r.pool.Query(ctx, query, accountID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ListItem
	for rows.Next() {
		var item models.ListItem
		err := rows.Scan(
			&item.AccountID, &item.Kind, &item.TitleID,
			&item.TitleName, &item.PosterPath, &item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating list items: %w", err)
	}

	return items, nil
}
