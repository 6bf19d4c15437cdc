package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/repository"
)

var ErrUnknownListKind = errors.New("unknown list kind")

// ListService manages the three per-account title lists: watchlist,
// favorites and history.
type ListService struct {
	repo repository.Repository
}

func NewListService(repo repository.Repository) *ListService {
	return &ListService{repo: repo}
}

// AddItem inserts a title into one of the account's lists. Adding a title
// that is already there refreshes its metadata and added_at instead of
// duplicating the entry.
func (s *ListService) AddItem(ctx context.Context, accountID, kind string, req *models.AddListItemRequest) (*models.ListItem, error) {
	if !models.ValidListKind(kind) {
		return nil, ErrUnknownListKind
	}

	item := &models.ListItem{
		AccountID:  accountID,
		Kind:       models.ListKind(kind),
		TitleID:    req.TitleID,
		TitleName:  req.TitleName,
		PosterPath: req.PosterPath,
		AddedAt:    time.Now().UTC(),
	}

	if err := s.repo.UpsertListItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add list item: %w", err)
	}

	return item, nil
}

// RemoveItem deletes a title from a list. Removing a title that is not on
// the list succeeds.
func (s *ListService) RemoveItem(ctx context.Context, accountID, kind, titleID string) error {
	if !models.ValidListKind(kind) {
		return ErrUnknownListKind
	}

	if err := s.repo.DeleteListItem(ctx, accountID, models.ListKind(kind), titleID); err != nil {
		return fmt.Errorf("failed to remove list item: %w", err)
	}

	return nil
}

func (s *ListService) GetItems(ctx context.Context, accountID, kind string) ([]*models.ListItem, error) {
	if !models.ValidListKind(kind) {
		return nil, ErrUnknownListKind
	}

	items, err := s.repo.GetListItems(ctx, accountID, models.ListKind(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to load list items: %w", err)
	}

	return items, nil
}
