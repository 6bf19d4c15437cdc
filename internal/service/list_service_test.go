package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cinelog/cinelog-server/internal/models"
)

func setupListService() (*ListService, *mockRepository) {
	repo := newMockRepository()
	return NewListService(repo), repo
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		expectError bool
		errorIs     error
	}{
		{name: "watchlist", kind: "watchlist"},
		{name: "favorites", kind: "favorites"},
		{name: "history", kind: "history"},
		{name: "unknown kind", kind: "bookmarks", expectError: true, errorIs: ErrUnknownListKind},
		{name: "empty kind", kind: "", expectError: true, errorIs: ErrUnknownListKind}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := setupListService()

			item, err := service.AddItem(context.Background(), "acct-1", tt.kind, &models.AddListItemRequest{
				TitleID:    "tt0111161",
				TitleName:  "The Shawshank Redemption",
				PosterPath: "/poster.jpg"})

			if tt.expectError {
				if !errors.Is(err, tt.errorIs) {
					t.Fatalf("Expected %v, got %v", tt.errorIs, err)
				}
				if len(repo.lists) != 0 {
					t.Error("Expected nothing to be stored")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if item.Kind != models.ListKind(tt.kind) {
				t.Errorf("Expected kind %s, got %s", tt.kind, item.Kind)
			}
			if item.AddedAt.IsZero() {
				t.Error("Expected AddedAt to be set")
			}
			if len(repo.lists) != 1 {
				t.Errorf("Expected 1 stored item, got %d", len(repo.lists))
			}
		})
	}
}

func TestAddItem_SameTitleTwice(t *testing.T) {
	service, repo := setupListService()

	first, err := service.AddItem(context.Background(), "acct-1", "watchlist", &models.AddListItemRequest{
		TitleID: "tt0111161", TitleName: "The Shawshank Redemption"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, err := service.AddItem(context.Background(), "acct-1", "watchlist", &models.AddListItemRequest{
		TitleID: "tt0111161", TitleName: "The Shawshank Redemption", PosterPath: "/new.jpg"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(repo.lists) != 1 {
		t.Errorf("Expected re-add to upsert, got %d items", len(repo.lists))
	}
	if second.PosterPath != "/new.jpg" {
		t.Errorf("Expected refreshed poster path, got %s", second.PosterPath)
	}
	if second.AddedAt.Before(first.AddedAt) {
		t.Error("Expected AddedAt to be refreshed")
	}
}

func TestRemoveItem(t *testing.T) {
	service, repo := setupListService()

	if _, err := service.AddItem(context.Background(), "acct-1", "favorites", &models.AddListItemRequest{
		TitleID: "tt0111161", TitleName: "The Shawshank Redemption"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := service.RemoveItem(context.Background(), "acct-1", "favorites", "tt0111161"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(repo.lists) != 0 {
		t.Errorf("Expected empty list, got %d items", len(repo.lists))
	}

	// Removing again is not an error
	if err := service.RemoveItem(context.Background(), "acct-1", "favorites", "tt0111161"); err != nil {
		t.Errorf("Expected idempotent remove, got %v", err)
	}

	if err := service.RemoveItem(context.Background(), "acct-1", "bookmarks", "tt0111161"); !errors.Is(err, ErrUnknownListKind) {
		t.Errorf("Expected ErrUnknownListKind, got %v", err)
	}
}

func TestGetItems(t *testing.T) {
	service, _ := setupListService()
	ctx := context.Background()

	for _, titleID := range []string{"tt0111161", "tt0068646"} {
		if _, err := service.AddItem(ctx, "acct-1", "watchlist", &models.AddListItemRequest{
			TitleID: titleID, TitleName: "Movie " + titleID}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if _, err := service.AddItem(ctx, "acct-1", "favorites", &models.AddListItemRequest{
		TitleID: "tt0111161", TitleName: "The Shawshank Redemption"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	watchlist, err := service.GetItems(ctx, "acct-1", "watchlist")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(watchlist) != 2 {
		t.Errorf("Expected 2 watchlist items, got %d", len(watchlist))
	}

	favorites, err := service.GetItems(ctx, "acct-1", "favorites")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(favorites) != 1 {
		t.Errorf("Expected 1 favorites item, got %d", len(favorites))
	}

	if _, err := service.GetItems(ctx, "acct-1", "bookmarks"); !errors.Is(err, ErrUnknownListKind) {
		t.Errorf("Expected ErrUnknownListKind, got %v", err)
	}
}
