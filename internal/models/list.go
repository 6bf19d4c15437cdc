package models

import "time"

// ListKind names one of the per-account title lists.
type ListKind string

const (
	ListWatchlist ListKind = "watchlist"
	ListFavorites ListKind = "favorites"
	ListHistory   ListKind = "history"
)

// ValidListKind reports whether s names a known list kind.
func ValidListKind(s string) bool {
	switch ListKind(s) {
	case ListWatchlist, ListFavorites, ListHistory:
		return true
	}
	return false
}

type ListItem struct {
	AccountID  string    `json:"account_id"`
	Kind       ListKind  `json:"kind"`
	TitleID    string    `json:"title_id"`
	TitleName  string    `json:"title_name"`
	PosterPath string    `json:"poster_path,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

type AddListItemRequest struct {
	TitleID    string `json:"title_id"`
	TitleName  string `json:"title_name"`
	PosterPath string `json:"poster_path,omitempty"`
}
