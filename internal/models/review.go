package models

import "time"

type Review struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	TitleID   string    `json:"title_id"`
	TitleName string    `json:"title_name"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	TitleID   string `json:"title_id"`
	TitleName string `json:"title_name"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}
