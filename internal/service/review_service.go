package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinelog/cinelog-server/internal/events"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/repository"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("review belongs to another account")
)

type ReviewService struct {
	repo   repository.Repository
	events events.Publisher
}

func NewReviewService(repo repository.Repository, publisher events.Publisher) *ReviewService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ReviewService{repo: repo, events: publisher}
}

func (s *ReviewService) CreateReview(ctx context.Context, accountID string, req *models.CreateReviewRequest) (*models.Review, error) {
	reviewID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate review ID: %w", err)
	}

	now := time.Now().UTC()
	review := &models.Review{
		ID:        reviewID.String(),
		AccountID: accountID,
		TitleID:   req.TitleID,
		TitleName: req.TitleName,
		Rating:    req.Rating,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.events.Publish(ctx, events.SubjectReviewsCreated, events.ReviewEvent{
		ReviewID:  review.ID,
		AccountID: accountID,
		TitleID:   review.TitleID,
		At:        now,
	})

	return review, nil
}

// UpdateReview rewrites the rating and content of the caller's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, accountID, reviewID string, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	if review.AccountID != accountID {
		return nil, ErrNotReviewOwner
	}

	review.Rating = req.Rating
	review.Content = req.Content
	review.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// DeleteReview removes the caller's own review.
func (s *ReviewService) DeleteReview(ctx context.Context, accountID, reviewID string) error {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to load review: %w", err)
	}

	if review.AccountID != accountID {
		return ErrNotReviewOwner
	}

	return s.deleteReview(ctx, review)
}

// DeleteAnyReview removes a review regardless of who wrote it. Admin only;
// the handler enforces the role.
func (s *ReviewService) DeleteAnyReview(ctx context.Context, reviewID string) error {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to load review: %w", err)
	}

	return s.deleteReview(ctx, review)
}

func (s *ReviewService) deleteReview(ctx context.Context, review *models.Review) error {
	if err := s.repo.DeleteReview(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.events.Publish(ctx, events.SubjectReviewsDeleted, events.ReviewEvent{
		ReviewID:  review.ID,
		AccountID: review.AccountID,
		TitleID:   review.TitleID,
		At:        time.Now().UTC(),
	})

	return nil
}

func (s *ReviewService) ListReviewsByTitle(ctx context.Context, titleID string, limit int) ([]*models.Review, error) {
	reviews, err := s.repo.ListReviewsByTitle(ctx, titleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ListReviewsByAccount(ctx context.Context, accountID string, limit int) ([]*models.Review, error) {
	reviews, err := s.repo.ListReviewsByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
