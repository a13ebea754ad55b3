package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

type ReviewService struct {
	reviewsRepo    models.ReviewsRepo
	propertiesRepo models.PropertiesRepo
	rating         *RatingService
	logger         *slog.Logger
}

func NewReviewService(reviewsRepo models.ReviewsRepo, propertiesRepo models.PropertiesRepo, rating *RatingService, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviewsRepo:    reviewsRepo,
		propertiesRepo: propertiesRepo,
		rating:         rating,
		logger:         logger,
	}
}

// recomputeAfterMutation runs the aggregator in-line after a committed review
// mutation. A property that vanished between commit and recompute is logged
// and swallowed so e.g. a successful review delete never fails the request.
func (rs *ReviewService) recomputeAfterMutation(ctx context.Context, propertyID primitive.ObjectID) {
	if _, err := rs.rating.Recompute(ctx, propertyID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			rs.logger.Warn("rating recompute skipped, property no longer exists",
				"property_id", propertyID.Hex(),
			)
			return
		}
		rs.logger.Error("rating recompute failed",
			"property_id", propertyID.Hex(),
			"error", err,
		)
	}
}

// CreateReview adds a review by an authenticated non-owner. At most one review
// per (property, user) pair; a second attempt is rejected whatever its content.
func (rs *ReviewService) CreateReview(ctx context.Context, propertyID, userID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("please log in to create a review: %w", models.ErrUnauthorized)
	}

	property, err := rs.propertiesRepo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Owner == userID {
		return nil, fmt.Errorf("property owners cannot review their own properties: %w", models.ErrForbidden)
	}

	existing, err := rs.reviewsRepo.FindReviewByPropertyAndUser(ctx, propertyID, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("you have already reviewed this property: %w", models.ErrDuplicate)
	}

	now := time.Now()
	review := &models.Review{
		PropertyID: propertyID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	review.Sanitize()
	if err := review.ValidateReview(); err != nil {
		return nil, err
	}

	created, err := rs.reviewsRepo.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	rs.recomputeAfterMutation(ctx, propertyID)
	return created, nil
}

func (rs *ReviewService) UpdateReview(ctx context.Context, reviewID, actorID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	review, err := rs.reviewsRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actorID, review.UserID); err != nil {
		return nil, err
	}

	candidate := *review
	candidate.Rating = rating
	candidate.Comment = comment
	candidate.Sanitize()
	if err := candidate.ValidateReview(); err != nil {
		return nil, err
	}

	updated, err := rs.reviewsRepo.UpdateReview(ctx, reviewID, candidate.Rating, candidate.Comment)
	if err != nil {
		return nil, err
	}

	rs.recomputeAfterMutation(ctx, review.PropertyID)
	return updated, nil
}

func (rs *ReviewService) DeleteReview(ctx context.Context, reviewID, actorID primitive.ObjectID) error {
	review, err := rs.reviewsRepo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := CanModify(actorID, review.UserID); err != nil {
		return err
	}

	if err := rs.reviewsRepo.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	rs.recomputeAfterMutation(ctx, review.PropertyID)
	return nil
}

func (rs *ReviewService) LikeReview(ctx context.Context, reviewID primitive.ObjectID) (int, error) {
	if reviewID.IsZero() {
		return 0, fmt.Errorf("invalid review ID: %w", models.ErrInvalidInput)
	}
	return rs.reviewsRepo.LikeReview(ctx, reviewID)
}

func (rs *ReviewService) GetReview(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	if reviewID.IsZero() {
		return nil, fmt.Errorf("invalid review ID: %w", models.ErrInvalidInput)
	}
	return rs.reviewsRepo.GetReviewByID(ctx, reviewID)
}

// ReviewsByProperty lists a property's reviews newest first, populated with
// author names. The property must exist.
func (rs *ReviewService) ReviewsByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]*models.Review, error) {
	if _, err := rs.propertiesRepo.GetPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return rs.reviewsRepo.GetReviewsByProperty(ctx, propertyID, limit)
}

// ReviewSummary pairs a review listing with its count and rounded average,
// for the user and host dashboard endpoints.
type ReviewSummary struct {
	Reviews   []*models.Review `json:"reviews"`
	Total     int              `json:"total"`
	AvgRating float64          `json:"avg_rating"`
}

func summarize(reviews []*models.Review) *ReviewSummary {
	summary := &ReviewSummary{Reviews: reviews, Total: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		summary.AvgRating = RoundHalfUp(float64(sum) / float64(len(reviews)))
	}
	return summary
}

func (rs *ReviewService) ReviewsByUser(ctx context.Context, userID primitive.ObjectID) (*ReviewSummary, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrInvalidInput)
	}
	reviews, err := rs.reviewsRepo.GetReviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(reviews), nil
}

// ReviewsByHost collects the reviews across every property the host owns.
func (rs *ReviewService) ReviewsByHost(ctx context.Context, hostID primitive.ObjectID) (*ReviewSummary, error) {
	if hostID.IsZero() {
		return nil, fmt.Errorf("invalid host ID: %w", models.ErrInvalidInput)
	}

	properties, _, err := rs.propertiesRepo.ListProperties(ctx, models.PropertyFilter{Owner: hostID}, 0, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	reviews, err := rs.reviewsRepo.GetReviewsByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	return summarize(reviews), nil
}
