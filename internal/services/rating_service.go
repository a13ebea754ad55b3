package services

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

// RatingService keeps Property.rating and Property.review_count consistent
// with the current set of reviews. It is the only writer of those fields.
type RatingService struct {
	propertiesRepo models.PropertiesRepo
	reviewsRepo    models.ReviewsRepo
}

func NewRatingService(propertiesRepo models.PropertiesRepo, reviewsRepo models.ReviewsRepo) *RatingService {
	return &RatingService{
		propertiesRepo: propertiesRepo,
		reviewsRepo:    reviewsRepo,
	}
}

// recomputeAttempts bounds the conditional-update retry loop under concurrent
// review mutations for the same property.
const recomputeAttempts = 3

// RoundHalfUp rounds to one decimal place with half-up semantics, so a mean
// of 4.25 stores as 4.3 rather than banker's-rounded 4.2.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// Recompute re-reads every review for the property, recalculates the rounded
// average, and persists it in one conditional update. Invoked synchronously
// after each review mutation; one full re-scan per call.
func (rs *RatingService) Recompute(ctx context.Context, propertyID primitive.ObjectID) (*models.Property, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}

	for attempt := 0; attempt < recomputeAttempts; attempt++ {
		property, err := rs.propertiesRepo.GetPropertyByID(ctx, propertyID)
		if err != nil {
			return nil, err
		}

		reviews, err := rs.reviewsRepo.GetReviewsByProperty(ctx, propertyID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load reviews for recompute: %w", err)
		}

		rating := 0.0
		if len(reviews) > 0 {
			sum := 0
			for _, r := range reviews {
				sum += r.Rating
			}
			rating = RoundHalfUp(float64(sum) / float64(len(reviews)))
		}

		applied, err := rs.propertiesRepo.SetPropertyRating(ctx, propertyID, rating, len(reviews), property.RatingVersion)
		if err != nil {
			return nil, err
		}
		if applied {
			property.Rating = rating
			property.ReviewCount = len(reviews)
			property.RatingVersion++
			return property, nil
		}
		// Version moved under us; re-read and try again.
	}

	return nil, fmt.Errorf("rating recompute for property %s kept losing the version race", propertyID.Hex())
}
