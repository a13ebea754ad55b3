package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

func seedProperty(t *testing.T, repo *fakePropertiesRepo, owner primitive.ObjectID) *models.Property {
	t.Helper()
	property, err := repo.CreateProperty(context.Background(), &models.Property{
		Title:     "Canal View Apartment",
		City:      "Amsterdam",
		Category:  models.CategoryApartment,
		MaxGuests: 2,
		Owner:     owner,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return property
}

func seedReview(t *testing.T, repo *fakeReviewsRepo, propertyID, userID primitive.ObjectID, rating int) *models.Review {
	t.Helper()
	review, err := repo.CreateReview(context.Background(), &models.Review{
		PropertyID: propertyID,
		UserID:     userID,
		Rating:     rating,
		Comment:    "a perfectly fine stay",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	return review
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.0, 4.0},
		{13.0 / 3.0, 4.3},
		{3.5, 3.5},
		{4.25, 4.3},
		{4.24, 4.2},
		{0, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundHalfUp(tc.in), 1e-9, "RoundHalfUp(%v)", tc.in)
	}
}

func TestRecomputeAveragesAndRounds(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	owner := primitive.NewObjectID()
	property := seedProperty(t, properties, owner)
	for _, r := range []int{4, 5, 3} {
		seedReview(t, reviews, property.ID, primitive.NewObjectID(), r)
	}

	updated, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Rating)
	assert.Equal(t, 3, updated.ReviewCount)

	stored, err := properties.GetPropertyByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, 3, stored.ReviewCount)
}

func TestRecomputeRoundsHalfUp(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	property := seedProperty(t, properties, primitive.NewObjectID())
	for _, r := range []int{4, 4, 5} {
		seedReview(t, reviews, property.ID, primitive.NewObjectID(), r)
	}

	updated, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, updated.Rating)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	property := seedProperty(t, properties, primitive.NewObjectID())
	seedReview(t, reviews, property.ID, primitive.NewObjectID(), 3)
	seedReview(t, reviews, property.ID, primitive.NewObjectID(), 4)

	first, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)
	second, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Rating, second.Rating)
	assert.Equal(t, first.ReviewCount, second.ReviewCount)
	assert.Equal(t, 3.5, second.Rating)
}

func TestRecomputeWithNoReviewsResetsRating(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	property := seedProperty(t, properties, primitive.NewObjectID())
	review := seedReview(t, reviews, property.ID, primitive.NewObjectID(), 5)

	_, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)

	require.NoError(t, reviews.DeleteReview(context.Background(), review.ID))
	updated, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, updated.Rating)
	assert.Equal(t, 0, updated.ReviewCount)
}

func TestRecomputeRetriesLostVersionRace(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	property := seedProperty(t, properties, primitive.NewObjectID())
	seedReview(t, reviews, property.ID, primitive.NewObjectID(), 5)

	// Two lost races still fit inside the retry budget.
	properties.loseVersionRace = 2
	updated, err := rating.Recompute(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)
}

func TestRecomputeGivesUpAfterRepeatedRaces(t *testing.T) {
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	property := seedProperty(t, properties, primitive.NewObjectID())
	seedReview(t, reviews, property.ID, primitive.NewObjectID(), 5)

	properties.loseVersionRace = 3
	_, err := rating.Recompute(context.Background(), property.ID)
	assert.Error(t, err)
}

func TestRecomputeMissingProperty(t *testing.T) {
	rating := NewRatingService(newFakePropertiesRepo(), newFakeReviewsRepo())

	_, err := rating.Recompute(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
