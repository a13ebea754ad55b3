package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

type reviewFixture struct {
	properties *fakePropertiesRepo
	reviews    *fakeReviewsRepo
	service    *ReviewService
	owner      primitive.ObjectID
	property   *models.Property
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	properties := newFakePropertiesRepo()
	reviews := newFakeReviewsRepo()
	rating := NewRatingService(properties, reviews)

	owner := primitive.NewObjectID()
	return &reviewFixture{
		properties: properties,
		reviews:    reviews,
		service:    NewReviewService(reviews, properties, rating, testLogger()),
		owner:      owner,
		property:   seedProperty(t, properties, owner),
	}
}

func TestCreateReviewUpdatesPropertyRating(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 4, "great place, would return")
	require.NoError(t, err)
	_, err = fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 5, "outstanding host and location")
	require.NoError(t, err)

	property, err := fx.properties.GetPropertyByID(context.Background(), fx.property.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, property.Rating)
	assert.Equal(t, 2, property.ReviewCount)
}

func TestCreateReviewRequiresLogin(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NilObjectID, 4, "a lovely weekend")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateReviewRejectsPropertyOwner(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, fx.owner, 5, "my own place is fantastic")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreateReviewRejectsSecondReviewBySameUser(t *testing.T) {
	fx := newReviewFixture(t)
	reviewer := primitive.NewObjectID()

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, reviewer, 4, "first impressions were good")
	require.NoError(t, err)

	// Different content, same (property, user) pair.
	_, err = fx.service.CreateReview(context.Background(), fx.property.ID, reviewer, 2, "changed my mind completely")
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestCreateReviewValidatesRatingAndComment(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 6, "rating is out of range here")
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)

	_, err = fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 4, "hi")
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}

func TestCreateReviewMissingProperty(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.CreateReview(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 4, "where did the listing go")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateReviewOnlyByAuthor(t *testing.T) {
	fx := newReviewFixture(t)
	author := primitive.NewObjectID()

	review, err := fx.service.CreateReview(context.Background(), fx.property.ID, author, 4, "good but not perfect")
	require.NoError(t, err)

	_, err = fx.service.UpdateReview(context.Background(), review.ID, primitive.NewObjectID(), 1, "drive-by edit by a stranger")
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := fx.service.UpdateReview(context.Background(), review.ID, author, 5, "upgraded after a second stay")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	property, err := fx.properties.GetPropertyByID(context.Background(), fx.property.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, property.Rating)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	fx := newReviewFixture(t)
	author := primitive.NewObjectID()

	review, err := fx.service.CreateReview(context.Background(), fx.property.ID, author, 5, "the only review so far")
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteReview(context.Background(), review.ID, author))

	property, err := fx.properties.GetPropertyByID(context.Background(), fx.property.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, property.Rating)
	assert.Equal(t, 0, property.ReviewCount)
}

func TestDeleteReviewOnlyByAuthor(t *testing.T) {
	fx := newReviewFixture(t)
	author := primitive.NewObjectID()

	review, err := fx.service.CreateReview(context.Background(), fx.property.ID, author, 4, "solid stay overall")
	require.NoError(t, err)

	err = fx.service.DeleteReview(context.Background(), review.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteReviewSurvivesVanishedProperty(t *testing.T) {
	fx := newReviewFixture(t)
	author := primitive.NewObjectID()

	review, err := fx.service.CreateReview(context.Background(), fx.property.ID, author, 4, "still standing when I left")
	require.NoError(t, err)

	// Property disappears between the review mutation and the recompute.
	require.NoError(t, fx.properties.DeleteProperty(context.Background(), fx.property.ID))

	assert.NoError(t, fx.service.DeleteReview(context.Background(), review.ID, author))
}

func TestLikeReviewIncrements(t *testing.T) {
	fx := newReviewFixture(t)

	review, err := fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 4, "helpful and honest review")
	require.NoError(t, err)

	likes, err := fx.service.LikeReview(context.Background(), review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = fx.service.LikeReview(context.Background(), review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)
}

func TestReviewsByPropertyRequiresExistingProperty(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.service.ReviewsByProperty(context.Background(), primitive.NewObjectID(), 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewsByHostSummarizesAcrossProperties(t *testing.T) {
	fx := newReviewFixture(t)
	second := seedProperty(t, fx.properties, fx.owner)

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, primitive.NewObjectID(), 4, "first property was great")
	require.NoError(t, err)
	_, err = fx.service.CreateReview(context.Background(), second.ID, primitive.NewObjectID(), 5, "second property even better")
	require.NoError(t, err)

	summary, err := fx.service.ReviewsByHost(context.Background(), fx.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 4.5, summary.AvgRating)
	assert.Len(t, summary.Reviews, 2)
}

func TestReviewsByUserSummary(t *testing.T) {
	fx := newReviewFixture(t)
	reviewer := primitive.NewObjectID()

	_, err := fx.service.CreateReview(context.Background(), fx.property.ID, reviewer, 3, "a perfectly average time")
	require.NoError(t, err)

	summary, err := fx.service.ReviewsByUser(context.Background(), reviewer)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 3.0, summary.AvgRating)
}
