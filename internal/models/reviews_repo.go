package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ReviewColName = "reviews"

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	GetReviewsByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]*Review, error)
	GetReviewsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Review, error)
	GetReviewsByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]*Review, error)
	FindReviewByPropertyAndUser(ctx context.Context, propertyID, userID primitive.ObjectID) (*Review, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, rating int, comment string) (*Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	DeleteReviewsByProperty(ctx context.Context, propertyID primitive.ObjectID) (int, error)
	LikeReview(ctx context.Context, id primitive.ObjectID) (int, error)
}

func (mdb *MongodbRepo) ensureReviewIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		// One review per (property, user) pair, enforced at the store.
		{
			Keys: bson.D{
				{Key: "property_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("property_user_unique"),
		},
		{
			Keys: bson.D{
				{Key: "property_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("property_created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_idx"),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating review indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	if err := review.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare review for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	_, err = col.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("you have already reviewed this property: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert review into database: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var review Review
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFoundf("review %s", id.Hex())
		}
		return nil, fmt.Errorf("error finding review: %v", err)
	}
	return &review, nil
}

// reviewsWithAuthor joins the author's name onto each review so listing pages
// can render "Jane D." without a second round trip per review.
func reviewsWithAuthor(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UserColName,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"author_name": bson.M{"$concat": bson.A{
				bson.M{"$ifNull": bson.A{bson.M{"$first": "$author.first_name"}, ""}},
				" ",
				bson.M{"$ifNull": bson.A{bson.M{"$first": "$author.last_name"}, ""}},
			}},
		}}},
		{{Key: "$project", Value: bson.M{"author": 0}}},
	}
}

func (mdb *MongodbRepo) aggregateReviews(ctx context.Context, match bson.M, limit int) ([]*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := reviewsWithAuthor(match)
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating reviews: %v", err)
	}
	defer cursor.Close(ctx)

	reviews := []*Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %v", err)
	}
	return reviews, nil
}

func (mdb *MongodbRepo) GetReviewsByProperty(ctx context.Context, propertyID primitive.ObjectID, limit int) ([]*Review, error) {
	return mdb.aggregateReviews(ctx, bson.M{"property_id": propertyID}, limit)
}

func (mdb *MongodbRepo) GetReviewsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Review, error) {
	return mdb.aggregateReviews(ctx, bson.M{"user_id": userID}, 0)
}

func (mdb *MongodbRepo) GetReviewsByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]*Review, error) {
	if len(propertyIDs) == 0 {
		return []*Review{}, nil
	}
	return mdb.aggregateReviews(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}}, 0)
}

func (mdb *MongodbRepo) FindReviewByPropertyAndUser(ctx context.Context, propertyID, userID primitive.ObjectID) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var review Review
	err = col.FindOne(ctx, bson.M{"property_id": propertyID, "user_id": userID}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFoundf("review for property %s by user %s", propertyID.Hex(), userID.Hex())
		}
		return nil, fmt.Errorf("error finding review: %v", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) UpdateReview(ctx context.Context, id primitive.ObjectID, rating int, comment string) (*Review, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"comment":    comment,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Review
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFoundf("review %s", id.Hex())
		}
		return nil, fmt.Errorf("error updating review: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting review: %v", err)
	}
	if res.DeletedCount == 0 {
		return notFoundf("review %s", id.Hex())
	}
	return nil
}

func (mdb *MongodbRepo) DeleteReviewsByProperty(ctx context.Context, propertyID primitive.ObjectID) (int, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteMany(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("error deleting reviews for property: %v", err)
	}
	return int(res.DeletedCount), nil
}

func (mdb *MongodbRepo) LikeReview(ctx context.Context, id primitive.ObjectID) (int, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Review
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": 1}}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, notFoundf("review %s", id.Hex())
		}
		return 0, fmt.Errorf("error liking review: %v", err)
	}
	return updated.Likes, nil
}
