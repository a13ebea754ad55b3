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

const FavouriteColName = "favourites"

type FavouriteItem struct {
	PropertyID string    `bson:"property_id" json:"property_id"`
	AddedAt    time.Time `bson:"added_at" json:"added_at"`
}

// Favourite is one document per user holding their saved properties keyed by
// property id, so add/remove are single-field updates.
type Favourite struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID       `bson:"user_id" json:"user_id"`
	Items     map[string]FavouriteItem `bson:"items" json:"items"`
	CreatedAt time.Time                `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time                `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type FavouriteRepo interface {
	AddToFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) (*Favourite, error)
	RemoveFromFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) error
	GetFavouritesByUserID(ctx context.Context, userID primitive.ObjectID) (*Favourite, error)
}

func (mdb *MongodbRepo) AddToFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) (*Favourite, error) {
	col, err := mdb.GetCollection(ctx, DbName, FavouriteColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	now := time.Now()
	filter := bson.M{"user_id": userID}

	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", propertyID.Hex()): FavouriteItem{
				PropertyID: propertyID.Hex(),
				AddedAt:    now,
			},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result Favourite
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error upserting favourite: %v", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) RemoveFromFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, FavouriteColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$unset": bson.M{
			fmt.Sprintf("items.%s", propertyID.Hex()): "",
		},
		"$set": bson.M{
			"updated_at": time.Now(),
		},
	}

	_, err = col.UpdateOne(ctx, filter, update)
	return err
}

func (mdb *MongodbRepo) GetFavouritesByUserID(ctx context.Context, userID primitive.ObjectID) (*Favourite, error) {
	col, err := mdb.GetCollection(ctx, DbName, FavouriteColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var fav Favourite
	err = col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&fav)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// A user with no saved properties is not an error.
			return &Favourite{UserID: userID, Items: map[string]FavouriteItem{}}, nil
		}
		return nil, fmt.Errorf("error finding favourites: %v", err)
	}
	if fav.Items == nil {
		fav.Items = map[string]FavouriteItem{}
	}
	return &fav, nil
}
