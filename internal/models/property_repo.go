package models

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PropertyColName = "properties"

// PropertyFilter narrows a listing query. Zero values mean "no constraint";
// whether at least one constraint is required is the caller's policy, not the
// repository's.
type PropertyFilter struct {
	Keyword string
	City    string
	Owner   primitive.ObjectID
}

type PropertiesRepo interface {
	CreateProperty(ctx context.Context, property *Property) (*Property, error)
	GetPropertyByID(ctx context.Context, id primitive.ObjectID) (*Property, error)
	ListProperties(ctx context.Context, filter PropertyFilter, offset, limit int) ([]*Property, int, error)
	TopRatedProperties(ctx context.Context, limit int) ([]*Property, error)
	DistinctCities(ctx context.Context) ([]string, error)
	UpdateProperty(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Property, error)
	DeleteProperty(ctx context.Context, id primitive.ObjectID) error
	SetPropertyRating(ctx context.Context, id primitive.ObjectID, rating float64, count int, seenVersion int64) (bool, error)
}

func (mdb *MongodbRepo) ensurePropertyIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("owner_idx"),
		},
		{
			Keys:    bson.D{{Key: "city", Value: 1}},
			Options: options.Index().SetName("city_idx"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_desc_idx"),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating property indexes: %v", err)
	}
	return nil
}

func (f PropertyFilter) toBson() bson.M {
	query := bson.M{}
	if f.Keyword != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Keyword), Options: "i"}
	}
	if f.City != "" {
		// Exact match on the city attribute, case folded. Anchored so
		// "Tokyo" never matches "Tokyo-West".
		query["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.City) + "$", Options: "i"}
	}
	if !f.Owner.IsZero() {
		query["owner"] = f.Owner
	}
	return query
}

func (mdb *MongodbRepo) CreateProperty(ctx context.Context, property *Property) (*Property, error) {
	if err := property.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare property for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	_, err = col.InsertOne(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("failed to insert property into database: %w", err)
	}
	return property, nil
}

func (mdb *MongodbRepo) GetPropertyByID(ctx context.Context, id primitive.ObjectID) (*Property, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var property Property
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFoundf("property %s", id.Hex())
		}
		return nil, fmt.Errorf("error finding property: %v", err)
	}
	return &property, nil
}

func (mdb *MongodbRepo) ListProperties(ctx context.Context, filter PropertyFilter, offset, limit int) ([]*Property, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	query := filter.toBson()
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting properties: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding properties: %v", err)
	}
	defer cursor.Close(ctx)

	properties := []*Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, fmt.Errorf("error decoding properties: %v", err)
	}
	return properties, int(total), nil
}

func (mdb *MongodbRepo) TopRatedProperties(ctx context.Context, limit int) ([]*Property, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding top rated properties: %v", err)
	}
	defer cursor.Close(ctx)

	properties := []*Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("error decoding properties: %v", err)
	}
	return properties, nil
}

func (mdb *MongodbRepo) DistinctCities(ctx context.Context) ([]string, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	raw, err := col.Distinct(ctx, "city", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing cities: %v", err)
	}

	cities := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			cities = append(cities, s)
		}
	}
	return cities, nil
}

func (mdb *MongodbRepo) UpdateProperty(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Property, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Property
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFoundf("property %s", id.Hex())
		}
		return nil, fmt.Errorf("error updating property: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteProperty(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting property: %v", err)
	}
	if res.DeletedCount == 0 {
		return notFoundf("property %s", id.Hex())
	}
	return nil
}

// SetPropertyRating persists a recomputed aggregate. The update is conditional
// on the rating_version the caller read, so two concurrent recomputes cannot
// silently overwrite each other; the loser observes applied=false and retries
// against fresh data.
func (mdb *MongodbRepo) SetPropertyRating(ctx context.Context, id primitive.ObjectID, rating float64, count int, seenVersion int64) (bool, error) {
	col, err := mdb.GetCollection(ctx, DbName, PropertyColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "rating_version": seenVersion},
		bson.M{
			"$set": bson.M{
				"rating":       rating,
				"review_count": count,
			},
			"$inc": bson.M{"rating_version": 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("error updating property rating: %v", err)
	}
	if res.MatchedCount == 0 {
		// Either the property is gone or the version moved under us.
		exists, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, fmt.Errorf("error checking property existence: %v", err)
		}
		if exists == 0 {
			return false, notFoundf("property %s", id.Hex())
		}
		return false, nil
	}
	return true, nil
}
