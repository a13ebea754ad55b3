package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

const DbName = "bnbadvisor"

type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	col := mdb.mongodbClient.Database(dbName).Collection(colName)
	return col, nil
}

// EnsureIndexes creates the indexes every collection relies on. Called once
// at startup; index creation is idempotent on the Mongo side.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	if err := mdb.ensureUserIndexes(ctx); err != nil {
		return err
	}
	if err := mdb.ensurePropertyIndexes(ctx); err != nil {
		return err
	}
	return mdb.ensureReviewIndexes(ctx)
}
