package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
)

type FavouriteService struct {
	favouritesRepo models.FavouriteRepo
	propertiesRepo models.PropertiesRepo
}

func NewFavouriteService(favouritesRepo models.FavouriteRepo, propertiesRepo models.PropertiesRepo) *FavouriteService {
	return &FavouriteService{
		favouritesRepo: favouritesRepo,
		propertiesRepo: propertiesRepo,
	}
}

func (fs *FavouriteService) AddToFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.Favourite, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("not signed in: %w", models.ErrUnauthorized)
	}
	if propertyID.IsZero() {
		return nil, fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}

	// Only existing properties can be saved.
	if _, err := fs.propertiesRepo.GetPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}

	return fs.favouritesRepo.AddToFavourites(ctx, userID, propertyID)
}

func (fs *FavouriteService) RemoveFromFavourites(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	if userID.IsZero() {
		return fmt.Errorf("not signed in: %w", models.ErrUnauthorized)
	}
	if propertyID.IsZero() {
		return fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}

	return fs.favouritesRepo.RemoveFromFavourites(ctx, userID, propertyID)
}

func (fs *FavouriteService) GetFavourites(ctx context.Context, userID primitive.ObjectID) (*models.Favourite, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("not signed in: %w", models.ErrUnauthorized)
	}
	return fs.favouritesRepo.GetFavouritesByUserID(ctx, userID)
}
