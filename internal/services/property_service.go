package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/connect"
	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
)

type PropertyService struct {
	propertiesRepo models.PropertiesRepo
	reviewsRepo    models.ReviewsRepo
}

func NewPropertyService(propertiesRepo models.PropertiesRepo, reviewsRepo models.ReviewsRepo) *PropertyService {
	return &PropertyService{
		propertiesRepo: propertiesRepo,
		reviewsRepo:    reviewsRepo,
	}
}

// CreateProperty creates a listing for a manager. Images arriving as local
// paths are pushed to the upload collaborator first; only the resulting URLs
// are stored.
func (ps *PropertyService) CreateProperty(ctx context.Context, property *models.Property, ownerID primitive.ObjectID, role string) (*models.Property, error) {
	if role != models.RoleManager {
		return nil, fmt.Errorf("only hosts can create properties: %w", models.ErrForbidden)
	}
	if ownerID.IsZero() {
		return nil, fmt.Errorf("not signed in: %w", models.ErrUnauthorized)
	}

	property.Owner = ownerID
	property.Sanitize()
	if err := property.ValidateProperty(); err != nil {
		return nil, err
	}

	if len(property.Images) > 0 && connect.Cld != nil {
		urls, err := helpers.UploadImages(ctx, connect.Cld, property.Images, helpers.PropertyFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload images: %v", err)
		}
		property.Images = urls
	}

	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now
	property.Rating = 0
	property.ReviewCount = 0
	property.RatingVersion = 0

	return ps.propertiesRepo.CreateProperty(ctx, property)
}

func (ps *PropertyService) GetProperty(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}
	return ps.propertiesRepo.GetPropertyByID(ctx, id)
}

// ListByOwner is the host's "manage properties" view: no filter requirement,
// newest first.
func (ps *PropertyService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, offset, limit int) ([]*models.Property, int, error) {
	if ownerID.IsZero() {
		return nil, 0, fmt.Errorf("invalid owner ID: %w", models.ErrInvalidInput)
	}
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit: %w", models.ErrInvalidInput)
	}
	return ps.propertiesRepo.ListProperties(ctx, models.PropertyFilter{Owner: ownerID}, offset, limit)
}

// updatableFields is the whitelist for owner edits. The denormalized rating
// fields are deliberately absent: only the rating service writes those.
var updatableFields = map[string]bool{
	"title":           true,
	"description":     true,
	"category":        true,
	"city":            true,
	"price_per_night": true,
	"max_guests":      true,
	"bedrooms":        true,
	"bathrooms":       true,
	"amenities":       true,
	"images":          true,
}

func (ps *PropertyService) UpdateProperty(ctx context.Context, id, actorID primitive.ObjectID, update map[string]interface{}) (*models.Property, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}

	property, err := ps.propertiesRepo.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actorID, property.Owner); err != nil {
		return nil, err
	}

	filtered := make(map[string]interface{}, len(update))
	for key, value := range update {
		if !updatableFields[key] {
			continue
		}
		if s, ok := value.(string); ok {
			value = helpers.SanitizeText(s)
		}
		filtered[key] = value
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no updatable fields provided: %w", models.ErrInvalidInput)
	}

	if category, ok := filtered["category"].(string); ok {
		if !models.PropertyCategory(category).IsValid() {
			return nil, models.NewValidationError("category must be one of apartment, house, villa, cabin, loft, condo, other")
		}
	}

	return ps.propertiesRepo.UpdateProperty(ctx, id, filtered)
}

// DeleteProperty removes an owner's listing and cascades the delete to its
// reviews. The reviews go first so a crash in between cannot leave orphaned
// reviews pointing at a missing property.
func (ps *PropertyService) DeleteProperty(ctx context.Context, id, actorID primitive.ObjectID) error {
	if id.IsZero() {
		return fmt.Errorf("invalid property ID: %w", models.ErrInvalidInput)
	}

	property, err := ps.propertiesRepo.GetPropertyByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CanModify(actorID, property.Owner); err != nil {
		return err
	}

	if _, err := ps.reviewsRepo.DeleteReviewsByProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property reviews: %w", err)
	}
	return ps.propertiesRepo.DeleteProperty(ctx, id)
}
