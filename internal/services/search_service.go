package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
)

// SearchQuery carries the supported listing filters. All fields are optional;
// SearchOptions decides whether "all empty" is acceptable for the endpoint.
type SearchQuery struct {
	Keyword string
	City    string
	Owner   primitive.ObjectID
}

// SearchOptions is per-endpoint configuration for the one shared search
// component. The public search page requires at least one filter; owner-scoped
// and "all properties" listings do not.
type SearchOptions struct {
	RequireFilter bool
}

const TopRatedPageSize = 5

type SearchService struct {
	propertiesRepo models.PropertiesRepo
}

func NewSearchService(propertiesRepo models.PropertiesRepo) *SearchService {
	return &SearchService{
		propertiesRepo: propertiesRepo,
	}
}

// Search resolves a listing request into matching properties. An empty result
// is a valid outcome and is distinct from a validation failure.
func (ss *SearchService) Search(ctx context.Context, query SearchQuery, opts SearchOptions, offset, limit int) ([]*models.Property, int, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit: %w", models.ErrInvalidInput)
	}

	keyword := helpers.SanitizeText(query.Keyword)
	city := helpers.SanitizeText(query.City)

	if opts.RequireFilter && keyword == "" && city == "" && query.Owner.IsZero() {
		return nil, 0, fmt.Errorf("please enter a search keyword or select a city: %w", models.ErrInvalidInput)
	}
	if keyword != "" && helpers.IsDigitsOnly(keyword) {
		return nil, 0, fmt.Errorf("keyword cannot be only numbers: %w", models.ErrInvalidKeyword)
	}

	filter := models.PropertyFilter{
		Keyword: keyword,
		City:    city,
		Owner:   query.Owner,
	}
	return ss.propertiesRepo.ListProperties(ctx, filter, offset, limit)
}

// TopRated returns the featured page: properties ordered by descending
// average rating, capped to a fixed size.
func (ss *SearchService) TopRated(ctx context.Context, limit int) ([]*models.Property, error) {
	if limit <= 0 {
		limit = TopRatedPageSize
	}
	return ss.propertiesRepo.TopRatedProperties(ctx, limit)
}

// Cities lists the distinct city values currently present, for the landing
// page's city dropdown.
func (ss *SearchService) Cities(ctx context.Context) ([]string, error) {
	return ss.propertiesRepo.DistinctCities(ctx)
}
