package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

// SearchProperties is the public search page: at least one of keyword or city
// must be supplied. An empty result set is a 200 with empty data, never a 400.
func SearchProperties(s *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		query := services.SearchQuery{
			Keyword: c.Query("keyword"),
			City:    c.Query("city"),
		}

		results, total, err := s.Search(c.Request.Context(), query, services.SearchOptions{RequireFilter: true}, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(results, page, limit, total))
	}
}

// ListProperties is the unfiltered "all properties" endpoint, with optional
// owner and city narrowing. No filter requirement here; an empty query returns
// everything.
func ListProperties(s *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		query := services.SearchQuery{
			Keyword: c.Query("keyword"),
			City:    c.Query("city"),
		}
		if ownerStr := c.Query("owner"); ownerStr != "" {
			owner, err := primitive.ObjectIDFromHex(ownerStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid owner format"))
				return
			}
			query.Owner = owner
		}

		results, total, err := s.Search(c.Request.Context(), query, services.SearchOptions{}, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(results, page, limit, total))
	}
}

// FeaturedProperties serves the landing page's top-rated strip.
func FeaturedProperties(s *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := s.TopRated(c.Request.Context(), services.TopRatedPageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(results, ""))
	}
}

func ListCities(s *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cities, err := s.Cities(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(cities, ""))
	}
}
