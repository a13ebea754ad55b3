package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

func AddToFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorID(c)
		if !ok {
			return
		}
		propertyID, ok := pathObjectID(c, "property_id")
		if !ok {
			return
		}

		fav, err := f.AddToFavourites(c.Request.Context(), actor, propertyID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(fav, "Property saved to favourites"))
	}
}

func RemoveFromFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorID(c)
		if !ok {
			return
		}
		propertyID, ok := pathObjectID(c, "property_id")
		if !ok {
			return
		}

		if err := f.RemoveFromFavourites(c.Request.Context(), actor, propertyID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Property removed from favourites"))
	}
}

func GetFavourites(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorID(c)
		if !ok {
			return
		}

		fav, err := f.GetFavourites(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(fav, ""))
	}
}
