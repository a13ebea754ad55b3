package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

type reviewRequest struct {
	PropertyID string `json:"property_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorID(c)
		if !ok {
			return
		}

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid property_id format"))
			return
		}

		review, err := r.CreateReview(c.Request.Context(), propertyID, actor, req.Rating, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(review, "Review added successfully"))
	}
}

func UpdateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		var req struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := r.UpdateReview(c.Request.Context(), reviewID, actor, req.Rating, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Review updated successfully"))
	}
}

func DeleteReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		if err := r.DeleteReview(c.Request.Context(), reviewID, actor); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Review deleted successfully"))
	}
}

func LikeReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		likes, err := r.LikeReview(c.Request.Context(), reviewID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"likes": likes}, ""))
	}
}

func GetReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		review, err := r.GetReview(c.Request.Context(), reviewID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(review, ""))
	}
}

// ReviewsByProperty lists a property's reviews newest first. The optional
// limit caps the page for the details view.
func ReviewsByProperty(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		limit := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
				return
			}
			limit = parsed
		}

		reviews, err := r.ReviewsByProperty(c.Request.Context(), propertyID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reviews, ""))
	}
}

func ReviewsByUser(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		summary, err := r.ReviewsByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(summary, ""))
	}
}

func ReviewsByHost(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		summary, err := r.ReviewsByHost(c.Request.Context(), hostID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(summary, ""))
	}
}
