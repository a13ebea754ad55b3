package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
)

// respondError maps a service error to an HTTP status and the shared response
// envelope. Data-level failures never crash the process; everything unmatched
// is a 500 with the error message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case models.IsValidation(err),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidKeyword):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicate):
		status = http.StatusConflict
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

// currentClaims pulls the session claims the auth middleware stored.
func currentClaims(c *gin.Context) (*helpers.SessionClaims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	claims, ok := userClaims.(*helpers.SessionClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, false
	}
	return claims, true
}

// actorID resolves the signed-in user's ObjectID from the claims.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathObjectID parses an ObjectID path parameter.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name+" format"))
		return primitive.NilObjectID, false
	}
	return id, true
}
