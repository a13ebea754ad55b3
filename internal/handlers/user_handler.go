package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		// Users can only read their own record.
		if actor != userID {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		user, err := u.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func UpdateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := u.UpdateUser(c.Request.Context(), userID, actor, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Profile updated successfully"))
	}
}

func DeleteUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		if err := u.DeleteUser(c.Request.Context(), userID, actor); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Account deleted successfully"))
	}
}
