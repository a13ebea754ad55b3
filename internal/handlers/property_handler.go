package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

func parsePagination(c *gin.Context) (offset, limit int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}

func CreateProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		owner, ok := actorID(c)
		if !ok {
			return
		}

		var property models.Property
		if err := c.ShouldBindJSON(&property); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := p.CreateProperty(c.Request.Context(), &property, owner, claims.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Property created successfully"))
	}
}

func GetProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		property, err := p.GetProperty(c.Request.Context(), propertyID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(property, ""))
	}
}

// ManageProperties is the host's own listing view: owner-scoped, no filter
// requirement, newest first.
func ManageProperties(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		if !claims.IsManager() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only hosts can manage properties"))
			return
		}
		owner, ok := actorID(c)
		if !ok {
			return
		}
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		properties, total, err := p.ListByOwner(c.Request.Context(), owner, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(properties, page, limit, total))
	}
}

func UpdateProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, ok := pathObjectID(c, "id")
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

		updated, err := p.UpdateProperty(c.Request.Context(), propertyID, actor, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Property updated successfully"))
	}
}

func DeleteProperty(p *services.PropertyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorID(c)
		if !ok {
			return
		}

		if err := p.DeleteProperty(c.Request.Context(), propertyID, actor); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Property deleted successfully"))
	}
}
