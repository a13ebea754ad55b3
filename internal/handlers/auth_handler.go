package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

func setSessionCookie(c *gin.Context, token string) {
	isProduction := os.Getenv("GIN_MODE") == "production"
	c.SetCookie(
		"access_token",
		token,
		helpers.SessionMaxAge(),
		"/",
		"", // let Gin pick current domain
		isProduction,
		true,
	)
}

func Signup(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, token, err := u.SignupUser(c.Request.Context(), &user)
		if err != nil {
			respondError(c, err)
			return
		}

		// Signup doubles as login.
		setSessionCookie(c, token)
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Account created successfully"))
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		user, token, err := u.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		setSessionCookie(c, token)
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Logged in successfully"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"
		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":    claims.UserID,
			"first_name": claims.FirstName,
			"last_name":  claims.LastName,
			"email":      claims.Email,
			"role":       claims.Role,
			"is_manager": claims.IsManager(),
		})
	}
}
