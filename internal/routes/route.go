package routes

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bnbadvisor/server/internal/container"
	"github.com/bnbadvisor/server/internal/handlers"
	"github.com/bnbadvisor/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "bnbadvisor-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/logout", handlers.Logout())

		// public browsing
		v1.GET("/properties", handlers.ListProperties(container.SearchService))
		v1.GET("/properties/search", handlers.SearchProperties(container.SearchService))
		v1.GET("/properties/featured", handlers.FeaturedProperties(container.SearchService))
		v1.GET("/properties/cities", handlers.ListCities(container.SearchService))
		v1.GET("/properties/:id", handlers.GetProperty(container.PropertyService))
		v1.GET("/properties/:id/reviews", handlers.ReviewsByProperty(container.ReviewService))
		v1.GET("/reviews/:id", handlers.GetReview(container.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Logger))

	protected.GET("/profile", handlers.Profile())

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
	}

	propertyRoutes := protected.Group("/properties")
	{
		propertyRoutes.POST("/", handlers.CreateProperty(container.PropertyService))
		propertyRoutes.GET("/manage/mine", handlers.ManageProperties(container.PropertyService))
		propertyRoutes.PATCH("/:id", handlers.UpdateProperty(container.PropertyService))
		propertyRoutes.DELETE("/:id", handlers.DeleteProperty(container.PropertyService))
	}

	reviewRoutes := protected.Group("/reviews")
	{
		reviewRoutes.POST("/", handlers.CreateReview(container.ReviewService))
		reviewRoutes.PATCH("/:id", handlers.UpdateReview(container.ReviewService))
		reviewRoutes.DELETE("/:id", handlers.DeleteReview(container.ReviewService))
		reviewRoutes.POST("/:id/like", handlers.LikeReview(container.ReviewService))
		reviewRoutes.GET("/user/:id", handlers.ReviewsByUser(container.ReviewService))
		reviewRoutes.GET("/host/:id", handlers.ReviewsByHost(container.ReviewService))
	}

	favouriteRoutes := protected.Group("/favourites")
	{
		favouriteRoutes.GET("/", handlers.GetFavourites(container.FavouritesService))
		favouriteRoutes.POST("/:property_id", handlers.AddToFavourites(container.FavouritesService))
		favouriteRoutes.DELETE("/:property_id", handlers.RemoveFromFavourites(container.FavouritesService))
	}

	return r
}
