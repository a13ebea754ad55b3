package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bnbadvisor/server/internal/models"
	"github.com/bnbadvisor/server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary

	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo

	UserService       *services.UserService
	PropertyService   *services.PropertyService
	ReviewService     *services.ReviewService
	RatingService     *services.RatingService
	SearchService     *services.SearchService
	FavouritesService *services.FavouriteService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)

	ratingService := services.NewRatingService(repo, repo)
	userService := services.NewUserService(repo)
	propertyService := services.NewPropertyService(repo, repo)
	reviewService := services.NewReviewService(repo, repo, ratingService, logger)
	searchService := services.NewSearchService(repo)
	favouriteService := services.NewFavouriteService(repo, repo)

	return &Container{
		Logger:            logger,
		Cloudinary:        cloudinary,
		MongoDBClient:     mongoDBClient,
		Repo:              repo,
		UserService:       userService,
		PropertyService:   propertyService,
		ReviewService:     reviewService,
		RatingService:     ratingService,
		SearchService:     searchService,
		FavouritesService: favouriteService,
	}
}
