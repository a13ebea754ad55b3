package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bnbadvisor/server/internal/container"
	"github.com/bnbadvisor/server/internal/helpers"
	"github.com/bnbadvisor/server/internal/models"
)

// Seeder fills an empty database with fixture users, properties and reviews
// so a development instance has something to browse.
type Seeder struct {
	container *container.Container
	logger    *slog.Logger
}

func NewSeeder(c *container.Container) *Seeder {
	return &Seeder{
		container: c,
		logger:    c.Logger,
	}
}

// ShouldSeed reports whether the database is empty.
func (s *Seeder) ShouldSeed(ctx context.Context) (bool, error) {
	col, err := s.container.Repo.GetCollection(ctx, models.DbName, models.PropertyColName)
	if err != nil {
		return false, err
	}
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("failed to count properties: %v", err)
	}
	return count == 0, nil
}

type seedUser struct {
	firstName string
	lastName  string
	email     string
	role      string
}

type seedProperty struct {
	title     string
	category  models.PropertyCategory
	city      string
	price     float64
	maxGuests int
	bedrooms  int
	bathrooms int
	amenities []string
}

type seedReview struct {
	propertyIdx int
	userIdx     int
	rating      int
	comment     string
}

var seedUsers = []seedUser{
	{"Marta", "Kovacs", "marta.kovacs@example.com", models.RoleManager},
	{"Dev", "Sharma", "dev.sharma@example.com", models.RoleManager},
	{"Lena", "Okafor", "lena.okafor@example.com", models.RoleUser},
	{"Tom", "Price", "tom.price@example.com", models.RoleUser},
	{"Yuki", "Tanaka", "yuki.tanaka@example.com", models.RoleUser},
}

var seedProperties = []seedProperty{
	{"Sunny Loft near the River", models.CategoryLoft, "Amsterdam", 120, 2, 1, 1, []string{"wifi", "kitchen"}},
	{"Cozy Cabin in the Pines", models.CategoryCabin, "Bergen", 95, 4, 2, 1, []string{"fireplace", "parking"}},
	{"Downtown Studio Apartment", models.CategoryApartment, "Tokyo", 80, 2, 1, 1, []string{"wifi", "washer"}},
	{"Seaside Villa with Pool", models.CategoryVilla, "Lisbon", 260, 6, 3, 2, []string{"pool", "wifi", "air conditioning"}},
	{"Quiet Condo by the Park", models.CategoryCondo, "Tokyo", 110, 3, 2, 1, []string{"wifi", "elevator"}},
	{"Old Town House with Garden", models.CategoryHouse, "Krakow", 140, 5, 3, 2, []string{"garden", "kitchen", "parking"}},
}

var seedReviews = []seedReview{
	{0, 2, 5, "Wonderful light and a great location, would stay again."},
	{0, 3, 4, "Comfortable and clean, a little noisy on weekends."},
	{1, 2, 5, "The fireplace made the whole trip. Perfect for winter."},
	{2, 3, 3, "Small but functional, exactly what the listing promised."},
	{2, 4, 4, "Great value for the neighbourhood, easy check-in."},
	{3, 4, 5, "The pool and the view are even better than the photos."},
	{4, 2, 4, "Lovely park views and very quiet at night."},
}

// Run inserts the fixtures. Properties are created through the normal
// repositories and reviews through the review flow, so ratings end up
// recomputed by the aggregator exactly as they would in production.
func (s *Seeder) Run(ctx context.Context) error {
	start := time.Now()

	users := make([]*models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		hashed, err := helpers.HashPassword("Passw0rd" + su.firstName)
		if err != nil {
			return err
		}
		user := &models.User{
			FirstName:      su.firstName,
			LastName:       su.lastName,
			Email:          su.email,
			HashedPassword: hashed,
			Role:           su.role,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		created, err := s.container.Repo.CreateUser(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.email, err)
		}
		users = append(users, created)
	}

	// Alternate listings between the two manager accounts.
	managers := []*models.User{users[0], users[1]}
	properties := make([]*models.Property, 0, len(seedProperties))
	for i, sp := range seedProperties {
		owner := managers[i%len(managers)]
		property := &models.Property{
			Title:         sp.title,
			Description:   fmt.Sprintf("%s in %s, sleeps %d.", sp.title, sp.city, sp.maxGuests),
			Category:      sp.category,
			City:          sp.city,
			PricePerNight: sp.price,
			MaxGuests:     sp.maxGuests,
			Bedrooms:      sp.bedrooms,
			Bathrooms:     sp.bathrooms,
			Amenities:     sp.amenities,
			Owner:         owner.ID,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		created, err := s.container.Repo.CreateProperty(ctx, property)
		if err != nil {
			return fmt.Errorf("failed to seed property %q: %w", sp.title, err)
		}
		properties = append(properties, created)
	}

	for _, sr := range seedReviews {
		property := properties[sr.propertyIdx]
		author := users[sr.userIdx]
		if _, err := s.container.ReviewService.CreateReview(ctx, property.ID, author.ID, sr.rating, sr.comment); err != nil {
			return fmt.Errorf("failed to seed review for %q: %w", property.Title, err)
		}
	}

	s.logger.Info("Database seeded",
		"users", len(users),
		"properties", len(properties),
		"reviews", len(seedReviews),
		"took", time.Since(start),
	)
	return nil
}
